package service

import (
	"context"

	"ticketdesk/internal/models"
)

// AdminAPI is the organizer console part of the platform API
type AdminAPI interface {
	ListRegistrations(ctx context.Context, eventID string) ([]models.Registration, error)
	CreateDiscounts(ctx context.Context, req models.DiscountCreateRequest) ([]models.Discount, error)
	ListDiscounts(ctx context.Context, eventID string) ([]models.DiscountOrganization, error)
	InviteAdmin(ctx context.Context, req models.AdminInviteRequest) (*models.Admin, error)
	ListAdmins(ctx context.Context) ([]models.Admin, error)
	DeleteAdmin(ctx context.Context, entryID string) error
}

// LedgerPage is a page of locally recorded registrations
type LedgerPage struct {
	Registrations []models.Registration `json:"registrations"`
	Total         int64                 `json:"total"`
	Limit         int                   `json:"limit"`
	Offset        int                   `json:"offset"`
}

type AdminService struct {
	api    AdminAPI
	ledger Ledger
}

func NewAdminService(api AdminAPI, ledger Ledger) *AdminService {
	return &AdminService{api: api, ledger: ledger}
}

func (s *AdminService) ListRegistrations(ctx context.Context, eventID string) ([]models.Registration, error) {
	return s.api.ListRegistrations(ctx, eventID)
}

// Ledger returns registrations confirmed through payment tracking
func (s *AdminService) Ledger(ctx context.Context, eventID string, limit, offset int) (*LedgerPage, error) {
	if s.ledger == nil {
		return nil, ErrLedgerDisabled
	}
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	registrations, err := s.ledger.ListByEvent(ctx, eventID, limit, offset)
	if err != nil {
		return nil, err
	}

	total, err := s.ledger.CountByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	return &LedgerPage{Registrations: registrations, Total: total, Limit: limit, Offset: offset}, nil
}

func (s *AdminService) CreateDiscounts(ctx context.Context, req models.DiscountCreateRequest) ([]models.Discount, error) {
	return s.api.CreateDiscounts(ctx, req)
}

func (s *AdminService) ListDiscounts(ctx context.Context, eventID string) ([]models.DiscountOrganization, error) {
	return s.api.ListDiscounts(ctx, eventID)
}

func (s *AdminService) InviteAdmin(ctx context.Context, req models.AdminInviteRequest) (*models.Admin, error) {
	return s.api.InviteAdmin(ctx, req)
}

func (s *AdminService) ListAdmins(ctx context.Context) ([]models.Admin, error) {
	return s.api.ListAdmins(ctx)
}

func (s *AdminService) DeleteAdmin(ctx context.Context, entryID string) error {
	return s.api.DeleteAdmin(ctx, entryID)
}
