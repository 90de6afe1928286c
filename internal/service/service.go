package service

import (
	"context"
	"errors"
	"time"

	"ticketdesk/internal/models"
	"ticketdesk/internal/repository"
	"ticketdesk/internal/search"
	"ticketdesk/internal/snapshot"
	"ticketdesk/internal/wizard"
)

var (
	ErrSessionNotFound  = errors.New("registration session not found")
	ErrEventNotOpen     = errors.New("event is not open for registration")
	ErrInvalidSignature = errors.New("invalid payment notification signature")
	ErrLedgerDisabled   = errors.New("registration ledger is not configured")
)

// Platform is the platform API surface used by the services
type Platform interface {
	wizard.PlatformAPI
	EventAPI
	AdminAPI
}

// EventIndex is the discovery index of published events
type EventIndex interface {
	Search(ctx context.Context, q search.Query) ([]models.Event, error)
	Count(ctx context.Context, q search.Query) (int64, error)
	GetByID(ctx context.Context, eventID string) (*models.Event, error)
	IndexEvent(ctx context.Context, event *models.Event) error
	DeleteEvent(ctx context.Context, eventID string) error
}

// Ledger lists registrations recorded by the payment tracking consumer
type Ledger interface {
	ListByEvent(ctx context.Context, eventID string, limit, offset int) ([]models.Registration, error)
	CountByEvent(ctx context.Context, eventID string) (int64, error)
}

type Dependencies struct {
	Platform  Platform
	Index     EventIndex
	Store     snapshot.Store
	Publisher wizard.Publisher
	Repos     *repository.Repositories
	Links     wizard.Links
	Config    Config
}

type Config struct {
	SessionTTL    time.Duration
	WebhookSecret string
}

type Services struct {
	Sessions *SessionService
	Events   *EventService
	Admin    *AdminService
	Payments *PaymentService
}

func NewServices(deps Dependencies) *Services {
	var ledger Ledger
	if deps.Repos != nil {
		ledger = deps.Repos.Registrations
	}

	return &Services{
		Sessions: NewSessionService(deps.Platform, deps.Store, deps.Publisher, deps.Links, deps.Config.SessionTTL),
		Events:   NewEventService(deps.Platform, deps.Index),
		Admin:    NewAdminService(deps.Platform, ledger),
		Payments: NewPaymentService(deps.Publisher, deps.Config.WebhookSecret),
	}
}
