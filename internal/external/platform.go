package external

import (
	"context"
	"fmt"

	"ticketdesk/internal/models"
)

func (c *Client) ListEvents(ctx context.Context, q EventQuery) (*models.ListEventsResponse, error) {
	var events []models.Event
	if err := c.Execute(ctx, ListEvents(q), &events); err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	return &models.ListEventsResponse{
		Events:   events,
		Total:    int64(len(events)),
		Page:     q.Page,
		PageSize: q.PageSize,
	}, nil
}

func (c *Client) GetEvent(ctx context.Context, eventID string) (*models.Event, error) {
	var event models.Event
	if err := c.Execute(ctx, GetEvent(eventID), &event); err != nil {
		return nil, fmt.Errorf("failed to get event %s: %w", eventID, err)
	}
	return &event, nil
}

func (c *Client) CreateEvent(ctx context.Context, event models.Event) (*models.Event, error) {
	var created models.Event
	if err := c.Execute(ctx, CreateEvent(event), &created); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}
	return &created, nil
}

func (c *Client) UpdateEvent(ctx context.Context, eventID string, event models.Event) (*models.Event, error) {
	var updated models.Event
	if err := c.Execute(ctx, UpdateEvent(eventID, event), &updated); err != nil {
		return nil, fmt.Errorf("failed to update event %s: %w", eventID, err)
	}
	return &updated, nil
}

func (c *Client) DeleteEvent(ctx context.Context, eventID string) error {
	if err := c.Execute(ctx, DeleteEvent(eventID), nil); err != nil {
		return fmt.Errorf("failed to delete event %s: %w", eventID, err)
	}
	return nil
}

func (c *Client) GetRegistrationCount(ctx context.Context, eventID string) (*models.RegistrationCountResponse, error) {
	var count models.RegistrationCountResponse
	if err := c.Execute(ctx, GetRegistrationCount(eventID), &count); err != nil {
		return nil, fmt.Errorf("failed to get registration count: %w", err)
	}
	return &count, nil
}

func (c *Client) CreateRegistration(ctx context.Context, eventID string, form models.RegistrationForm) (*models.Registration, error) {
	var registration models.Registration
	if err := c.Execute(ctx, CreateRegistration(eventID, form), &registration); err != nil {
		return nil, fmt.Errorf("failed to create registration: %w", err)
	}
	return &registration, nil
}

func (c *Client) ListRegistrations(ctx context.Context, eventID string) ([]models.Registration, error) {
	var registrations []models.Registration
	if err := c.Execute(ctx, ListRegistrations(eventID), &registrations); err != nil {
		return nil, fmt.Errorf("failed to list registrations: %w", err)
	}
	return registrations, nil
}

func (c *Client) CreatePreRegistration(ctx context.Context, eventID string, form models.RegistrationForm) (*models.PreRegistration, error) {
	var pre models.PreRegistration
	if err := c.Execute(ctx, CreatePreRegistration(eventID, form), &pre); err != nil {
		return nil, fmt.Errorf("failed to create pre-registration: %w", err)
	}
	return &pre, nil
}

func (c *Client) GetPreRegistration(ctx context.Context, eventID, email string) (*models.PreRegistration, error) {
	var pre models.PreRegistration
	if err := c.Execute(ctx, GetPreRegistration(eventID, email), &pre); err != nil {
		return nil, fmt.Errorf("failed to get pre-registration: %w", err)
	}
	return &pre, nil
}

func (c *Client) ValidateDiscount(ctx context.Context, eventID, code string) (*models.Discount, error) {
	var discount models.Discount
	if err := c.Execute(ctx, ValidateDiscount(eventID, code), &discount); err != nil {
		return nil, fmt.Errorf("failed to validate discount: %w", err)
	}
	return &discount, nil
}

func (c *Client) CreateDiscounts(ctx context.Context, req models.DiscountCreateRequest) ([]models.Discount, error) {
	var discounts []models.Discount
	if err := c.Execute(ctx, CreateDiscounts(req), &discounts); err != nil {
		return nil, fmt.Errorf("failed to create discounts: %w", err)
	}
	return discounts, nil
}

func (c *Client) ListDiscounts(ctx context.Context, eventID string) ([]models.DiscountOrganization, error) {
	var orgs []models.DiscountOrganization
	if err := c.Execute(ctx, ListDiscounts(eventID), &orgs); err != nil {
		return nil, fmt.Errorf("failed to list discounts: %w", err)
	}
	return orgs, nil
}

func (c *Client) QuoteTransactionFee(ctx context.Context, req models.FeeQuoteRequest) (*models.FeeQuoteResponse, error) {
	var quote models.FeeQuoteResponse
	if err := c.Execute(ctx, QuoteTransactionFee(req), &quote); err != nil {
		return nil, fmt.Errorf("failed to quote transaction fee: %w", err)
	}
	return &quote, nil
}

func (c *Client) InviteAdmin(ctx context.Context, req models.AdminInviteRequest) (*models.Admin, error) {
	var admin models.Admin
	if err := c.Execute(ctx, InviteAdmin(req), &admin); err != nil {
		return nil, fmt.Errorf("failed to invite admin: %w", err)
	}
	return &admin, nil
}

func (c *Client) ListAdmins(ctx context.Context) ([]models.Admin, error) {
	var admins []models.Admin
	if err := c.Execute(ctx, ListAdmins(), &admins); err != nil {
		return nil, fmt.Errorf("failed to list admins: %w", err)
	}
	return admins, nil
}

func (c *Client) DeleteAdmin(ctx context.Context, entryID string) error {
	if err := c.Execute(ctx, DeleteAdmin(entryID), nil); err != nil {
		return fmt.Errorf("failed to delete admin %s: %w", entryID, err)
	}
	return nil
}
