package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"ticketdesk/internal/database"
	"ticketdesk/internal/models"
)

// RegistrationRepository is the ledger of registrations confirmed by the payment gateway
type RegistrationRepository struct {
	db *database.DB
}

func NewRegistrationRepository(db *database.DB) *RegistrationRepository {
	return &RegistrationRepository{db: db}
}

// Create records a registration. A second call with the same transaction id
// leaves the first row untouched and reports created=false.
func (r *RegistrationRepository) Create(ctx context.Context, reg *models.Registration) (bool, error) {
	query := `
		INSERT INTO registrations (
			registration_id, event_id, email, first_name, last_name, ticket_type, sprint_day,
			discount_code, amount_paid, transaction_id, payment_id, reference_number, status
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (transaction_id) DO NOTHING
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		reg.RegistrationID,
		reg.EventID,
		reg.Email,
		reg.FirstName,
		reg.LastName,
		reg.TicketType,
		reg.SprintDay,
		reg.DiscountCode,
		reg.AmountPaid,
		reg.TransactionID,
		reg.PaymentID,
		reg.ReferenceNumber,
		reg.Status,
	).Scan(&reg.ID, &reg.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to insert registration: %w", err)
	}

	return true, nil
}

func (r *RegistrationRepository) ListByEvent(ctx context.Context, eventID string, limit, offset int) ([]models.Registration, error) {
	query := `
		SELECT id, registration_id, event_id, email, first_name, last_name, ticket_type, sprint_day,
		       discount_code, amount_paid, transaction_id, payment_id, reference_number, status, created_at
		FROM registrations
		WHERE event_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.db.QueryContext(ctx, query, eventID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list registrations: %w", err)
	}
	defer rows.Close()

	registrations := []models.Registration{}
	for rows.Next() {
		var reg models.Registration
		if err := rows.Scan(
			&reg.ID,
			&reg.RegistrationID,
			&reg.EventID,
			&reg.Email,
			&reg.FirstName,
			&reg.LastName,
			&reg.TicketType,
			&reg.SprintDay,
			&reg.DiscountCode,
			&reg.AmountPaid,
			&reg.TransactionID,
			&reg.PaymentID,
			&reg.ReferenceNumber,
			&reg.Status,
			&reg.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan registration: %w", err)
		}
		registrations = append(registrations, reg)
	}

	return registrations, rows.Err()
}

func (r *RegistrationRepository) CountByEvent(ctx context.Context, eventID string) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM registrations WHERE event_id = $1 AND status = 'SUCCESS'`,
		eventID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count registrations: %w", err)
	}
	return count, nil
}
