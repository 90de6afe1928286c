package database

import (
	"context"
	"fmt"
	"log/slog"
)

// RunMigrations creates the registrations ledger
func (db *DB) RunMigrations(ctx context.Context) error {
	slog.Info("Running database migrations...")

	migrations := []string{
		createRegistrationsTable,
		createRegistrationsEventIndex,
	}

	for i, migration := range migrations {
		if _, err := db.ExecContext(ctx, migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	slog.Info("All migrations completed successfully", "count", len(migrations))
	return nil
}

const createRegistrationsTable = `
CREATE TABLE IF NOT EXISTS registrations (
    id BIGSERIAL PRIMARY KEY,
    registration_id VARCHAR(64) NOT NULL UNIQUE,
    event_id VARCHAR(64) NOT NULL,
    email VARCHAR(255) NOT NULL,
    first_name VARCHAR(100) NOT NULL DEFAULT '',
    last_name VARCHAR(100) NOT NULL DEFAULT '',
    ticket_type VARCHAR(64) NOT NULL DEFAULT '',
    sprint_day BOOLEAN NOT NULL DEFAULT FALSE,
    discount_code VARCHAR(64) NOT NULL DEFAULT '',
    amount_paid DECIMAL(12,2) NOT NULL DEFAULT 0,
    transaction_id VARCHAR(128) NOT NULL UNIQUE,
    payment_id VARCHAR(128) NOT NULL DEFAULT '',
    reference_number VARCHAR(128) NOT NULL DEFAULT '',
    status VARCHAR(20) NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT NOW(),

    CHECK (status IN ('SUCCESS', 'FAILED', 'PENDING'))
);`

const createRegistrationsEventIndex = `
CREATE INDEX IF NOT EXISTS idx_registrations_event_id ON registrations(event_id, created_at);`
