package consumers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/stan.go"

	"ticketdesk/internal/metrics"
	"ticketdesk/internal/models"
)

// RegistrationStore persists confirmed registrations
type RegistrationStore interface {
	Create(ctx context.Context, reg *models.Registration) (bool, error)
}

// errMalformed marks messages that can never be processed
var errMalformed = errors.New("malformed message")

type Handlers struct {
	store   RegistrationStore
	timeout time.Duration
}

func NewHandlers(store RegistrationStore) *Handlers {
	return &Handlers{
		store:   store,
		timeout: 10 * time.Second,
	}
}

// HandlePaymentTracking records successful payments in the ledger. Messages
// that fail for transient reasons are left unacked for redelivery.
func (h *Handlers) HandlePaymentTracking(m *stan.Msg) {
	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()

	err := h.ProcessPaymentTracking(ctx, m.Data)
	if err != nil && !errors.Is(err, errMalformed) {
		slog.Error("Failed to process payment tracking message", "sequence", m.Sequence, "error", err)
		return
	}
	if err != nil {
		slog.Error("Dropping payment tracking message", "sequence", m.Sequence, "error", err)
	}

	if err := m.Ack(); err != nil {
		slog.Error("Failed to ack payment tracking message", "sequence", m.Sequence, "error", err)
	}
}

func (h *Handlers) ProcessPaymentTracking(ctx context.Context, data []byte) error {
	var event models.PaymentTrackingEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return fmt.Errorf("%w: %v", errMalformed, err)
	}
	if event.EventID == "" || event.TransactionID == "" {
		return fmt.Errorf("%w: missing event or transaction id", errMalformed)
	}

	metrics.PaymentTrackingTotal.WithLabelValues(string(event.Status)).Inc()

	log := slog.With(
		"event_id", event.EventID,
		"transaction_id", event.TransactionID,
		"email", event.RegistrationData.Email,
		"status", event.Status,
	)

	if event.Status != models.TransactionSuccess {
		log.Warn("Payment was not successful, registration not recorded")
		return nil
	}

	form := event.RegistrationData
	reg := &models.Registration{
		RegistrationID:  uuid.New().String(),
		EventID:         event.EventID,
		Email:           form.Email,
		FirstName:       form.FirstName,
		LastName:        form.LastName,
		TicketType:      form.TicketType,
		SprintDay:       form.SprintDay.Bool(),
		DiscountCode:    form.DiscountCode,
		AmountPaid:      event.AmountPaid,
		TransactionID:   event.TransactionID,
		PaymentID:       event.PaymentID,
		ReferenceNumber: event.ReferenceNumber,
		Status:          string(event.Status),
	}

	created, err := h.store.Create(ctx, reg)
	if err != nil {
		return fmt.Errorf("failed to save registration: %w", err)
	}

	if !created {
		log.Info("Payment already recorded")
		return nil
	}

	log.Info("Registration recorded", "registration_id", reg.RegistrationID, "amount_paid", reg.AmountPaid)
	return nil
}

// HandleRegistrationSubmitted logs completed wizard submissions
func (h *Handlers) HandleRegistrationSubmitted(m *stan.Msg) {
	var event models.RegistrationSubmittedEvent
	if err := json.Unmarshal(m.Data, &event); err != nil {
		slog.Error("Failed to unmarshal registration submitted event", "error", err)
		m.Ack()
		return
	}

	slog.Info("Registration submitted",
		"session_id", event.SessionID, "event_id", event.EventID, "paid", event.Paid, "total", event.Total)
	m.Ack()
}

// HandleRegistrationClosed logs submissions rejected because the event was full
func (h *Handlers) HandleRegistrationClosed(m *stan.Msg) {
	var event models.RegistrationClosedEvent
	if err := json.Unmarshal(m.Data, &event); err != nil {
		slog.Error("Failed to unmarshal registration closed event", "error", err)
		m.Ack()
		return
	}

	slog.Warn("Registration closed for event",
		"event_id", event.EventID,
		"registration_count", event.RegistrationCount,
		"maximum_slots", event.MaximumSlots)
	m.Ack()
}
