package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"ticketdesk/internal/external"
	"ticketdesk/internal/models"
	"ticketdesk/internal/wizard"
)

// PaymentService accepts signed payment tracking notifications from the gateway
type PaymentService struct {
	publisher wizard.Publisher
	secret    string
	now       func() time.Time
}

func NewPaymentService(publisher wizard.Publisher, secret string) *PaymentService {
	return &PaymentService{publisher: publisher, secret: secret, now: time.Now}
}

// HandleNotification verifies the payload and queues it for the ledger consumer
func (s *PaymentService) HandleNotification(ctx context.Context, payload models.PaymentNotificationPayload) error {
	if !external.VerifyNotification(payload, s.secret) {
		return ErrInvalidSignature
	}

	event := models.PaymentTrackingEvent{
		EventID:          payload.EventID,
		TransactionID:    payload.TransactionID,
		PaymentID:        payload.PaymentID,
		ReferenceNumber:  payload.ReferenceNumber,
		AmountPaid:       payload.AmountPaid,
		Status:           payload.Status,
		RegistrationData: payload.RegistrationData,
		Timestamp:        s.now(),
	}

	if s.publisher == nil {
		return fmt.Errorf("payment tracking publisher is not configured")
	}
	if err := s.publisher.Publish(models.SubjectPaymentTracking, event); err != nil {
		return fmt.Errorf("failed to queue payment tracking: %w", err)
	}

	slog.InfoContext(ctx, "Payment notification queued",
		"event_id", payload.EventID,
		"transaction_id", payload.TransactionID,
		"status", payload.Status)
	return nil
}
