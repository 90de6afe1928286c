package models

import "time"

// NATS subjects
const (
	SubjectRegistrationSubmitted = "registration.submitted"
	SubjectRegistrationClosed    = "registration.closed"
	SubjectPaymentRequested      = "payment.requested"
	SubjectPaymentTracking       = "payment.tracking"
)

// RegistrationSubmittedEvent is published when a session reaches Success
type RegistrationSubmittedEvent struct {
	SessionID string    `json:"session_id"`
	EventID   string    `json:"event_id"`
	Email     string    `json:"email"`
	Total     float64   `json:"total"`
	Paid      bool      `json:"paid"`
	Timestamp time.Time `json:"timestamp"`
}

// RegistrationClosedEvent is published when a submit hits a full event
type RegistrationClosedEvent struct {
	SessionID         string    `json:"session_id"`
	EventID           string    `json:"event_id"`
	RegistrationCount int       `json:"registration_count"`
	MaximumSlots      int       `json:"maximum_slots"`
	Timestamp         time.Time `json:"timestamp"`
}

// PaymentRequestedEvent is published after a gateway payment request
type PaymentRequestedEvent struct {
	SessionID        string        `json:"session_id"`
	EventID          string        `json:"event_id"`
	PaymentMethod    PaymentMethod `json:"payment_method"`
	PaymentChannel   string        `json:"payment_channel"`
	Amount           float64       `json:"amount"`
	PaymentRequestID string        `json:"payment_request_id"`
	Timestamp        time.Time     `json:"timestamp"`
}

// PaymentTrackingEvent carries a verified gateway notification to the consumers
type PaymentTrackingEvent struct {
	EventID          string            `json:"event_id"`
	TransactionID    string            `json:"transaction_id"`
	PaymentID        string            `json:"payment_id"`
	ReferenceNumber  string            `json:"reference_number"`
	AmountPaid       float64           `json:"amount_paid"`
	Status           TransactionStatus `json:"status"`
	RegistrationData RegistrationForm  `json:"registration_data"`
	Timestamp        time.Time         `json:"timestamp"`
}
