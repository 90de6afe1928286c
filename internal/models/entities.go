package models

import (
	"time"
)

// EventStatus is the lifecycle status of an event
type EventStatus string

const (
	EventStatusDraft           EventStatus = "draft"
	EventStatusPreRegistration EventStatus = "preregistration"
	EventStatusOpen            EventStatus = "open"
	EventStatusCancelled       EventStatus = "cancelled"
	EventStatusClosed          EventStatus = "closed"
	EventStatusCompleted       EventStatus = "completed"
)

// Event is the platform event as returned by the remote API
type Event struct {
	EventID           string       `json:"eventId"`
	Name              string       `json:"name"`
	Description       string       `json:"description,omitempty"`
	Email             string       `json:"email,omitempty"`
	StartDate         string       `json:"startDate"`
	EndDate           string       `json:"endDate"`
	Venue             string       `json:"venue"`
	BannerLink        string       `json:"bannerLink,omitempty"`
	LogoLink          string       `json:"logoLink,omitempty"`
	AutoConfirm       bool         `json:"autoConfirm,omitempty"`
	PaidEvent         bool         `json:"paidEvent"`
	Price             float64      `json:"price"`
	PlatformFee       float64      `json:"platformFee,omitempty"`
	SprintDayPrice    float64      `json:"sprintDayPrice,omitempty"`
	MaximumSlots      int          `json:"maximumSlots,omitempty"`
	RegistrationCount int          `json:"registrationCount,omitempty"`
	IsApprovalFlow    bool         `json:"isApprovalFlow,omitempty"`
	Status            EventStatus  `json:"status,omitempty"`
	TicketTypes       []TicketType `json:"ticketTypes,omitempty"`
	CreateDate        *time.Time   `json:"createDate,omitempty"`
	UpdateDate        *time.Time   `json:"updateDate,omitempty"`
	CreatedBy         string       `json:"createdBy,omitempty"`
	UpdatedBy         string       `json:"updatedBy,omitempty"`
}

// TicketType returns the ticket type with the given id
func (e *Event) TicketType(id string) (TicketType, bool) {
	for _, tt := range e.TicketTypes {
		if tt.ID == id {
			return tt, true
		}
	}
	return TicketType{}, false
}

// IsFull reports whether the capacity is exhausted for the given count
func (e *Event) IsFull(registrationCount int) bool {
	return e.MaximumSlots > 0 && registrationCount >= e.MaximumSlots
}

// TicketType is a priced ticket tier of an event
type TicketType struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Tier            string  `json:"tier,omitempty"`
	Price           float64 `json:"price"`
	OriginalPrice   float64 `json:"originalPrice,omitempty"`
	MaximumQuantity int     `json:"maximumQuantity,omitempty"`
	CurrentSales    int     `json:"currentSales,omitempty"`
}

// SoldOut reports whether no more tickets of this type can be sold
func (t TicketType) SoldOut() bool {
	return t.MaximumQuantity > 0 && t.MaximumQuantity <= t.CurrentSales
}

// Admin is an invited administrator
type Admin struct {
	EntryID       string     `json:"entryId"`
	Email         string     `json:"email"`
	FirstName     string     `json:"firstName,omitempty"`
	LastName      string     `json:"lastName,omitempty"`
	Position      string     `json:"position,omitempty"`
	Address       string     `json:"address,omitempty"`
	ContactNumber string     `json:"contactNumber,omitempty"`
	IsConfirmed   bool       `json:"isConfirmed"`
	CreateDate    *time.Time `json:"createDate,omitempty"`
	UpdateDate    *time.Time `json:"updateDate,omitempty"`
	CreatedBy     string     `json:"createdBy,omitempty"`
}

// Discount is a single-use discount code issued for an event
type Discount struct {
	EntryID            string     `json:"entryId"`
	EventID            string     `json:"eventId"`
	Claimed            bool       `json:"claimed"`
	RegistrationID     string     `json:"registrationId,omitempty"`
	DiscountPercentage float64    `json:"discountPercentage"`
	OrganizationID     string     `json:"organizationId"`
	CreateDate         *time.Time `json:"createDate,omitempty"`
	UpdateDate         *time.Time `json:"updateDate,omitempty"`
}

// Registration is a registration record, remote or in the local ledger
type Registration struct {
	ID              int64     `json:"-" db:"id"`
	RegistrationID  string    `json:"registrationId" db:"registration_id"`
	EventID         string    `json:"eventId" db:"event_id"`
	Email           string    `json:"email" db:"email"`
	FirstName       string    `json:"firstName" db:"first_name"`
	LastName        string    `json:"lastName" db:"last_name"`
	TicketType      string    `json:"ticketType,omitempty" db:"ticket_type"`
	SprintDay       bool      `json:"sprintDay,omitempty" db:"sprint_day"`
	DiscountCode    string    `json:"discountCode,omitempty" db:"discount_code"`
	AmountPaid      float64   `json:"amountPaid" db:"amount_paid"`
	TransactionID   string    `json:"transactionId,omitempty" db:"transaction_id"`
	PaymentID       string    `json:"paymentId,omitempty" db:"payment_id"`
	ReferenceNumber string    `json:"referenceNumber,omitempty" db:"reference_number"`
	Status          string    `json:"status" db:"status"`
	CreatedAt       time.Time `json:"createDate" db:"created_at"`
}

// AcceptanceStatus is the review state of a pre-registration
type AcceptanceStatus string

const (
	AcceptancePending  AcceptanceStatus = "PENDING"
	AcceptanceAccepted AcceptanceStatus = "ACCEPTED"
	AcceptanceRejected AcceptanceStatus = "REJECTED"
)

// PreRegistration is a registrant's request to join an approval-flow event
type PreRegistration struct {
	PreRegistrationID string           `json:"preRegistrationId"`
	EventID           string           `json:"eventId"`
	Email             string           `json:"email"`
	FirstName         string           `json:"firstName"`
	LastName          string           `json:"lastName"`
	ContactNumber     string           `json:"contactNumber,omitempty"`
	Organization      string           `json:"organization,omitempty"`
	JobTitle          string           `json:"jobTitle,omitempty"`
	AcceptanceStatus  AcceptanceStatus `json:"acceptanceStatus"`
}
