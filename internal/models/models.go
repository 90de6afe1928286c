package models

import (
	"fmt"
	"strings"
)

// FlexibleBool is a boolean that also accepts strings and numbers
type FlexibleBool bool

// UnmarshalJSON parses booleans given as bool, string or number
func (fb *FlexibleBool) UnmarshalJSON(data []byte) error {
	str := strings.Trim(string(data), `"`)

	switch strings.ToLower(str) {
	case "true", "1", "yes", "on":
		*fb = true
	case "false", "0", "no", "off", "", "null":
		*fb = false
	default:
		return fmt.Errorf("invalid boolean value: %s", str)
	}
	return nil
}

// Bool returns the plain bool value
func (fb FlexibleBool) Bool() bool {
	return bool(fb)
}

// PaymentMethod is the kind of gateway payment a registrant chooses
type PaymentMethod string

const (
	PaymentEWallet     PaymentMethod = "E_WALLET"
	PaymentDirectDebit PaymentMethod = "DIRECT_DEBIT"
)

// RegistrationForm holds the registration wizard's form values.
// DiscountPercentage, TransactionFee and Total are owned by the server.
type RegistrationForm struct {
	Email                string        `json:"email" validate:"required,email"`
	FirstName            string        `json:"firstName" validate:"required,max=100"`
	LastName             string        `json:"lastName" validate:"required,max=100"`
	Nickname             string        `json:"nickname,omitempty" validate:"omitempty,max=100"`
	Pronouns             string        `json:"pronouns,omitempty" validate:"omitempty,max=50"`
	ContactNumber        string        `json:"contactNumber" validate:"required,min=7,max=20"`
	Organization         string        `json:"organization" validate:"required,max=200"`
	JobTitle             string        `json:"jobTitle" validate:"required,max=200"`
	TicketType           string        `json:"ticketType,omitempty" validate:"required"`
	SprintDay            FlexibleBool  `json:"sprintDay"`
	AvailTShirt          FlexibleBool  `json:"availTShirt"`
	ShirtType            string        `json:"shirtType,omitempty" validate:"required_if=AvailTShirt true,omitempty,oneof=unisex female"`
	ShirtSize            string        `json:"shirtSize,omitempty" validate:"required_if=AvailTShirt true,omitempty,oneof=XS S M L XL XXL XXXL"`
	CommunityInvolvement FlexibleBool  `json:"communityInvolvement"`
	FutureVolunteer      FlexibleBool  `json:"futureVolunteer"`
	DietaryRestrictions  string        `json:"dietaryRestrictions,omitempty" validate:"omitempty,max=500"`
	AccessibilityNeeds   string        `json:"accessibilityNeeds,omitempty" validate:"omitempty,max=500"`
	ValidIDObjectKey     string        `json:"validIdObjectKey" validate:"required"`
	DiscountCode         string        `json:"discountCode,omitempty" validate:"omitempty,max=64"`
	DiscountPercentage   float64       `json:"discountPercentage,omitempty"`
	PaymentMethod        PaymentMethod `json:"paymentMethod,omitempty" validate:"required,oneof=E_WALLET DIRECT_DEBIT"`
	PaymentChannel       string        `json:"paymentChannel,omitempty" validate:"required"`
	TransactionFee       float64       `json:"transactionFee,omitempty" validate:"gt=0"`
	Total                float64       `json:"total"`
}

// ApplyPreRegistration copies the reviewed pre-registration details into the form
func (f *RegistrationForm) ApplyPreRegistration(p *PreRegistration) {
	f.Email = p.Email
	f.FirstName = p.FirstName
	f.LastName = p.LastName
	if p.ContactNumber != "" {
		f.ContactNumber = p.ContactNumber
	}
	if p.Organization != "" {
		f.Organization = p.Organization
	}
	if p.JobTitle != "" {
		f.JobTitle = p.JobTitle
	}
}

// RegistrationCountResponse is the capacity status of an event
type RegistrationCountResponse struct {
	RegistrationCount int `json:"registrationCount"`
	MaximumSlots      int `json:"maximumSlots"`
}

// DiscountValidationRequest asks the platform whether a code can be used
type DiscountValidationRequest struct {
	EventID      string `json:"eventId"`
	DiscountCode string `json:"discountCode"`
}

// DiscountCreateRequest issues a batch of discount codes for an organization
type DiscountCreateRequest struct {
	EventID            string  `json:"eventId" binding:"required"`
	DiscountPercentage float64 `json:"discountPercentage" binding:"required,gt=0,lte=100"`
	Quantity           int     `json:"quantity" binding:"required,gt=0"`
	OrganizationName   string  `json:"organizationName" binding:"required"`
}

// DiscountOrganization groups issued discounts per organization
type DiscountOrganization struct {
	OrganizationID string     `json:"organizationId"`
	Discounts      []Discount `json:"discounts"`
}

// FeeQuoteRequest asks for the gateway fee of a payment channel
type FeeQuoteRequest struct {
	EventID        string        `json:"eventId"`
	Amount         float64       `json:"amount"`
	PaymentMethod  PaymentMethod `json:"paymentMethod"`
	PaymentChannel string        `json:"paymentChannel"`
}

// FeeQuoteResponse is the transaction fee for the quoted channel
type FeeQuoteResponse struct {
	TransactionFee float64 `json:"transactionFee"`
}

// PaymentRequest dispatches a gateway payment for a registration
type PaymentRequest struct {
	EventID          string           `json:"eventId"`
	Amount           float64          `json:"amount"`
	PaymentChannel   string           `json:"paymentChannel"`
	SuccessURL       string           `json:"successUrl"`
	FailureURL       string           `json:"failureUrl"`
	RegistrationData RegistrationForm `json:"registrationData"`
}

// PaymentResponse is the gateway's answer to a payment request
type PaymentResponse struct {
	PaymentRequestID string `json:"paymentRequestId"`
	ReferenceID      string `json:"referenceId,omitempty"`
	CheckoutURL      string `json:"checkoutUrl"`
	Status           string `json:"status"`
}

// CreateSessionRequest starts a registration wizard session
type CreateSessionRequest struct {
	EventID string `json:"eventId" binding:"required"`
}

// DiscountRequest applies a discount code to a session
type DiscountRequest struct {
	DiscountCode string `json:"discountCode" binding:"required,max=64"`
}

// PreRegistrationCheckRequest looks up a registrant's pre-registration
type PreRegistrationCheckRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// AdminInviteRequest invites a new administrator
type AdminInviteRequest struct {
	Email     string `json:"email" binding:"required,email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Position  string `json:"position"`
}

// ListEventsResponse is a page of events
type ListEventsResponse struct {
	Events   []Event `json:"events"`
	Total    int64   `json:"total"`
	Page     int     `json:"page"`
	PageSize int     `json:"pageSize"`
}

// TransactionStatus is the gateway outcome of a payment
type TransactionStatus string

const (
	TransactionSuccess TransactionStatus = "SUCCESS"
	TransactionFailed  TransactionStatus = "FAILED"
	TransactionPending TransactionStatus = "PENDING"
)

// PaymentNotificationPayload is the gateway's payment tracking webhook body
type PaymentNotificationPayload struct {
	EventID          string            `json:"eventId" binding:"required"`
	TransactionID    string            `json:"transactionId" binding:"required"`
	PaymentID        string            `json:"paymentId"`
	ReferenceNumber  string            `json:"referenceNumber"`
	AmountPaid       float64           `json:"amountPaid"`
	Status           TransactionStatus `json:"status" binding:"required"`
	Timestamp        string            `json:"timestamp"`
	Token            string            `json:"token" binding:"required"`
	RegistrationData RegistrationForm  `json:"registrationData"`
}

// ErrorResponse is the error body returned to clients
type ErrorResponse struct {
	Title       string            `json:"title"`
	Description string            `json:"description,omitempty"`
	Details     map[string]string `json:"details,omitempty"`
}
