package wizard

import (
	"fmt"
	"sort"
	"strings"
)

// Error is a wizard failure carrying the notice shown to the registrant
type Error struct {
	Code        string
	Title       string
	Description string
}

func (e *Error) Error() string {
	return e.Code + ": " + e.Title
}

var (
	ErrSubmitRequired = &Error{
		Code:        "submit_required",
		Title:       "Submit your registration",
		Description: "The summary step is completed by submitting the registration.",
	}
	ErrSubmissionInFlight = &Error{
		Code:        "submission_in_flight",
		Title:       "Your registration is being submitted",
		Description: "Please wait for the current submission to finish.",
	}
	ErrRegistrationClosed = &Error{
		Code:        "registration_closed",
		Title:       "Registration is closed",
		Description: "This event has reached its maximum number of registrations.",
	}
	ErrPaymentFailed = &Error{
		Code:        "payment_failed",
		Title:       "Payment request failed",
		Description: "We could not reach the payment gateway. Please try again.",
	}
	ErrSessionFinished = &Error{
		Code:        "session_finished",
		Title:       "Registration already finished",
		Description: "Start a new registration to sign up another attendee.",
	}
	ErrPreRegistrationPending = &Error{
		Code:        "preregistration_pending",
		Title:       "Your pre-registration is still being reviewed",
		Description: "Please wait while we review your pre-registration. We'll send you an email when it's approved.",
	}
	ErrPreRegistrationRejected = &Error{
		Code:        "preregistration_rejected",
		Title:       "Your pre-registration was not accepted",
		Description: "We're sorry but your registration wasn't accepted. Please feel free to join our future events.",
	}
	ErrPreRegistrationRequired = &Error{
		Code:        "preregistration_required",
		Title:       "Pre-registration required",
		Description: "This event only accepts registrants whose pre-registration was accepted.",
	}
	ErrTicketSoldOut = &Error{
		Code:        "ticket_sold_out",
		Title:       "Ticket sold out",
		Description: "The selected ticket type is no longer available.",
	}
	ErrDiscountInvalid = &Error{
		Code:        "discount_invalid",
		Title:       "Invalid discount code",
		Description: "The discount code does not exist or was already claimed.",
	}
	ErrSnapshotMismatch = &Error{
		Code:        "snapshot_mismatch",
		Title:       "Saved form belongs to another event",
		Description: "The saved registration was filled in for a different event and cannot be restored here.",
	}
)

// ValidationError lists the fields that blocked a transition.
// Keys are JSON field names.
type ValidationError struct {
	Step   Step
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return fmt.Sprintf("validation failed on %s: %s", e.Step, strings.Join(names, ", "))
}
