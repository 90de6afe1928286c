package external

import (
	"net/http"
	"net/url"
	"strconv"

	"ticketdesk/internal/models"
)

// EventQuery filters a platform event listing
type EventQuery struct {
	Status   models.EventStatus
	Page     int
	PageSize int
}

func (q EventQuery) values() url.Values {
	v := url.Values{}
	if q.Status != "" {
		v.Set("status", string(q.Status))
	}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.PageSize > 0 {
		v.Set("pageSize", strconv.Itoa(q.PageSize))
	}
	return v
}

func ListEvents(q EventQuery) Request {
	return Request{Method: http.MethodGet, Path: "/events", Query: q.values()}
}

func GetEvent(eventID string) Request {
	return Request{
		Method:   http.MethodGet,
		Path:     "/events/" + url.PathEscape(eventID),
		Endpoint: "/events/:id",
	}
}

func CreateEvent(event models.Event) Request {
	return Request{Method: http.MethodPost, Path: "/events", Body: event}
}

func UpdateEvent(eventID string, event models.Event) Request {
	return Request{
		Method:   http.MethodPut,
		Path:     "/events/" + url.PathEscape(eventID),
		Body:     event,
		Endpoint: "/events/:id",
	}
}

func DeleteEvent(eventID string) Request {
	return Request{
		Method:   http.MethodDelete,
		Path:     "/events/" + url.PathEscape(eventID),
		Endpoint: "/events/:id",
	}
}

func GetRegistrationCount(eventID string) Request {
	return Request{
		Method:   http.MethodGet,
		Path:     "/events/" + url.PathEscape(eventID) + "/registration-count",
		Endpoint: "/events/:id/registration-count",
	}
}

func CreateRegistration(eventID string, form models.RegistrationForm) Request {
	return Request{
		Method: http.MethodPost,
		Path:   "/registrations",
		Body:   registrationBody{EventID: eventID, RegistrationForm: form},
	}
}

func ListRegistrations(eventID string) Request {
	return Request{
		Method: http.MethodGet,
		Path:   "/registrations",
		Query:  url.Values{"eventId": {eventID}},
	}
}

func CreatePreRegistration(eventID string, form models.RegistrationForm) Request {
	return Request{
		Method: http.MethodPost,
		Path:   "/preregistrations",
		Body:   registrationBody{EventID: eventID, RegistrationForm: form},
	}
}

func GetPreRegistration(eventID, email string) Request {
	return Request{
		Method:   http.MethodGet,
		Path:     "/preregistrations/" + url.PathEscape(eventID) + "/" + url.PathEscape(email),
		Endpoint: "/preregistrations/:eventId/:email",
	}
}

func ValidateDiscount(eventID, code string) Request {
	return Request{
		Method: http.MethodPost,
		Path:   "/discounts/validate",
		Body:   models.DiscountValidationRequest{EventID: eventID, DiscountCode: code},
	}
}

func CreateDiscounts(req models.DiscountCreateRequest) Request {
	return Request{Method: http.MethodPost, Path: "/discounts", Body: req}
}

func ListDiscounts(eventID string) Request {
	return Request{
		Method:   http.MethodGet,
		Path:     "/discounts/" + url.PathEscape(eventID),
		Endpoint: "/discounts/:eventId",
	}
}

func QuoteTransactionFee(req models.FeeQuoteRequest) Request {
	return Request{Method: http.MethodPost, Path: "/payments/quote", Body: req}
}

func RequestEWallet(req models.PaymentRequest) Request {
	return Request{Method: http.MethodPost, Path: "/payments/e-wallet", Body: req}
}

func RequestDirectDebit(req models.PaymentRequest) Request {
	return Request{Method: http.MethodPost, Path: "/payments/direct-debit", Body: req}
}

func InviteAdmin(req models.AdminInviteRequest) Request {
	return Request{Method: http.MethodPost, Path: "/admins", Body: req}
}

func ListAdmins() Request {
	return Request{Method: http.MethodGet, Path: "/admins"}
}

func DeleteAdmin(entryID string) Request {
	return Request{
		Method:   http.MethodDelete,
		Path:     "/admins/" + url.PathEscape(entryID),
		Endpoint: "/admins/:id",
	}
}

// registrationBody is the registration form with the event it belongs to
type registrationBody struct {
	EventID string `json:"eventId"`
	models.RegistrationForm
}
