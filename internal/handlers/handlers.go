package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	apperrors "ticketdesk/internal/errors"
	"ticketdesk/internal/external"
	"ticketdesk/internal/logger"
	"ticketdesk/internal/models"
	"ticketdesk/internal/service"
	"ticketdesk/internal/snapshot"
	"ticketdesk/internal/wizard"

	"github.com/gin-gonic/gin"
)

// HealthCheck reports the health of one backing dependency
type HealthCheck func(ctx context.Context) error

type Handlers struct {
	services *service.Services
	checks   map[string]HealthCheck
}

func NewHandlers(services *service.Services, checks map[string]HealthCheck) *Handlers {
	if checks == nil {
		checks = map[string]HealthCheck{}
	}
	return &Handlers{
		services: services,
		checks:   checks,
	}
}

// errorBody is the toast shown by the client, plus the session state when
// the failure happened inside a wizard session
type errorBody struct {
	models.ErrorResponse
	State *wizard.State `json:"state,omitempty"`
}

func (h *Handlers) handleServiceError(c *gin.Context, err error, title string) {
	h.respondError(c, err, title, nil)
}

func (h *Handlers) respondError(c *gin.Context, err error, title string, state *wizard.State) {
	status, body := classify(err, title)
	body.State = state

	log := logger.WithContext(c.Request.Context())
	if status >= http.StatusInternalServerError {
		log.Error(title, "error", err, "status", status)
	} else {
		log.Info(title, "error", err, "status", status)
	}

	c.AbortWithStatusJSON(status, body)
}

func classify(err error, title string) (int, errorBody) {
	var (
		validationErr *wizard.ValidationError
		wizardErr     *wizard.Error
		apiErr        *external.APIError
	)

	switch {
	case errors.As(err, &validationErr):
		return http.StatusUnprocessableEntity, errorBody{ErrorResponse: models.ErrorResponse{
			Title:       "Please check your details",
			Description: "Some required fields are missing or invalid.",
			Details:     validationErr.Fields,
		}}

	case errors.As(err, &wizardErr):
		return wizardStatus(wizardErr), errorBody{ErrorResponse: models.ErrorResponse{
			Title:       wizardErr.Title,
			Description: wizardErr.Description,
		}}

	case errors.Is(err, service.ErrSessionNotFound):
		return http.StatusNotFound, message("Session not found", "Start a new registration.")
	case errors.Is(err, service.ErrEventNotOpen):
		return http.StatusConflict, message("Registration is not open", "This event is not accepting registrations.")
	case errors.Is(err, service.ErrInvalidSignature):
		return http.StatusUnauthorized, message("Invalid signature", "The notification signature could not be verified.")
	case errors.Is(err, service.ErrLedgerDisabled):
		return http.StatusServiceUnavailable, message("Ledger unavailable", "The registration ledger is not configured.")
	case errors.Is(err, snapshot.ErrNotFound):
		return http.StatusNotFound, message("Nothing to restore", "No saved registration form was found.")

	case errors.As(err, &apiErr):
		if apiErr.StatusCode >= 400 && apiErr.StatusCode < 500 {
			return apiErr.StatusCode, errorBody{ErrorResponse: models.ErrorResponse{
				Title:       title,
				Description: apiErr.Message,
				Details:     apiErr.Details,
			}}
		}
		return http.StatusBadGateway, message(title, "The registration service returned an error. Please try again.")

	case errors.Is(err, apperrors.ErrUnavailable):
		return http.StatusBadGateway, message(title, "The registration service is unavailable. Please try again.")
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound, message(title, "The requested resource was not found.")
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, message(title, "The request timed out. Please try again.")
	}

	return http.StatusInternalServerError, message(title, "Something went wrong. Please try again.")
}

func wizardStatus(err *wizard.Error) int {
	switch err {
	case wizard.ErrPaymentFailed:
		return http.StatusBadGateway
	case wizard.ErrSubmitRequired, wizard.ErrDiscountInvalid:
		return http.StatusBadRequest
	case wizard.ErrPreRegistrationPending, wizard.ErrPreRegistrationRejected, wizard.ErrPreRegistrationRequired:
		return http.StatusForbidden
	default:
		return http.StatusConflict
	}
}

func message(title, description string) errorBody {
	return errorBody{ErrorResponse: models.ErrorResponse{Title: title, Description: description}}
}

func badRequest(c *gin.Context, description string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{
		Title:       "Invalid request",
		Description: description,
	})
}

// queryInt parses an optional integer query parameter
func queryInt(c *gin.Context, name string, def int) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return def, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}
