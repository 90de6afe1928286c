package handlers

import (
	"net/http"

	"ticketdesk/internal/logger"
	"ticketdesk/internal/models"
	"ticketdesk/internal/wizard"

	"github.com/gin-gonic/gin"
)

type paymentReturnResponse struct {
	Status    string        `json:"status"`
	EventID   string        `json:"eventId"`
	SessionID string        `json:"sessionId"`
	State     *wizard.State `json:"state,omitempty"`
}

// PaymentSucceeded - GET /api/payments/success
// Gateway return URL after a completed checkout
func (h *Handlers) PaymentSucceeded(c *gin.Context) {
	h.paymentReturn(c, "success")
}

// PaymentFailed - GET /api/payments/fail
// Gateway return URL after a failed or abandoned checkout
func (h *Handlers) PaymentFailed(c *gin.Context) {
	h.paymentReturn(c, "fail")
}

func (h *Handlers) paymentReturn(c *gin.Context, status string) {
	eventID := c.Query("eventId")
	sessionID := c.Query("sessionId")
	if eventID == "" || sessionID == "" {
		badRequest(c, "eventId and sessionId are required")
		return
	}

	log := logger.WithContext(logger.ContextWithSessionID(c.Request.Context(), sessionID))
	if status == "success" {
		log.Info("Payment completed", "event_id", eventID)
	} else {
		log.Warn("Payment failed", "event_id", eventID)
	}

	resp := paymentReturnResponse{Status: status, EventID: eventID, SessionID: sessionID}
	// The session may already have expired; the ledger is updated by the tracking webhook
	if controller, err := h.services.Sessions.Get(sessionID); err == nil {
		state := controller.State()
		resp.State = &state
	}

	c.JSON(http.StatusOK, resp)
}

// OnPaymentNotification - POST /api/payments/notifications
// Signed payment tracking webhook from the gateway
func (h *Handlers) OnPaymentNotification(c *gin.Context) {
	var notification models.PaymentNotificationPayload
	if err := c.ShouldBindJSON(&notification); err != nil {
		badRequest(c, err.Error())
		return
	}

	if err := h.services.Payments.HandleNotification(c.Request.Context(), notification); err != nil {
		h.handleServiceError(c, err, "Failed to handle notification")
		return
	}

	c.Status(http.StatusOK)
}
