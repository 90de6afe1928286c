package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"ticketdesk/internal/models"
	"ticketdesk/internal/wizard"

	"github.com/gin-gonic/gin"
)

// CreateSession - POST /api/sessions
func (h *Handlers) CreateSession(c *gin.Context) {
	var req models.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	controller, err := h.services.Sessions.Create(c.Request.Context(), req.EventID)
	if err != nil {
		h.handleServiceError(c, err, "Failed to start registration")
		return
	}

	c.JSON(http.StatusCreated, controller.State())
}

// GetSession - GET /api/sessions/:id
func (h *Handlers) GetSession(c *gin.Context) {
	controller, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, controller.State())
}

// UpdateForm - PATCH /api/sessions/:id/form
// Merges a partial form into the session
func (h *Handlers) UpdateForm(c *gin.Context) {
	controller, ok := h.session(c)
	if !ok {
		return
	}

	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		badRequest(c, "failed to read request body")
		return
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' || !json.Valid(raw) {
		badRequest(c, "form must be a JSON object")
		return
	}

	h.transition(c, controller, "Failed to update form", func(ctx context.Context) (wizard.State, error) {
		return controller.Merge(ctx, raw)
	})
}

// NextStep - POST /api/sessions/:id/next
func (h *Handlers) NextStep(c *gin.Context) {
	controller, ok := h.session(c)
	if !ok {
		return
	}
	h.transition(c, controller, "Cannot continue", controller.Next)
}

// PrevStep - POST /api/sessions/:id/prev
func (h *Handlers) PrevStep(c *gin.Context) {
	controller, ok := h.session(c)
	if !ok {
		return
	}
	h.transition(c, controller, "Cannot go back", controller.Prev)
}

// ApplyDiscount - POST /api/sessions/:id/discount
func (h *Handlers) ApplyDiscount(c *gin.Context) {
	controller, ok := h.session(c)
	if !ok {
		return
	}

	var req models.DiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	h.transition(c, controller, "Failed to apply discount", func(ctx context.Context) (wizard.State, error) {
		return controller.ApplyDiscount(ctx, req.DiscountCode)
	})
}

// QuoteFee - POST /api/sessions/:id/fee
func (h *Handlers) QuoteFee(c *gin.Context) {
	controller, ok := h.session(c)
	if !ok {
		return
	}
	h.transition(c, controller, "Failed to get transaction fee", controller.QuoteFee)
}

// CheckPreRegistration - POST /api/sessions/:id/preregistration
func (h *Handlers) CheckPreRegistration(c *gin.Context) {
	controller, ok := h.session(c)
	if !ok {
		return
	}

	var req models.PreRegistrationCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	h.transition(c, controller, "Pre-registration check failed", func(ctx context.Context) (wizard.State, error) {
		return controller.CheckPreRegistration(ctx, req.Email)
	})
}

type restoreRequest struct {
	FromSessionID string `json:"fromSessionId" binding:"omitempty,max=64"`
}

// RestoreForm - POST /api/sessions/:id/restore
// The body is optional; without it the session's own snapshot is used
func (h *Handlers) RestoreForm(c *gin.Context) {
	controller, ok := h.session(c)
	if !ok {
		return
	}

	var req restoreRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		badRequest(c, err.Error())
		return
	}

	h.transition(c, controller, "Failed to restore form", func(ctx context.Context) (wizard.State, error) {
		return controller.Restore(ctx, req.FromSessionID)
	})
}

// SubmitRegistration - POST /api/sessions/:id/submit
func (h *Handlers) SubmitRegistration(c *gin.Context) {
	controller, ok := h.session(c)
	if !ok {
		return
	}
	h.transition(c, controller, "Registration failed", controller.Submit)
}

// DeleteSession - DELETE /api/sessions/:id
// Ends the session so the client can sign up another attendee
func (h *Handlers) DeleteSession(c *gin.Context) {
	if err := h.services.Sessions.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.handleServiceError(c, err, "Failed to end session")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handlers) session(c *gin.Context) (*wizard.Controller, bool) {
	controller, err := h.services.Sessions.Get(c.Param("id"))
	if err != nil {
		h.handleServiceError(c, err, "Session not found")
		return nil, false
	}
	return controller, true
}

// transition runs a wizard operation and renders its state. Failures carry
// the current state so the client stays on the same step.
func (h *Handlers) transition(c *gin.Context, controller *wizard.Controller, title string, op func(ctx context.Context) (wizard.State, error)) {
	state, err := op(c.Request.Context())
	if err != nil {
		current := controller.State()
		h.respondError(c, err, title, &current)
		return
	}
	c.JSON(http.StatusOK, state)
}
