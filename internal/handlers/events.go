package handlers

import (
	"net/http"
	"strings"

	"ticketdesk/internal/models"
	"ticketdesk/internal/service"

	"github.com/gin-gonic/gin"
)

const maxPageSize = 100

// ListEvents - GET /api/events
func (h *Handlers) ListEvents(c *gin.Context) {
	page, ok := queryInt(c, "page", 1)
	if !ok || page < 1 {
		badRequest(c, "page must be >= 1")
		return
	}

	pageSize, ok := queryInt(c, "pageSize", 20)
	if !ok || pageSize < 1 || pageSize > maxPageSize {
		badRequest(c, "pageSize must be between 1 and 100")
		return
	}

	response, err := h.services.Events.List(c.Request.Context(), service.ListQuery{
		Text:     strings.TrimSpace(c.Query("query")),
		Status:   models.EventStatus(c.Query("status")),
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		h.handleServiceError(c, err, "Failed to list events")
		return
	}

	c.JSON(http.StatusOK, response)
}

// GetEvent - GET /api/events/:id
func (h *Handlers) GetEvent(c *gin.Context) {
	event, err := h.services.Events.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleServiceError(c, err, "Failed to get event")
		return
	}
	c.JSON(http.StatusOK, event)
}

// CreateEvent - POST /api/admin/events
func (h *Handlers) CreateEvent(c *gin.Context) {
	var req models.Event
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		badRequest(c, "name is required")
		return
	}

	event, err := h.services.Events.Create(c.Request.Context(), req)
	if err != nil {
		h.handleServiceError(c, err, "Failed to create event")
		return
	}
	c.JSON(http.StatusCreated, event)
}

// UpdateEvent - PUT /api/admin/events/:id
func (h *Handlers) UpdateEvent(c *gin.Context) {
	var req models.Event
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	event, err := h.services.Events.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.handleServiceError(c, err, "Failed to update event")
		return
	}
	c.JSON(http.StatusOK, event)
}

// DeleteEvent - DELETE /api/admin/events/:id
func (h *Handlers) DeleteEvent(c *gin.Context) {
	if err := h.services.Events.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.handleServiceError(c, err, "Failed to delete event")
		return
	}
	c.Status(http.StatusNoContent)
}
