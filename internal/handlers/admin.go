package handlers

import (
	"net/http"

	"ticketdesk/internal/models"

	"github.com/gin-gonic/gin"
)

// ListRegistrations - GET /api/admin/events/:id/registrations
func (h *Handlers) ListRegistrations(c *gin.Context) {
	registrations, err := h.services.Admin.ListRegistrations(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleServiceError(c, err, "Failed to list registrations")
		return
	}
	c.JSON(http.StatusOK, registrations)
}

// GetLedger - GET /api/admin/events/:id/ledger
// Registrations confirmed by payment tracking notifications
func (h *Handlers) GetLedger(c *gin.Context) {
	limit, ok := queryInt(c, "limit", 100)
	if !ok {
		badRequest(c, "limit must be a number")
		return
	}
	offset, ok := queryInt(c, "offset", 0)
	if !ok {
		badRequest(c, "offset must be a number")
		return
	}

	page, err := h.services.Admin.Ledger(c.Request.Context(), c.Param("id"), limit, offset)
	if err != nil {
		h.handleServiceError(c, err, "Failed to read ledger")
		return
	}
	c.JSON(http.StatusOK, page)
}

// CreateDiscounts - POST /api/admin/discounts
func (h *Handlers) CreateDiscounts(c *gin.Context) {
	var req models.DiscountCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	discounts, err := h.services.Admin.CreateDiscounts(c.Request.Context(), req)
	if err != nil {
		h.handleServiceError(c, err, "Failed to create discounts")
		return
	}
	c.JSON(http.StatusCreated, discounts)
}

// ListDiscounts - GET /api/admin/events/:id/discounts
func (h *Handlers) ListDiscounts(c *gin.Context) {
	discounts, err := h.services.Admin.ListDiscounts(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleServiceError(c, err, "Failed to list discounts")
		return
	}
	c.JSON(http.StatusOK, discounts)
}

// InviteAdmin - POST /api/admin/admins
func (h *Handlers) InviteAdmin(c *gin.Context) {
	var req models.AdminInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	admin, err := h.services.Admin.InviteAdmin(c.Request.Context(), req)
	if err != nil {
		h.handleServiceError(c, err, "Failed to invite admin")
		return
	}
	c.JSON(http.StatusCreated, admin)
}

// ListAdmins - GET /api/admin/admins
func (h *Handlers) ListAdmins(c *gin.Context) {
	admins, err := h.services.Admin.ListAdmins(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err, "Failed to list admins")
		return
	}
	c.JSON(http.StatusOK, admins)
}

// DeleteAdmin - DELETE /api/admin/admins/:id
func (h *Handlers) DeleteAdmin(c *gin.Context) {
	if err := h.services.Admin.DeleteAdmin(c.Request.Context(), c.Param("id")); err != nil {
		h.handleServiceError(c, err, "Failed to delete admin")
		return
	}
	c.Status(http.StatusNoContent)
}
