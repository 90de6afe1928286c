package handlers

import (
	"ticketdesk/internal/middleware"

	"github.com/gin-gonic/gin"
)

// Register mounts the public, admin and health routes
func (h *Handlers) Register(router gin.IRouter) {
	api := router.Group("/api")
	{
		events := api.Group("/events")
		{
			events.GET("", h.ListEvents)
			events.GET("/:id", h.GetEvent)
		}

		sessions := api.Group("/sessions")
		{
			sessions.POST("", h.CreateSession)
			sessions.GET("/:id", h.GetSession)
			sessions.DELETE("/:id", h.DeleteSession)
			sessions.PATCH("/:id/form", h.UpdateForm)
			sessions.POST("/:id/next", h.NextStep)
			sessions.POST("/:id/prev", h.PrevStep)
			sessions.POST("/:id/discount", h.ApplyDiscount)
			sessions.POST("/:id/fee", h.QuoteFee)
			sessions.POST("/:id/preregistration", h.CheckPreRegistration)
			sessions.POST("/:id/restore", h.RestoreForm)
			sessions.POST("/:id/submit", h.SubmitRegistration)
		}

		payments := api.Group("/payments")
		{
			payments.GET("/success", h.PaymentSucceeded)
			payments.GET("/fail", h.PaymentFailed)
			payments.POST("/notifications", h.OnPaymentNotification)
		}

		admin := api.Group("/admin")
		admin.Use(middleware.AdminAuth())
		{
			admin.POST("/events", h.CreateEvent)
			admin.PUT("/events/:id", h.UpdateEvent)
			admin.DELETE("/events/:id", h.DeleteEvent)
			admin.GET("/events/:id/registrations", h.ListRegistrations)
			admin.GET("/events/:id/ledger", h.GetLedger)
			admin.GET("/events/:id/discounts", h.ListDiscounts)
			admin.POST("/discounts", h.CreateDiscounts)
			admin.GET("/admins", h.ListAdmins)
			admin.POST("/admins", h.InviteAdmin)
			admin.DELETE("/admins/:id", h.DeleteAdmin)
		}
	}

	router.GET("/health", h.Health)
}
