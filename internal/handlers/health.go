package handlers

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
)

type healthResponse struct {
	Status         string            `json:"status"`
	Service        string            `json:"service"`
	ActiveSessions int               `json:"activeSessions"`
	Checks         map[string]string `json:"checks,omitempty"`
}

// Health - GET /health
// Reports unhealthy when any configured dependency fails its check
func (h *Handlers) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	resp := healthResponse{
		Status:         "ok",
		Service:        "ticketdesk-api",
		ActiveSessions: h.services.Sessions.Count(),
		Checks:         make(map[string]string, len(names)),
	}

	status := http.StatusOK
	for _, name := range names {
		if err := h.checks[name](ctx); err != nil {
			resp.Checks[name] = err.Error()
			resp.Status = "degraded"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[name] = "ok"
	}

	c.JSON(status, resp)
}
