package middleware

import (
	"context"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"ticketdesk/internal/external"
	"ticketdesk/internal/logger"
	"ticketdesk/internal/metrics"
	"ticketdesk/internal/models"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

const (
	RequestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
)

// CORS allows the registration and admin frontends to call the API
func CORS(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", RequestIDHeader},
		ExposeHeaders: []string{RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}

	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
		cfg.AllowCredentials = true
	}

	return cors.New(cfg)
}

// RequestID tags each request with an id, reusing the caller's when present
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = logger.NewRequestID()
		}

		c.Set(requestIDKey, requestID)
		c.Header(RequestIDHeader, requestID)
		c.Request = c.Request.WithContext(logger.ContextWithRequestID(c.Request.Context(), requestID))

		c.Next()
	}
}

// Timeout bounds the request context
func Timeout(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if d <= 0 {
			c.Next()
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// Logger logs failed requests
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		if c.Writer.Status() < 400 {
			return
		}

		logFields := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status_code", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
			"user_agent", c.Request.UserAgent(),
		}

		if sessionID := c.Param("id"); sessionID != "" && strings.HasPrefix(c.FullPath(), "/api/sessions") {
			logFields = append(logFields, "session_id", sessionID)
		}

		if len(c.Errors) > 0 {
			logFields = append(logFields, "error", c.Errors.String())
		}

		log := logger.WithContext(c.Request.Context())
		if c.Writer.Status() >= 500 {
			log.Error("Request completed with error", logFields...)
		} else {
			log.Warn("Request rejected", logFields...)
		}
	}
}

// Metrics records request counts and latency per route
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		metrics.HTTPRequestsTotal.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(route, c.Request.Method).Observe(time.Since(start).Seconds())
	}
}

// Recovery turns panics into a 500 response
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.WithContext(c.Request.Context()).Error("PANIC recovered",
			"panic", recovered,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"query", c.Request.URL.RawQuery,
			"client_ip", c.ClientIP(),
		)

		if !c.Writer.Written() {
			c.AbortWithStatusJSON(http.StatusInternalServerError, models.ErrorResponse{
				Title:       "Internal server error",
				Description: "Something went wrong. Please try again.",
			})
		}
	})
}

// AdminAuth requires a bearer token and forwards it to the platform API.
// The platform API verifies the token.
func AdminAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		token = strings.TrimSpace(token)
		if !ok || token == "" {
			c.Header("WWW-Authenticate", `Bearer realm="ticketdesk"`)
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{
				Title:       "Unauthorized",
				Description: "Sign in to the admin console to continue.",
			})
			return
		}

		c.Request = c.Request.WithContext(external.WithAuthToken(c.Request.Context(), token))
		c.Next()
	}
}
