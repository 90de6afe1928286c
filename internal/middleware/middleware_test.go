package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"ticketdesk/internal/external"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestAdminAuthRejectsMissingToken(t *testing.T) {
	r := gin.New()
	r.GET("/admin", AdminAuth(), func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, header := range []string{"", "Basic abc", "Bearer ", "Bearer    "} {
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "header %q", header)
	}
}

func TestAdminAuthForwardsToken(t *testing.T) {
	r := gin.New()
	var forwarded string
	r.GET("/admin", AdminAuth(), func(c *gin.Context) {
		forwarded = external.AuthToken(c.Request.Context())
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer abc.def")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "abc.def", forwarded)
}

func TestRequestIDGeneratedAndReused(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "req-42")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "req-42", w.Header().Get(RequestIDHeader))
}

func TestRecoveryReturnsJSON(t *testing.T) {
	r := gin.New()
	r.Use(Recovery())
	r.GET("/panic", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Internal server error")
}

func TestCORSAllowsConfiguredOrigin(t *testing.T) {
	r := gin.New()
	r.Use(CORS([]string{"https://tickets.example.com"}))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://tickets.example.com")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "https://tickets.example.com", w.Header().Get("Access-Control-Allow-Origin"))
}
