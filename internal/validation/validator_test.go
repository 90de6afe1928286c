package validation

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeGateway(healthStatus int) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(healthStatus)
	})
	mux.HandleFunc("/api/events", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("pageSize") == "0" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"events":[{"eventId":"ev-1","name":"PyCon"}],"total":1,"page":1,"pageSize":5}`))
	})
	mux.HandleFunc("/api/sessions/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	mux.HandleFunc("/api/payments/fail", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	})
	mux.HandleFunc("/api/payments/notifications", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	mux.HandleFunc("/api/admin/admins", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	return httptest.NewServer(mux)
}

func TestValidateAllPasses(t *testing.T) {
	server := fakeGateway(http.StatusOK)
	defer server.Close()

	require.NoError(t, NewSmokeValidator(server.URL, "").ValidateAll())
}

func TestValidateAllReportsFailingCheck(t *testing.T) {
	server := fakeGateway(http.StatusServiceUnavailable)
	defer server.Close()

	err := NewSmokeValidator(server.URL, "").ValidateAll()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "health validation failed")
	assert.Contains(t, err.Error(), "expected 200, got 503")
}

func TestUnreachableGateway(t *testing.T) {
	server := fakeGateway(http.StatusOK)
	url := server.URL
	server.Close()

	err := NewSmokeValidator(url, "ev-1").ValidateAll()
	assert.ErrorContains(t, err, "failed to make request")
}
