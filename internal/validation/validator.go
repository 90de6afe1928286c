// Package validation runs a smoke check of the gateway's public contract
// against a running instance.
package validation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"ticketdesk/internal/models"
	"ticketdesk/internal/wizard"
)

// SmokeValidator walks the public endpoints of a running gateway
type SmokeValidator struct {
	baseURL string
	eventID string
	client  *http.Client
}

// NewSmokeValidator creates a validator. eventID names an open event to start
// a session for; when empty the session checks are skipped.
func NewSmokeValidator(baseURL, eventID string) *SmokeValidator {
	return &SmokeValidator{
		baseURL: baseURL,
		eventID: eventID,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

// ValidateAll runs every check and stops at the first failure
func (v *SmokeValidator) ValidateAll() error {
	slog.Info("Starting smoke validation", "base_url", v.baseURL)

	checks := []struct {
		name string
		run  func() error
	}{
		{"health", v.validateHealth},
		{"events", v.validateEvents},
		{"sessions", v.validateSessions},
		{"payments", v.validatePayments},
		{"admin", v.validateAdmin},
	}

	for _, check := range checks {
		if err := check.run(); err != nil {
			return fmt.Errorf("%s validation failed: %w", check.name, err)
		}
		slog.Info("Endpoints valid", "check", check.name)
	}

	slog.Info("All endpoints passed validation")
	return nil
}

func (v *SmokeValidator) validateHealth() error {
	return v.expect(http.MethodGet, "/health", nil, http.StatusOK, nil)
}

func (v *SmokeValidator) validateEvents() error {
	var list models.ListEventsResponse
	if err := v.expect(http.MethodGet, "/api/events?page=1&pageSize=5", nil, http.StatusOK, &list); err != nil {
		return err
	}
	if len(list.Events) > 5 {
		return fmt.Errorf("GET /api/events: expected at most 5 events, got %d", len(list.Events))
	}

	return v.expect(http.MethodGet, "/api/events?pageSize=0", nil, http.StatusBadRequest, nil)
}

func (v *SmokeValidator) validateSessions() error {
	if err := v.expect(http.MethodGet, "/api/sessions/does-not-exist", nil, http.StatusNotFound, nil); err != nil {
		return err
	}

	if v.eventID == "" {
		slog.Info("No event id given, skipping session flow")
		return nil
	}

	var state wizard.State
	if err := v.expect(http.MethodPost, "/api/sessions", models.CreateSessionRequest{EventID: v.eventID}, http.StatusCreated, &state); err != nil {
		return err
	}
	if state.SessionID == "" || state.Step != wizard.StepEventDetails {
		return fmt.Errorf("POST /api/sessions: unexpected state %q at %q", state.SessionID, state.Step)
	}

	base := "/api/sessions/" + state.SessionID

	if err := v.expect(http.MethodPost, base+"/prev", nil, http.StatusOK, &state); err != nil {
		return err
	}
	if state.Index != 0 {
		return fmt.Errorf("POST %s/prev: expected to stay on the first step, got index %d", base, state.Index)
	}

	if err := v.expect(http.MethodPatch, base+"/form", map[string]string{"firstName": "Smoke"}, http.StatusOK, &state); err != nil {
		return err
	}
	if state.Form.FirstName != "Smoke" {
		return fmt.Errorf("PATCH %s/form: form was not merged", base)
	}

	return v.expect(http.MethodDelete, base, nil, http.StatusNoContent, nil)
}

func (v *SmokeValidator) validatePayments() error {
	if err := v.expect(http.MethodGet, "/api/payments/fail", nil, http.StatusBadRequest, nil); err != nil {
		return err
	}

	forged := models.PaymentNotificationPayload{
		EventID:       "smoke",
		TransactionID: "smoke-tx",
		Status:        models.TransactionSuccess,
		Token:         "forged",
	}
	return v.expect(http.MethodPost, "/api/payments/notifications", forged, http.StatusUnauthorized, nil)
}

func (v *SmokeValidator) validateAdmin() error {
	return v.expect(http.MethodGet, "/api/admin/admins", nil, http.StatusUnauthorized, nil)
}

// expect sends a request and checks the status; out, when set, receives the body
func (v *SmokeValidator) expect(method, path string, body interface{}, status int, out interface{}) error {
	resp, err := v.makeRequest(method, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != status {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s %s: expected %d, got %d: %s", method, path, status, resp.StatusCode, payload)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("%s %s: failed to decode response: %w", method, path, err)
		}
	}
	return nil
}

func (v *SmokeValidator) makeRequest(method, path string, body interface{}) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequest(method, v.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := v.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	return resp, nil
}
