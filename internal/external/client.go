package external

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	apperrors "ticketdesk/internal/errors"
	"ticketdesk/internal/metrics"
)

type PlatformConfig struct {
	BaseURL string
	Timeout time.Duration
}

// Client executes request descriptors against the platform REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(cfg PlatformConfig) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}

	return &Client{
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// Request describes one platform API call
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   any
	// Endpoint labels the call in metrics; defaults to Path
	Endpoint string
}

// APIError is a non-2xx answer from the platform API
type APIError struct {
	StatusCode int
	Message    string
	Details    map[string]string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("platform api returned %d: %s", e.StatusCode, e.Message)
}

// Unwrap maps auth and lookup failures to the shared sentinel errors
func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusUnauthorized:
		return apperrors.ErrUnauthorized
	case http.StatusForbidden:
		return apperrors.ErrForbidden
	case http.StatusNotFound:
		return apperrors.ErrNotFound
	}
	return nil
}

// IsStatus reports whether err is an APIError with the given status code
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == status
}

type authTokenKey struct{}

// WithAuthToken returns a context carrying the caller's bearer token
func WithAuthToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, authTokenKey{}, token)
}

// AuthToken returns the bearer token stored in ctx
func AuthToken(ctx context.Context) string {
	if token, ok := ctx.Value(authTokenKey{}).(string); ok {
		return token
	}
	return ""
}

// Execute sends req and decodes a JSON response into out when out is not nil.
// There are no retries.
func (c *Client) Execute(ctx context.Context, req Request, out any) error {
	endpoint := req.Endpoint
	if endpoint == "" {
		endpoint = req.Path
	}

	target := c.baseURL + req.Path
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	var body io.Reader
	if req.Body != nil {
		payload, err := json.Marshal(req.Body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if token := AuthToken(ctx); token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		metrics.PlatformRequestDuration.WithLabelValues(endpoint, "error").Observe(time.Since(start).Seconds())
		return fmt.Errorf("%w: %s %s: %v", apperrors.ErrUnavailable, req.Method, req.Path, err)
	}
	defer resp.Body.Close()
	metrics.PlatformRequestDuration.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Observe(time.Since(start).Seconds())

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		Message:    http.StatusText(resp.StatusCode),
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil || len(raw) == 0 {
		return apiErr
	}

	var body struct {
		Message string          `json:"message"`
		Detail  json.RawMessage `json:"detail"`
		Details json.RawMessage `json:"details"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return apiErr
	}

	if body.Message != "" {
		apiErr.Message = body.Message
	}

	for _, candidate := range []json.RawMessage{body.Details, body.Detail} {
		if len(candidate) == 0 {
			continue
		}
		var text string
		if json.Unmarshal(candidate, &text) == nil {
			if body.Message == "" && text != "" {
				apiErr.Message = text
			}
			continue
		}
		var fields map[string]string
		if json.Unmarshal(candidate, &fields) == nil && len(fields) > 0 {
			apiErr.Details = fields
		}
	}

	return apiErr
}
