package external

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"ticketdesk/internal/metrics"
	"ticketdesk/internal/models"
)

// RequestPayment dispatches a gateway payment for the given method
func (c *Client) RequestPayment(ctx context.Context, method models.PaymentMethod, req models.PaymentRequest) (*models.PaymentResponse, error) {
	var descriptor Request
	switch method {
	case models.PaymentEWallet:
		descriptor = RequestEWallet(req)
	case models.PaymentDirectDebit:
		descriptor = RequestDirectDebit(req)
	default:
		return nil, fmt.Errorf("unsupported payment method %q", method)
	}

	var result models.PaymentResponse
	if err := c.Execute(ctx, descriptor, &result); err != nil {
		metrics.PaymentRequestsTotal.WithLabelValues(string(method), "error").Inc()
		return nil, fmt.Errorf("failed to request %s payment: %w", method, err)
	}
	metrics.PaymentRequestsTotal.WithLabelValues(string(method), "ok").Inc()

	return &result, nil
}

// NotificationToken signs the tracking fields of a gateway notification.
// Values are concatenated in key order together with the shared secret and hashed with SHA-256.
// The registration data is signed through the SHA-256 digest of its JSON encoding.
func NotificationToken(p models.PaymentNotificationPayload, secret string) string {
	params := map[string]string{
		"AmountPaid":       strconv.FormatFloat(p.AmountPaid, 'f', 2, 64),
		"EventId":          p.EventID,
		"PaymentId":        p.PaymentID,
		"ReferenceNumber":  p.ReferenceNumber,
		"RegistrationData": registrationDigest(p.RegistrationData),
		"Status":           string(p.Status),
		"TransactionId":    p.TransactionID,
		"Password":         secret,
	}

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, key := range keys {
		b.WriteString(params[key])
	}

	hash := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(hash[:])
}

func registrationDigest(form models.RegistrationForm) string {
	data, err := json.Marshal(form)
	if err != nil {
		return ""
	}
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

// VerifyNotification reports whether the payload token matches the shared secret
func VerifyNotification(p models.PaymentNotificationPayload, secret string) bool {
	if secret == "" || p.Token == "" {
		return false
	}
	expected := NotificationToken(p, secret)
	return subtle.ConstantTimeCompare([]byte(expected), []byte(strings.ToLower(p.Token))) == 1
}
