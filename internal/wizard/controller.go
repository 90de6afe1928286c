// Package wizard drives a registration session through the fixed step
// sequence, gating each transition on the fields declared for the step.
package wizard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"time"

	apperrors "ticketdesk/internal/errors"
	"ticketdesk/internal/external"
	"ticketdesk/internal/logger"
	"ticketdesk/internal/metrics"
	"ticketdesk/internal/models"
	"ticketdesk/internal/pricing"
	"ticketdesk/internal/snapshot"
)

// PlatformAPI is the subset of the platform API a registration needs
type PlatformAPI interface {
	GetRegistrationCount(ctx context.Context, eventID string) (*models.RegistrationCountResponse, error)
	ValidateDiscount(ctx context.Context, eventID, code string) (*models.Discount, error)
	QuoteTransactionFee(ctx context.Context, req models.FeeQuoteRequest) (*models.FeeQuoteResponse, error)
	GetPreRegistration(ctx context.Context, eventID, email string) (*models.PreRegistration, error)
	CreateRegistration(ctx context.Context, eventID string, form models.RegistrationForm) (*models.Registration, error)
	CreatePreRegistration(ctx context.Context, eventID string, form models.RegistrationForm) (*models.PreRegistration, error)
	RequestPayment(ctx context.Context, method models.PaymentMethod, req models.PaymentRequest) (*models.PaymentResponse, error)
}

// Publisher emits registration lifecycle events
type Publisher interface {
	Publish(subject string, data interface{}) error
}

// Links are external links handed to the client with every state
type Links struct {
	SizeChartURL string `json:"sizeChartUrl,omitempty"`
	TermsURL     string `json:"termsUrl,omitempty"`
	PublicURL    string `json:"publicUrl,omitempty"`
}

// Outcome is how a finished registration ended
type Outcome string

const (
	OutcomeRegistered     Outcome = "registered"
	OutcomePreRegistered  Outcome = "preregistered"
	OutcomePaymentPending Outcome = "payment_pending"
	OutcomeClosed         Outcome = "registration_closed"
)

// State is the view state of a session
type State struct {
	SessionID             string                  `json:"sessionId"`
	EventID               string                  `json:"eventId"`
	Step                  Step                    `json:"step"`
	Index                 int                     `json:"index"`
	Steps                 []Step                  `json:"steps"`
	Form                  models.RegistrationForm `json:"form"`
	Pricing               pricing.Breakdown       `json:"pricing"`
	RequiredFields        []string                `json:"requiredFields"`
	PaymentButtonDisabled bool                    `json:"paymentButtonDisabled"`
	IsSubmitting          bool                    `json:"isSubmitting"`
	ScrollToTop           bool                    `json:"scrollToTop"`
	Outcome               Outcome                 `json:"outcome,omitempty"`
	PaymentURL            string                  `json:"paymentUrl,omitempty"`
	Links                 Links                   `json:"links"`
}

// Options configures a Controller
type Options struct {
	SessionID string
	Event     models.Event
	API       PlatformAPI
	Store     snapshot.Store
	Publisher Publisher
	Links     Links
}

// Controller owns the form and step of one registration session
type Controller struct {
	mu sync.Mutex

	sessionID string
	event     models.Event
	api       PlatformAPI
	store     snapshot.Store
	publisher Publisher
	links     Links

	steps       []Step
	index       int
	closed      bool
	form        models.RegistrationForm
	submitting  bool
	scrollToTop bool
	outcome     Outcome
	paymentURL  string
	accepted    *models.PreRegistration

	// quotedAmount is the amount the current transaction fee applies to
	quotedAmount float64

	lastActivity time.Time
	now          func() time.Time
}

func NewController(opts Options) *Controller {
	c := &Controller{
		sessionID: opts.SessionID,
		event:     opts.Event,
		api:       opts.API,
		store:     opts.Store,
		publisher: opts.Publisher,
		links:     opts.Links,
		steps:     DefaultSteps,
		now:       time.Now,
	}
	if c.store == nil {
		c.store = snapshot.NewMemoryStore(0)
	}
	if len(c.event.TicketTypes) == 1 && !c.event.TicketTypes[0].SoldOut() {
		c.form.TicketType = c.event.TicketTypes[0].ID
	}
	c.recompute()
	c.touch()
	return c
}

func (c *Controller) SessionID() string {
	return c.sessionID
}

// LastActivity is the time of the last operation on the session
func (c *Controller) LastActivity() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastActivity
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stateLocked()
}

// Merge applies a partial form update. Server-owned amounts are never taken from the client.
func (c *Controller) Merge(ctx context.Context, raw json.RawMessage) (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.touch()
	c.scrollToTop = false

	if err := c.checkActiveLocked(); err != nil {
		return State{}, err
	}

	next := c.form
	if err := json.Unmarshal(raw, &next); err != nil {
		return State{}, &ValidationError{
			Step:   c.currentLocked(),
			Fields: map[string]string{"form": "Malformed form data"},
		}
	}

	next.DiscountPercentage = c.form.DiscountPercentage
	next.TransactionFee = c.form.TransactionFee
	next.Total = c.form.Total

	if next.DiscountCode != c.form.DiscountCode {
		next.DiscountPercentage = 0
	}
	if next.PaymentMethod != c.form.PaymentMethod || next.PaymentChannel != c.form.PaymentChannel {
		next.TransactionFee = 0
	}

	if next.TicketType != c.form.TicketType && next.TicketType != "" {
		tt, ok := c.event.TicketType(next.TicketType)
		if !ok {
			return State{}, &ValidationError{
				Step:   c.currentLocked(),
				Fields: map[string]string{"ticketType": "Unknown ticket type"},
			}
		}
		if tt.SoldOut() {
			return State{}, ErrTicketSoldOut
		}
	}

	c.form = next
	c.recompute()

	return c.stateLocked(), nil
}

// Next validates the current step and advances
func (c *Controller) Next(ctx context.Context) (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.touch()
	c.scrollToTop = false

	if err := c.checkActiveLocked(); err != nil {
		return State{}, err
	}

	c.saveSnapshotLocked(ctx)

	step := c.currentLocked()
	if step == StepSummary {
		return State{}, ErrSubmitRequired
	}

	if err := validateFields(step, c.form, c.rules().fieldsFor(step)); err != nil {
		metrics.WizardTransitionsTotal.WithLabelValues(string(step), "next", "invalid").Inc()
		return State{}, err
	}

	c.index++
	c.scrollToTop = true
	metrics.WizardTransitionsTotal.WithLabelValues(string(step), "next", "ok").Inc()

	return c.stateLocked(), nil
}

// Prev goes back one step without validation; at the first step it does nothing
func (c *Controller) Prev(ctx context.Context) (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.touch()
	c.scrollToTop = false

	if err := c.checkActiveLocked(); err != nil {
		return State{}, err
	}

	c.saveSnapshotLocked(ctx)

	if c.index > 0 {
		metrics.WizardTransitionsTotal.WithLabelValues(string(c.currentLocked()), "prev", "ok").Inc()
		c.index--
	}

	return c.stateLocked(), nil
}

// ApplyDiscount validates a discount code and reprices the registration
func (c *Controller) ApplyDiscount(ctx context.Context, code string) (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.touch()
	c.scrollToTop = false

	if err := c.checkActiveLocked(); err != nil {
		return State{}, err
	}

	percentage, err := c.validateDiscount(ctx, code)
	if err != nil {
		return State{}, err
	}

	prevForm, prevQuoted := c.form, c.quotedAmount

	c.form.DiscountCode = code
	c.form.DiscountPercentage = percentage
	c.recompute()

	if c.form.PaymentMethod != "" && c.form.PaymentChannel != "" && !c.rules().noPayment {
		if err := c.quoteFeeLocked(ctx); err != nil {
			c.form, c.quotedAmount = prevForm, prevQuoted
			return State{}, err
		}
	}

	return c.stateLocked(), nil
}

// validateDiscount returns the percentage of a usable discount code for this event
func (c *Controller) validateDiscount(ctx context.Context, code string) (float64, error) {
	discount, err := c.api.ValidateDiscount(ctx, c.event.EventID, code)
	if err != nil {
		if isClientError(err) {
			return 0, fmt.Errorf("%w: %w", ErrDiscountInvalid, err)
		}
		return 0, err
	}
	if discount.Claimed || (discount.EventID != "" && discount.EventID != c.event.EventID) {
		return 0, ErrDiscountInvalid
	}
	return discount.DiscountPercentage, nil
}

// QuoteFee fetches the transaction fee of the chosen payment channel
func (c *Controller) QuoteFee(ctx context.Context) (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.touch()
	c.scrollToTop = false

	if err := c.checkActiveLocked(); err != nil {
		return State{}, err
	}

	if c.rules().noPayment {
		return c.stateLocked(), nil
	}

	if err := validateFields(c.currentLocked(), c.form, []string{"PaymentMethod", "PaymentChannel"}); err != nil {
		return State{}, err
	}

	if err := c.quoteFeeLocked(ctx); err != nil {
		return State{}, err
	}

	return c.stateLocked(), nil
}

func (c *Controller) quoteFeeLocked(ctx context.Context) error {
	quote, err := c.api.QuoteTransactionFee(ctx, models.FeeQuoteRequest{
		EventID:        c.event.EventID,
		Amount:         c.breakdown().AmountBeforeFee(),
		PaymentMethod:  c.form.PaymentMethod,
		PaymentChannel: c.form.PaymentChannel,
	})
	if err != nil {
		return fmt.Errorf("failed to quote transaction fee: %w", err)
	}

	c.form.TransactionFee = pricing.Round(quote.TransactionFee)
	c.recompute()
	return nil
}

// CheckPreRegistration looks up the registrant's pre-registration. An accepted
// one pre-fills the form and unlocks submission for approval-flow events.
func (c *Controller) CheckPreRegistration(ctx context.Context, email string) (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.touch()
	c.scrollToTop = false

	if err := c.checkActiveLocked(); err != nil {
		return State{}, err
	}

	pre, err := c.api.GetPreRegistration(ctx, c.event.EventID, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return State{}, ErrPreRegistrationRequired
		}
		return State{}, err
	}

	switch pre.AcceptanceStatus {
	case models.AcceptanceAccepted:
		c.form.ApplyPreRegistration(pre)
		c.accepted = pre
		c.recompute()
		return c.stateLocked(), nil
	case models.AcceptanceRejected:
		return State{}, ErrPreRegistrationRejected
	default:
		return State{}, ErrPreRegistrationPending
	}
}

// Restore replaces the form with the snapshot saved under fromSessionID,
// or under this session when fromSessionID is empty
func (c *Controller) Restore(ctx context.Context, fromSessionID string) (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.touch()
	c.scrollToTop = false

	if err := c.checkActiveLocked(); err != nil {
		return State{}, err
	}

	if fromSessionID == "" {
		fromSessionID = c.sessionID
	}

	snap, err := c.store.Load(ctx, fromSessionID)
	if err != nil {
		return State{}, fmt.Errorf("failed to restore form: %w", err)
	}
	if snap.EventID != c.event.EventID {
		return State{}, ErrSnapshotMismatch
	}

	// Amounts are server-owned; only the inputs they derive from are restored.
	form := snap.Form
	form.DiscountPercentage = 0
	form.TransactionFee = 0
	form.Total = 0

	if form.TicketType != "" {
		if tt, ok := c.event.TicketType(form.TicketType); !ok || tt.SoldOut() {
			form.TicketType = ""
		}
	}

	if form.DiscountCode != "" {
		percentage, err := c.validateDiscount(ctx, form.DiscountCode)
		switch {
		case err == nil:
			form.DiscountPercentage = percentage
		case errors.Is(err, ErrDiscountInvalid):
			form.DiscountCode = ""
		default:
			return State{}, fmt.Errorf("failed to revalidate discount code: %w", err)
		}
	}

	c.form = form
	c.recompute()

	return c.stateLocked(), nil
}

// Submit finishes the registration. Remote calls run without holding the
// session lock; the submitting flag rejects a concurrent submit.
func (c *Controller) Submit(ctx context.Context) (State, error) {
	c.mu.Lock()
	c.touch()
	c.scrollToTop = false

	if err := c.checkActiveLocked(); err != nil {
		c.mu.Unlock()
		return State{}, err
	}

	rules := c.rules()
	if err := validateFields(c.currentLocked(), c.form, rules.trackedFields(c.steps)); err != nil {
		c.mu.Unlock()
		return State{}, err
	}

	if c.event.IsApprovalFlow && c.event.Status == models.EventStatusOpen &&
		(c.accepted == nil || !strings.EqualFold(c.accepted.Email, c.form.Email)) {
		c.mu.Unlock()
		return State{}, ErrPreRegistrationRequired
	}

	c.submitting = true
	c.saveSnapshotLocked(ctx)
	form := c.form
	breakdown := c.breakdown()
	c.mu.Unlock()

	log := c.logger(ctx).With("event_id", c.event.EventID)

	result, err := c.dispatch(ctx, log, form, breakdown)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.submitting = false
	c.touch()

	if err != nil {
		switch {
		case errors.Is(err, ErrRegistrationClosed):
			c.closed = true
			c.outcome = OutcomeClosed
			c.scrollToTop = true
			metrics.SubmissionsTotal.WithLabelValues(string(OutcomeClosed)).Inc()
		case errors.Is(err, ErrPaymentFailed):
			metrics.SubmissionsTotal.WithLabelValues("payment_failed").Inc()
		default:
			metrics.SubmissionsTotal.WithLabelValues("error").Inc()
		}
		return State{}, err
	}

	c.index = len(c.steps) - 1
	c.outcome = result.outcome
	c.paymentURL = result.paymentURL
	c.scrollToTop = true
	metrics.SubmissionsTotal.WithLabelValues(string(result.outcome)).Inc()

	if err := c.store.Delete(ctx, c.sessionID); err != nil {
		log.Warn("Failed to discard form snapshot", "error", err)
	}

	c.publish(log, models.SubjectRegistrationSubmitted, models.RegistrationSubmittedEvent{
		SessionID: c.sessionID,
		EventID:   c.event.EventID,
		Email:     form.Email,
		Total:     breakdown.Total,
		Paid:      result.outcome == OutcomePaymentPending,
		Timestamp: c.now(),
	})

	return c.stateLocked(), nil
}

type submitResult struct {
	outcome    Outcome
	paymentURL string
}

// dispatch runs the remote side of a submission. It must not touch controller state.
func (c *Controller) dispatch(ctx context.Context, log *slog.Logger, form models.RegistrationForm, breakdown pricing.Breakdown) (submitResult, error) {
	count, err := c.api.GetRegistrationCount(ctx, c.event.EventID)
	if err != nil {
		return submitResult{}, fmt.Errorf("failed to check registration capacity: %w", err)
	}

	capacity := c.event
	if count.MaximumSlots > 0 {
		capacity.MaximumSlots = count.MaximumSlots
	}
	if capacity.IsFull(count.RegistrationCount) {
		log.Info("Registration closed, event is full",
			"registration_count", count.RegistrationCount,
			"maximum_slots", capacity.MaximumSlots)
		c.publish(log, models.SubjectRegistrationClosed, models.RegistrationClosedEvent{
			SessionID:         c.sessionID,
			EventID:           c.event.EventID,
			RegistrationCount: count.RegistrationCount,
			MaximumSlots:      capacity.MaximumSlots,
			Timestamp:         c.now(),
		})
		return submitResult{}, ErrRegistrationClosed
	}

	if c.event.Status == models.EventStatusPreRegistration {
		if _, err := c.api.CreatePreRegistration(ctx, c.event.EventID, form); err != nil {
			return submitResult{}, fmt.Errorf("failed to submit pre-registration: %w", err)
		}
		return submitResult{outcome: OutcomePreRegistered}, nil
	}

	if breakdown.IsFree() || !c.event.PaidEvent {
		if _, err := c.api.CreateRegistration(ctx, c.event.EventID, form); err != nil {
			return submitResult{}, fmt.Errorf("failed to submit registration: %w", err)
		}
		return submitResult{outcome: OutcomeRegistered}, nil
	}

	resp, err := c.api.RequestPayment(ctx, form.PaymentMethod, models.PaymentRequest{
		EventID:          c.event.EventID,
		Amount:           breakdown.Total,
		PaymentChannel:   form.PaymentChannel,
		SuccessURL:       c.returnURL("success"),
		FailureURL:       c.returnURL("fail"),
		RegistrationData: form,
	})
	if err != nil {
		log.Error("Payment request failed",
			"payment_method", form.PaymentMethod,
			"payment_channel", form.PaymentChannel,
			"error", err)
		return submitResult{}, fmt.Errorf("%w: %w", ErrPaymentFailed, err)
	}

	c.publish(log, models.SubjectPaymentRequested, models.PaymentRequestedEvent{
		SessionID:        c.sessionID,
		EventID:          c.event.EventID,
		PaymentMethod:    form.PaymentMethod,
		PaymentChannel:   form.PaymentChannel,
		Amount:           breakdown.Total,
		PaymentRequestID: resp.PaymentRequestID,
		Timestamp:        c.now(),
	})

	return submitResult{outcome: OutcomePaymentPending, paymentURL: resp.CheckoutURL}, nil
}

func (c *Controller) returnURL(result string) string {
	q := url.Values{"eventId": {c.event.EventID}, "sessionId": {c.sessionID}}
	return c.links.PublicURL + "/api/payments/" + result + "?" + q.Encode()
}

func (c *Controller) publish(log *slog.Logger, subject string, data interface{}) {
	if c.publisher == nil {
		return
	}
	if err := c.publisher.Publish(subject, data); err != nil {
		log.Warn("Failed to publish registration event", "subject", subject, "error", err)
	}
}

func (c *Controller) checkActiveLocked() error {
	if c.currentLocked().Terminal() {
		return ErrSessionFinished
	}
	if c.submitting {
		return ErrSubmissionInFlight
	}
	return nil
}

func (c *Controller) currentLocked() Step {
	if c.closed {
		return StepRegistrationClosed
	}
	return c.steps[c.index]
}

func (c *Controller) saveSnapshotLocked(ctx context.Context) {
	snap := snapshot.Snapshot{EventID: c.event.EventID, Form: c.form, SavedAt: c.now()}
	if err := c.store.Save(ctx, c.sessionID, snap); err != nil {
		c.logger(ctx).Warn("Failed to save form snapshot", "error", err)
	}
}

// basePrice is the selected ticket type's price, or the event price
func (c *Controller) basePrice() float64 {
	if tt, ok := c.event.TicketType(c.form.TicketType); ok {
		return tt.Price
	}
	return c.event.Price
}

// breakdown prices the form. Events that take no payment always price at zero.
func (c *Controller) breakdown() pricing.Breakdown {
	if !c.event.PaidEvent {
		return pricing.Calculate(pricing.Input{})
	}
	in := pricing.Input{
		Price:              c.basePrice(),
		DiscountPercentage: c.form.DiscountPercentage,
		TransactionFee:     c.form.TransactionFee,
		PlatformFeeRate:    c.event.PlatformFee,
	}
	if c.form.SprintDay.Bool() {
		in.AddOnPrice = c.event.SprintDayPrice
	}
	return pricing.Calculate(in)
}

// recompute derives the total from the current inputs. A stale transaction
// fee is dropped when the amount it was quoted for changes.
func (c *Controller) recompute() {
	amount := c.breakdown().AmountBeforeFee()
	if amount == 0 || amount != c.quotedAmount {
		c.form.TransactionFee = 0
	}
	c.quotedAmount = amount
	c.form.Total = c.breakdown().Total
}

func (c *Controller) logger(ctx context.Context) *slog.Logger {
	return logger.WithContext(logger.ContextWithSessionID(ctx, c.sessionID))
}

func (c *Controller) rules() fieldRules {
	return fieldRules{
		noPayment:      !c.event.PaidEvent || c.breakdown().IsFree() || c.event.Status == models.EventStatusPreRegistration,
		hasTicketTypes: len(c.event.TicketTypes) > 0,
	}
}

func (c *Controller) touch() {
	c.lastActivity = c.now()
}

func (c *Controller) stateLocked() State {
	step := c.currentLocked()
	breakdown := c.breakdown()
	rules := c.rules()

	var required []string
	for _, f := range rules.fieldsFor(step) {
		required = append(required, jsonName(f))
	}

	return State{
		SessionID:      c.sessionID,
		EventID:        c.event.EventID,
		Step:           step,
		Index:          c.index,
		Steps:          c.steps,
		Form:           c.form,
		Pricing:        breakdown,
		RequiredFields: required,
		PaymentButtonDisabled: !rules.noPayment &&
			(c.form.PaymentMethod == "" || c.form.PaymentChannel == "" || c.form.TransactionFee == 0),
		IsSubmitting: c.submitting,
		ScrollToTop:  c.scrollToTop,
		Outcome:      c.outcome,
		PaymentURL:   c.paymentURL,
		Links:        c.links,
	}
}

func isClientError(err error) bool {
	var apiErr *external.APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode >= 400 && apiErr.StatusCode < 500
}
