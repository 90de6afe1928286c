package wizard

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "ticketdesk/internal/errors"
	"ticketdesk/internal/external"
	"ticketdesk/internal/models"
	"ticketdesk/internal/snapshot"
)

type fakeAPI struct {
	mu sync.Mutex

	count        models.RegistrationCountResponse
	countErr     error
	discounts    map[string]models.Discount
	fee          float64
	quoteErr     error
	preReg       *models.PreRegistration
	paymentErr   error
	paymentBlock chan struct{}

	registrations    []models.RegistrationForm
	preRegistrations []models.RegistrationForm
	payments         []models.PaymentRequest
	quotes           []models.FeeQuoteRequest
}

func (f *fakeAPI) GetRegistrationCount(ctx context.Context, eventID string) (*models.RegistrationCountResponse, error) {
	if f.countErr != nil {
		return nil, f.countErr
	}
	c := f.count
	return &c, nil
}

func (f *fakeAPI) ValidateDiscount(ctx context.Context, eventID, code string) (*models.Discount, error) {
	d, ok := f.discounts[code]
	if !ok {
		return nil, &external.APIError{StatusCode: http.StatusNotFound, Message: "Discount not found"}
	}
	return &d, nil
}

func (f *fakeAPI) QuoteTransactionFee(ctx context.Context, req models.FeeQuoteRequest) (*models.FeeQuoteResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.quotes = append(f.quotes, req)
	if f.quoteErr != nil {
		return nil, f.quoteErr
	}
	return &models.FeeQuoteResponse{TransactionFee: f.fee}, nil
}

func (f *fakeAPI) GetPreRegistration(ctx context.Context, eventID, email string) (*models.PreRegistration, error) {
	if f.preReg == nil {
		return nil, &external.APIError{StatusCode: http.StatusNotFound}
	}
	return f.preReg, nil
}

func (f *fakeAPI) CreateRegistration(ctx context.Context, eventID string, form models.RegistrationForm) (*models.Registration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.registrations = append(f.registrations, form)
	return &models.Registration{RegistrationID: "reg-1", EventID: eventID}, nil
}

func (f *fakeAPI) CreatePreRegistration(ctx context.Context, eventID string, form models.RegistrationForm) (*models.PreRegistration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.preRegistrations = append(f.preRegistrations, form)
	return &models.PreRegistration{PreRegistrationID: "pre-1", AcceptanceStatus: models.AcceptancePending}, nil
}

func (f *fakeAPI) RequestPayment(ctx context.Context, method models.PaymentMethod, req models.PaymentRequest) (*models.PaymentResponse, error) {
	if f.paymentBlock != nil {
		<-f.paymentBlock
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.paymentErr != nil {
		return nil, f.paymentErr
	}
	f.payments = append(f.payments, req)
	return &models.PaymentResponse{PaymentRequestID: "pay-1", CheckoutURL: "https://gateway/checkout/pay-1"}, nil
}

type fakePublisher struct {
	mu       sync.Mutex
	subjects []string
}

func (p *fakePublisher) Publish(subject string, data interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.subjects = append(p.subjects, subject)
	return nil
}

func paidEvent() models.Event {
	return models.Event{
		EventID:      "ev-1",
		Name:         "PyCon",
		PaidEvent:    true,
		Price:        1000,
		PlatformFee:  0.05,
		MaximumSlots: 100,
		Status:       models.EventStatusOpen,
	}
}

func freeEvent() models.Event {
	return models.Event{EventID: "ev-free", Name: "Meetup", Status: models.EventStatusOpen}
}

func newTestController(t *testing.T, event models.Event, api *fakeAPI) (*Controller, *snapshot.MemoryStore, *fakePublisher) {
	t.Helper()
	store := snapshot.NewMemoryStore(0)
	pub := &fakePublisher{}
	c := NewController(Options{
		SessionID: "sess-1",
		Event:     event,
		API:       api,
		Store:     store,
		Publisher: pub,
		Links:     Links{SizeChartURL: "https://example.com/sizes", PublicURL: "https://tickets.example.com"},
	})
	return c, store, pub
}

func merge(t *testing.T, c *Controller, fields map[string]any) State {
	t.Helper()
	raw, err := json.Marshal(fields)
	require.NoError(t, err)
	state, err := c.Merge(context.Background(), raw)
	require.NoError(t, err)
	return state
}

func completeProfile() map[string]any {
	return map[string]any{
		"email":            "ada@example.com",
		"firstName":        "Ada",
		"lastName":         "Lovelace",
		"contactNumber":    "09171234567",
		"organization":     "Analytical Engines",
		"jobTitle":         "Engineer",
		"validIdObjectKey": "ids/ada.png",
	}
}

// advanceTo moves a valid controller forward until it reaches step
func advanceTo(t *testing.T, c *Controller, step Step) {
	t.Helper()
	for c.State().Step != step {
		_, err := c.Next(context.Background())
		require.NoError(t, err, "stuck at %s", c.State().Step)
	}
}

func TestNewControllerState(t *testing.T) {
	c, _, _ := newTestController(t, paidEvent(), &fakeAPI{})

	state := c.State()
	assert.Equal(t, StepEventDetails, state.Step)
	assert.Equal(t, 0, state.Index)
	assert.Equal(t, DefaultSteps, state.Steps)
	assert.Equal(t, 1050.0, state.Form.Total)
	assert.True(t, state.PaymentButtonDisabled)
	assert.Equal(t, "https://example.com/sizes", state.Links.SizeChartURL)
}

func TestNextInvalidFieldNeverAdvances(t *testing.T) {
	c, store, _ := newTestController(t, paidEvent(), &fakeAPI{})
	ctx := context.Background()

	_, err := c.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, StepUserBio, c.State().Step)

	merge(t, c, map[string]any{"email": "not-an-email", "firstName": "Ada"})
	_, err = c.Next(ctx)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, StepUserBio, verr.Step)
	assert.Contains(t, verr.Fields, "email")
	assert.Contains(t, verr.Fields, "lastName")
	assert.NotContains(t, verr.Fields, "firstName")
	assert.Equal(t, StepUserBio, c.State().Step)

	saved, err := store.Load(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, "ev-1", saved.EventID)
	assert.Equal(t, "not-an-email", saved.Form.Email)
}

func TestNextSetsScrollToTop(t *testing.T) {
	c, _, _ := newTestController(t, paidEvent(), &fakeAPI{})

	state, err := c.Next(context.Background())
	require.NoError(t, err)
	assert.True(t, state.ScrollToTop)

	state = merge(t, c, map[string]any{"nickname": "ada"})
	assert.False(t, state.ScrollToTop)
}

func TestPrevFromFirstStepIsNoop(t *testing.T) {
	c, _, _ := newTestController(t, paidEvent(), &fakeAPI{})

	state, err := c.Prev(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StepEventDetails, state.Step)
	assert.Equal(t, 0, state.Index)
}

func TestPrevSkipsValidation(t *testing.T) {
	c, _, _ := newTestController(t, paidEvent(), &fakeAPI{})
	ctx := context.Background()

	_, err := c.Next(ctx)
	require.NoError(t, err)
	merge(t, c, map[string]any{"email": "broken"})

	state, err := c.Prev(ctx)
	require.NoError(t, err)
	assert.Equal(t, StepEventDetails, state.Step)
}

func TestTicketTypeRequiredOnlyWhenEventHasTypes(t *testing.T) {
	event := paidEvent()
	event.TicketTypes = []models.TicketType{
		{ID: "regular", Name: "Regular", Price: 1000},
		{ID: "student", Name: "Student", Price: 500},
	}
	c, _, _ := newTestController(t, event, &fakeAPI{})

	_, err := c.Next(context.Background())
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "ticketType")

	state := merge(t, c, map[string]any{"ticketType": "student"})
	assert.Equal(t, 500.0, state.Pricing.Price)
	assert.Equal(t, 525.0, state.Form.Total)

	_, err = c.Next(context.Background())
	assert.NoError(t, err)
}

func TestMergeRejectsSoldOutTicketType(t *testing.T) {
	event := paidEvent()
	event.TicketTypes = []models.TicketType{
		{ID: "early", Price: 800, MaximumQuantity: 10, CurrentSales: 10},
		{ID: "regular", Price: 1000},
	}
	c, _, _ := newTestController(t, event, &fakeAPI{})

	_, err := c.Merge(context.Background(), json.RawMessage(`{"ticketType":"early"}`))
	assert.ErrorIs(t, err, ErrTicketSoldOut)

	_, err = c.Merge(context.Background(), json.RawMessage(`{"ticketType":"vip"}`))
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)

	assert.Empty(t, c.State().Form.TicketType)
}

func TestMergeIgnoresClientTotals(t *testing.T) {
	c, _, _ := newTestController(t, paidEvent(), &fakeAPI{})

	state := merge(t, c, map[string]any{
		"total":              1,
		"discountPercentage": 100,
		"transactionFee":     999,
	})
	assert.Equal(t, 1050.0, state.Form.Total)
	assert.Zero(t, state.Form.DiscountPercentage)
	assert.Zero(t, state.Form.TransactionFee)
}

func TestSprintDayAddOn(t *testing.T) {
	event := paidEvent()
	event.SprintDayPrice = 300
	c, _, _ := newTestController(t, event, &fakeAPI{})

	state := merge(t, c, map[string]any{"sprintDay": true})
	assert.Equal(t, 300.0, state.Pricing.AddOnPrice)
	assert.Equal(t, 1350.0, state.Form.Total)
}

func TestApplyDiscountAndQuoteFee(t *testing.T) {
	api := &fakeAPI{
		fee:       30,
		discounts: map[string]models.Discount{"SAVE20": {EntryID: "SAVE20", EventID: "ev-1", DiscountPercentage: 20}},
	}
	c, _, _ := newTestController(t, paidEvent(), api)
	ctx := context.Background()

	merge(t, c, map[string]any{"paymentMethod": "E_WALLET", "paymentChannel": "GCASH"})
	state, err := c.QuoteFee(ctx)
	require.NoError(t, err)
	assert.Equal(t, 30.0, state.Form.TransactionFee)
	assert.Equal(t, 1080.0, state.Form.Total)
	assert.False(t, state.PaymentButtonDisabled)

	state, err = c.ApplyDiscount(ctx, "SAVE20")
	require.NoError(t, err)
	assert.Equal(t, 800.0, state.Pricing.DiscountedPrice)
	assert.Equal(t, 50.0, state.Pricing.PlatformFeeAmount)
	assert.Equal(t, 880.0, state.Form.Total)

	require.Len(t, api.quotes, 2)
	assert.Equal(t, 850.0, api.quotes[1].Amount)
}

func TestApplyDiscountInvalid(t *testing.T) {
	api := &fakeAPI{discounts: map[string]models.Discount{
		"USED": {EntryID: "USED", DiscountPercentage: 50, Claimed: true},
	}}
	c, _, _ := newTestController(t, paidEvent(), api)

	_, err := c.ApplyDiscount(context.Background(), "NOPE")
	assert.ErrorIs(t, err, ErrDiscountInvalid)

	_, err = c.ApplyDiscount(context.Background(), "USED")
	assert.ErrorIs(t, err, ErrDiscountInvalid)
	assert.Zero(t, c.State().Form.DiscountPercentage)
}

func TestChangingChannelDropsFee(t *testing.T) {
	api := &fakeAPI{fee: 30}
	c, _, _ := newTestController(t, paidEvent(), api)

	merge(t, c, map[string]any{"paymentMethod": "E_WALLET", "paymentChannel": "GCASH"})
	_, err := c.QuoteFee(context.Background())
	require.NoError(t, err)

	state := merge(t, c, map[string]any{"paymentChannel": "MAYA"})
	assert.Zero(t, state.Form.TransactionFee)
	assert.True(t, state.PaymentButtonDisabled)
}

func TestQuoteFeeRequiresChannel(t *testing.T) {
	c, _, _ := newTestController(t, paidEvent(), &fakeAPI{})

	_, err := c.QuoteFee(context.Background())
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "paymentMethod")
	assert.Contains(t, verr.Fields, "paymentChannel")
}

func TestFreeEventSubmitWithoutPayment(t *testing.T) {
	api := &fakeAPI{}
	c, store, pub := newTestController(t, freeEvent(), api)
	ctx := context.Background()

	merge(t, c, completeProfile())
	advanceTo(t, c, StepSummary)

	state := c.State()
	assert.True(t, state.Pricing.IsFree())
	assert.False(t, state.PaymentButtonDisabled)

	_, err := c.Next(ctx)
	assert.ErrorIs(t, err, ErrSubmitRequired)

	state, err = c.Submit(ctx)
	require.NoError(t, err)
	assert.Equal(t, StepSuccess, state.Step)
	assert.Equal(t, OutcomeRegistered, state.Outcome)
	assert.Len(t, api.registrations, 1)
	assert.Empty(t, api.payments)
	assert.Contains(t, pub.subjects, models.SubjectRegistrationSubmitted)

	_, err = store.Load(ctx, "sess-1")
	assert.ErrorIs(t, err, snapshot.ErrNotFound)
}

func TestPaidSubmitRequestsPayment(t *testing.T) {
	api := &fakeAPI{fee: 30}
	c, _, pub := newTestController(t, paidEvent(), api)
	ctx := context.Background()

	profile := completeProfile()
	profile["paymentMethod"] = "DIRECT_DEBIT"
	profile["paymentChannel"] = "BPI"
	merge(t, c, profile)
	_, err := c.QuoteFee(ctx)
	require.NoError(t, err)
	advanceTo(t, c, StepSummary)

	state, err := c.Submit(ctx)
	require.NoError(t, err)
	assert.Equal(t, StepSuccess, state.Step)
	assert.Equal(t, OutcomePaymentPending, state.Outcome)
	assert.Equal(t, "https://gateway/checkout/pay-1", state.PaymentURL)

	require.Len(t, api.payments, 1)
	assert.Equal(t, 1080.0, api.payments[0].Amount)
	assert.Contains(t, api.payments[0].SuccessURL, "https://tickets.example.com/api/payments/success?")
	assert.Contains(t, pub.subjects, models.SubjectPaymentRequested)

	_, err = c.Next(ctx)
	assert.ErrorIs(t, err, ErrSessionFinished)
}

func TestSubmitRequiresPaymentFieldsWhenPaid(t *testing.T) {
	c, _, _ := newTestController(t, paidEvent(), &fakeAPI{})
	merge(t, c, completeProfile())

	_, err := c.Submit(context.Background())
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "paymentMethod")
	assert.Contains(t, verr.Fields, "transactionFee")
}

func TestSubmitWhenFullClosesRegistration(t *testing.T) {
	api := &fakeAPI{count: models.RegistrationCountResponse{RegistrationCount: 100, MaximumSlots: 100}}
	c, _, pub := newTestController(t, freeEvent(), api)
	merge(t, c, completeProfile())

	_, err := c.Submit(context.Background())
	assert.ErrorIs(t, err, ErrRegistrationClosed)

	state := c.State()
	assert.Equal(t, StepRegistrationClosed, state.Step)
	assert.Equal(t, OutcomeClosed, state.Outcome)
	assert.False(t, state.IsSubmitting)
	assert.Empty(t, api.registrations)
	assert.Contains(t, pub.subjects, models.SubjectRegistrationClosed)

	_, err = c.Submit(context.Background())
	assert.ErrorIs(t, err, ErrSessionFinished)
}

func TestPaymentFailureResetsFlag(t *testing.T) {
	api := &fakeAPI{fee: 15, paymentErr: errors.New("gateway down")}
	c, _, _ := newTestController(t, paidEvent(), api)
	ctx := context.Background()

	profile := completeProfile()
	profile["paymentMethod"] = "E_WALLET"
	profile["paymentChannel"] = "GCASH"
	merge(t, c, profile)
	_, err := c.QuoteFee(ctx)
	require.NoError(t, err)

	_, err = c.Submit(ctx)
	assert.ErrorIs(t, err, ErrPaymentFailed)

	state := c.State()
	assert.False(t, state.IsSubmitting)
	assert.Equal(t, StepEventDetails, state.Step)

	api.paymentErr = nil
	state, err = c.Submit(ctx)
	require.NoError(t, err)
	assert.Equal(t, StepSuccess, state.Step)
}

func TestConcurrentSubmitRejected(t *testing.T) {
	api := &fakeAPI{fee: 15, paymentBlock: make(chan struct{})}
	c, _, _ := newTestController(t, paidEvent(), api)
	ctx := context.Background()

	profile := completeProfile()
	profile["paymentMethod"] = "E_WALLET"
	profile["paymentChannel"] = "GCASH"
	merge(t, c, profile)
	_, err := c.QuoteFee(ctx)
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		_, err := c.Submit(ctx)
		done <- err
	}()

	require.Eventually(t, func() bool { return c.State().IsSubmitting }, time.Second, 5*time.Millisecond)

	_, err = c.Submit(ctx)
	assert.ErrorIs(t, err, ErrSubmissionInFlight)

	close(api.paymentBlock)
	require.NoError(t, <-done)
	assert.Len(t, api.payments, 1)
}

func TestCheckPreRegistration(t *testing.T) {
	event := freeEvent()
	event.IsApprovalFlow = true

	tests := []struct {
		name    string
		preReg  *models.PreRegistration
		wantErr error
	}{
		{"missing", nil, ErrPreRegistrationRequired},
		{"pending", &models.PreRegistration{AcceptanceStatus: models.AcceptancePending}, ErrPreRegistrationPending},
		{"rejected", &models.PreRegistration{AcceptanceStatus: models.AcceptanceRejected}, ErrPreRegistrationRejected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _, _ := newTestController(t, event, &fakeAPI{preReg: tt.preReg})
			_, err := c.CheckPreRegistration(context.Background(), "ada@example.com")
			assert.ErrorIs(t, err, tt.wantErr)

			var notice *Error
			require.ErrorAs(t, err, &notice)
			assert.NotEmpty(t, notice.Title)
			assert.NotEmpty(t, notice.Description)
		})
	}
}

func TestApprovalFlowSubmitNeedsAcceptance(t *testing.T) {
	event := freeEvent()
	event.IsApprovalFlow = true
	api := &fakeAPI{preReg: &models.PreRegistration{
		Email:            "ada@example.com",
		FirstName:        "Ada",
		LastName:         "Lovelace",
		Organization:     "Analytical Engines",
		AcceptanceStatus: models.AcceptanceAccepted,
	}}
	c, _, _ := newTestController(t, event, api)
	ctx := context.Background()
	merge(t, c, completeProfile())

	_, err := c.Submit(ctx)
	assert.ErrorIs(t, err, ErrPreRegistrationRequired)

	state, err := c.CheckPreRegistration(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Ada", state.Form.FirstName)

	state, err = c.Submit(ctx)
	require.NoError(t, err)
	assert.Equal(t, OutcomeRegistered, state.Outcome)
}

func TestPreRegistrationPhaseSubmitsPreRegistration(t *testing.T) {
	event := paidEvent()
	event.IsApprovalFlow = true
	event.Status = models.EventStatusPreRegistration
	api := &fakeAPI{fee: 30}
	c, _, _ := newTestController(t, event, api)
	ctx := context.Background()

	profile := completeProfile()
	profile["paymentMethod"] = "E_WALLET"
	profile["paymentChannel"] = "GCASH"
	merge(t, c, profile)
	_, err := c.QuoteFee(ctx)
	require.NoError(t, err)

	state, err := c.Submit(ctx)
	require.NoError(t, err)
	assert.Equal(t, OutcomePreRegistered, state.Outcome)
	assert.Len(t, api.preRegistrations, 1)
	assert.Empty(t, api.payments)
}

func TestRestoreFromSnapshot(t *testing.T) {
	c, store, _ := newTestController(t, paidEvent(), &fakeAPI{})
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "old-session", snapshot.Snapshot{
		EventID: "ev-1",
		Form: models.RegistrationForm{
			Email:     "ada@example.com",
			FirstName: "Ada",
		},
	}))

	_, err := c.Restore(ctx, "")
	assert.ErrorIs(t, err, snapshot.ErrNotFound)

	state, err := c.Restore(ctx, "old-session")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", state.Form.Email)
	assert.Equal(t, 1050.0, state.Form.Total)
}

func TestRestoreRejectsSnapshotOfAnotherEvent(t *testing.T) {
	c, store, _ := newTestController(t, paidEvent(), &fakeAPI{})
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "free-session", snapshot.Snapshot{
		EventID: "ev-free",
		Form:    models.RegistrationForm{Email: "ada@example.com"},
	}))

	_, err := c.Restore(ctx, "free-session")
	assert.ErrorIs(t, err, ErrSnapshotMismatch)
	assert.Empty(t, c.State().Form.Email)
	assert.Equal(t, 1050.0, c.State().Form.Total)
}

func TestRestoreRecomputesAmounts(t *testing.T) {
	api := &fakeAPI{discounts: map[string]models.Discount{
		"USED":   {EntryID: "USED", EventID: "ev-1", DiscountPercentage: 100, Claimed: true},
		"SAVE20": {EntryID: "SAVE20", EventID: "ev-1", DiscountPercentage: 20},
	}}
	c, store, _ := newTestController(t, paidEvent(), api)
	ctx := context.Background()

	tampered := func(code string) snapshot.Snapshot {
		return snapshot.Snapshot{
			EventID: "ev-1",
			Form: models.RegistrationForm{
				Email:              "ada@example.com",
				DiscountCode:       code,
				DiscountPercentage: 100,
				TransactionFee:     1,
				Total:              1,
				PaymentMethod:      "E_WALLET",
				PaymentChannel:     "GCASH",
			},
		}
	}

	for _, code := range []string{"USED", "UNKNOWN"} {
		require.NoError(t, store.Save(ctx, "old-session", tampered(code)))

		state, err := c.Restore(ctx, "old-session")
		require.NoError(t, err, code)
		assert.Empty(t, state.Form.DiscountCode, code)
		assert.Zero(t, state.Form.DiscountPercentage, code)
		assert.Zero(t, state.Form.TransactionFee, code)
		assert.Equal(t, 1050.0, state.Form.Total, code)
		assert.True(t, state.PaymentButtonDisabled, code)
	}

	require.NoError(t, store.Save(ctx, "old-session", tampered("SAVE20")))
	state, err := c.Restore(ctx, "old-session")
	require.NoError(t, err)
	assert.Equal(t, "SAVE20", state.Form.DiscountCode)
	assert.Equal(t, 20.0, state.Form.DiscountPercentage)
	assert.Zero(t, state.Form.TransactionFee)
	assert.Equal(t, 850.0, state.Form.Total)
}

func TestApplyDiscountRollsBackWhenQuoteFails(t *testing.T) {
	api := &fakeAPI{
		fee:       30,
		discounts: map[string]models.Discount{"SAVE20": {EntryID: "SAVE20", EventID: "ev-1", DiscountPercentage: 20}},
	}
	c, _, _ := newTestController(t, paidEvent(), api)
	ctx := context.Background()

	merge(t, c, map[string]any{"paymentMethod": "E_WALLET", "paymentChannel": "GCASH"})
	before, err := c.QuoteFee(ctx)
	require.NoError(t, err)
	require.Equal(t, 1080.0, before.Form.Total)

	api.quoteErr = &external.APIError{StatusCode: http.StatusBadGateway}
	_, err = c.ApplyDiscount(ctx, "SAVE20")
	require.Error(t, err)

	after := c.State()
	assert.Empty(t, after.Form.DiscountCode)
	assert.Zero(t, after.Form.DiscountPercentage)
	assert.Equal(t, 30.0, after.Form.TransactionFee)
	assert.Equal(t, 1080.0, after.Form.Total)
	assert.False(t, after.PaymentButtonDisabled)

	api.quoteErr = nil
	state, err := c.ApplyDiscount(ctx, "SAVE20")
	require.NoError(t, err)
	assert.Equal(t, 880.0, state.Form.Total)
}

func TestUnpaidEventIgnoresPrice(t *testing.T) {
	event := models.Event{EventID: "ev-unpaid", Name: "Community Day", Status: models.EventStatusOpen, Price: 500, PlatformFee: 0.05}
	api := &fakeAPI{fee: 30}
	c, _, _ := newTestController(t, event, api)
	ctx := context.Background()

	merge(t, c, completeProfile())
	advanceTo(t, c, StepSummary)

	state := c.State()
	assert.True(t, state.Pricing.IsFree())
	assert.Zero(t, state.Form.Total)
	assert.False(t, state.PaymentButtonDisabled)
	assert.NotContains(t, state.RequiredFields, "paymentMethod")

	state, err := c.Submit(ctx)
	require.NoError(t, err)
	assert.Equal(t, OutcomeRegistered, state.Outcome)
	require.Len(t, api.registrations, 1)
	assert.Empty(t, api.registrations[0].PaymentMethod)
	assert.Empty(t, api.payments)
	assert.Empty(t, api.quotes)
}

func TestCapacityCheckFailure(t *testing.T) {
	api := &fakeAPI{countErr: &external.APIError{StatusCode: http.StatusServiceUnavailable}}
	c, _, _ := newTestController(t, freeEvent(), api)
	merge(t, c, completeProfile())

	_, err := c.Submit(context.Background())
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrRegistrationClosed))
	assert.False(t, c.State().IsSubmitting)
	assert.NotErrorIs(t, err, apperrors.ErrNotFound)
}
