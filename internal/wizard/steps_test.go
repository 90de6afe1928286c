package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFieldTableCoversEverySequenceStep(t *testing.T) {
	for _, step := range DefaultSteps {
		_, ok := FieldTable[step]
		assert.True(t, ok, "missing field table entry for %s", step)
	}
}

func TestFieldRules(t *testing.T) {
	paid := fieldRules{hasTicketTypes: true}
	assert.Equal(t, []string{"DiscountCode", "PaymentMethod", "PaymentChannel", "TransactionFee"},
		paid.fieldsFor(StepPaymentAndVerification))
	assert.Equal(t, []string{"TicketType"}, paid.fieldsFor(StepEventDetails))

	free := fieldRules{noPayment: true}
	assert.Equal(t, []string{"DiscountCode"}, free.fieldsFor(StepPaymentAndVerification))
	assert.Empty(t, free.fieldsFor(StepEventDetails))

	tracked := free.trackedFields(DefaultSteps)
	assert.Contains(t, tracked, "Email")
	assert.NotContains(t, tracked, "PaymentMethod")
	assert.NotContains(t, tracked, "TicketType")
}

func TestTerminalSteps(t *testing.T) {
	assert.True(t, StepSuccess.Terminal())
	assert.True(t, StepRegistrationClosed.Terminal())
	assert.False(t, StepSummary.Terminal())
}

func TestJSONName(t *testing.T) {
	assert.Equal(t, "validIdObjectKey", jsonName("ValidIDObjectKey"))
	assert.Equal(t, "email", jsonName("Email"))
	assert.Equal(t, "Unknown", jsonName("Unknown"))
}
