package wizard

import "slices"

// Step is a page of the registration wizard
type Step string

const (
	StepEventDetails           Step = "EventDetails"
	StepUserBio                Step = "UserBio"
	StepPersonalInfo           Step = "PersonalInfo"
	StepPaymentAndVerification Step = "PaymentAndVerification"
	StepSummary                Step = "Summary"
	StepSuccess                Step = "Success"

	// StepRegistrationClosed is entered instead of Success when the event is full
	StepRegistrationClosed Step = "RegistrationClosed"
)

// DefaultSteps is the fixed order of the wizard
var DefaultSteps = []Step{
	StepEventDetails,
	StepUserBio,
	StepPersonalInfo,
	StepPaymentAndVerification,
	StepSummary,
	StepSuccess,
}

// Terminal reports whether no transition leaves the step
func (s Step) Terminal() bool {
	return s == StepSuccess || s == StepRegistrationClosed
}

// FieldTable lists the form fields validated before leaving each step.
// Names are RegistrationForm struct fields.
var FieldTable = map[Step][]string{
	StepEventDetails: {"TicketType"},
	StepUserBio: {
		"Email", "FirstName", "LastName", "Nickname", "Pronouns",
		"ContactNumber", "Organization", "JobTitle",
	},
	StepPersonalInfo: {
		"AvailTShirt", "ShirtType", "ShirtSize", "DietaryRestrictions",
		"AccessibilityNeeds", "ValidIDObjectKey",
	},
	StepPaymentAndVerification: {
		"DiscountCode", "PaymentMethod", "PaymentChannel", "TransactionFee",
	},
	StepSummary: {},
	StepSuccess: {},
}

// PaymentFields are dropped from validation when nothing is paid at submission
var PaymentFields = []string{"PaymentMethod", "PaymentChannel", "TransactionFee"}

// fieldRules decides which table fields apply to one registration
type fieldRules struct {
	noPayment      bool
	hasTicketTypes bool
}

func (r fieldRules) excluded(field string) bool {
	if r.noPayment && slices.Contains(PaymentFields, field) {
		return true
	}
	if !r.hasTicketTypes && field == "TicketType" {
		return true
	}
	return false
}

// fieldsFor returns the fields validated before leaving step
func (r fieldRules) fieldsFor(step Step) []string {
	fields := make([]string, 0, len(FieldTable[step]))
	for _, f := range FieldTable[step] {
		if !r.excluded(f) {
			fields = append(fields, f)
		}
	}
	return fields
}

// trackedFields returns every field validated on final submission
func (r fieldRules) trackedFields(steps []Step) []string {
	var fields []string
	for _, step := range steps {
		fields = append(fields, r.fieldsFor(step)...)
	}
	return fields
}
