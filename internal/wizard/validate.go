package wizard

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"ticketdesk/internal/models"
)

var formValidator = newFormValidator()

func newFormValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// validateFields checks the named RegistrationForm fields and reports
// failures keyed by JSON field name
func validateFields(step Step, form models.RegistrationForm, fields []string) error {
	if len(fields) == 0 {
		return nil
	}

	err := formValidator.StructPartial(form, fields...)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("failed to validate form: %w", err)
	}

	details := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		details[fe.Field()] = fieldMessage(fe)
	}
	return &ValidationError{Step: step, Fields: details}
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_if":
		return "This field is required"
	case "email":
		return "Enter a valid email address"
	case "min":
		return fmt.Sprintf("Must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("Must be at most %s characters", fe.Param())
	case "oneof":
		return fmt.Sprintf("Must be one of: %s", fe.Param())
	case "gt":
		return "Select a payment channel to get the transaction fee"
	default:
		return fmt.Sprintf("Failed on %s", fe.Tag())
	}
}

var formType = reflect.TypeOf(models.RegistrationForm{})

// jsonName maps a RegistrationForm struct field to its JSON name
func jsonName(field string) string {
	f, ok := formType.FieldByName(field)
	if !ok {
		return field
	}
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	if name == "" {
		return field
	}
	return name
}
