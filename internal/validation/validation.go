package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/sudo-init-do/contactbook/internal/apperr"
)

var personNameRegex = regexp.MustCompile(`^[A-Za-z\s]+$`)

// New returns a validator that reports fields by their json names and knows
// the personname tag (letters and spaces only).
func New() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("personname", func(fl validator.FieldLevel) bool {
		return personNameRegex.MatchString(fl.Field().String())
	})
	return v
}

// Struct validates s and converts failures into a validation error.
func Struct(v *validator.Validate, s any) error {
	if err := v.Struct(s); err != nil {
		return apperr.Validation(Message(err))
	}
	return nil
}

// Message renders the first field failure in a client friendly form.
func Message(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return "invalid request"
	}
	fe := fieldErrs[0]
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("missing required %s field", field)
	case "email":
		return fmt.Sprintf("%q must be a valid email", field)
	case "min":
		return fmt.Sprintf("%q length must be at least %s characters long", field, fe.Param())
	case "max":
		return fmt.Sprintf("%q length must be less than or equal to %s characters long", field, fe.Param())
	case "alphanum":
		return fmt.Sprintf("%q must only contain alpha-numeric characters", field)
	case "personname":
		return fmt.Sprintf("%q must contain only letters and spaces", field)
	case "oneof":
		return fmt.Sprintf("%q must be one of [%s]", field, fe.Param())
	default:
		return fmt.Sprintf("%q is invalid", field)
	}
}
