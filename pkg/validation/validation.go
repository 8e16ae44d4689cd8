// Package validation wraps go-playground/validator with JSON field naming and
// readable error messages for request bodies.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// New creates a validator that reports fields by their JSON names.
func New() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Messages maps a validation tag to the message reported for it.
type Messages map[string]string

// Error flattens validator errors into one error of the form
// "field: message; field: message". Other errors are returned unchanged.
func Error(err error, messages Messages) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msg, ok := messages[fe.Tag()]
		if !ok {
			msg = defaultMessage(fe)
		}
		parts = append(parts, fe.Field()+": "+msg)
	}
	return errors.New(strings.Join(parts, "; "))
}

func defaultMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "uuid", "uuid4":
		return "must be a UUID"
	case "oneof":
		return fmt.Sprintf("must be one of [%s]", fe.Param())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
