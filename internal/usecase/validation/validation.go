// Package validation adapts go-playground/validator failures into the
// application's field-level ValidationError.
package validation

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "book-catalog/pkg/errors"
)

// New returns a validator that reports fields by their json name.
func New() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return strings.ToLower(f.Name)
		}
		return name
	})
	return v
}

// Struct validates s and converts any failures into *apperrors.ValidationError.
// Fields are reported in declaration order, one message per field.
func Struct(v *validator.Validate, s any) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	return Format(err)
}

// Format converts validator.ValidationErrors into a human-readable ValidationError.
// Other errors are returned unchanged.
func Format(err error) error {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	out := &apperrors.ValidationError{}
	for _, e := range validationErrors {
		var msg string
		switch e.Tag() {
		case "required":
			msg = fmt.Sprintf("%s is required", e.Field())
		case "email":
			msg = fmt.Sprintf("%s must be a valid email", e.Field())
		case "min":
			msg = fmt.Sprintf("%s must be at least %s characters", e.Field(), e.Param())
		case "max":
			msg = fmt.Sprintf("%s must be at most %s characters", e.Field(), e.Param())
		default:
			msg = fmt.Sprintf("%s is invalid", e.Field())
		}
		out.Fields = append(out.Fields, apperrors.FieldError{Field: e.Field(), Message: msg})
	}
	return out
}
