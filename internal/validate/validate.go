// Package validate wraps go-playground/validator and converts its output
// into per-field message maps suitable for a 400 response body.
package validate

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

var v = newValidator()

func newValidator() *validator.Validate {
	val := validator.New(validator.WithRequiredStructEnabled())
	val.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return val
}

// FieldErrors maps a field name to the messages describing why it failed.
type FieldErrors map[string][]string

func (e FieldErrors) Error() string {
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(e))
	for _, field := range fields {
		parts = append(parts, field+": "+strings.Join(e[field], "; "))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// Struct validates s against its `validate` tags. On failure it returns a
// FieldErrors keyed by the json field names.
func Struct(s any) error {
	if err := v.Struct(s); err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return err
		}
		return fieldErrors(verrs)
	}
	return nil
}

// Var validates a single value under the given field name.
func Var(field string, value any, tag string) error {
	if err := v.Var(value, tag); err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return err
		}
		out := FieldErrors{}
		for _, fe := range verrs {
			out[field] = append(out[field], message(field, fe))
		}
		return out
	}
	return nil
}

func fieldErrors(verrs validator.ValidationErrors) FieldErrors {
	out := FieldErrors{}
	for _, fe := range verrs {
		field := fe.Field()
		out[field] = append(out[field], message(field, fe))
	}
	return out
}

func message(field string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("the %s field is required", field)
	case "min":
		if fe.Kind().String() == "string" {
			return fmt.Sprintf("the %s field must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("the %s field must be at least %s", field, fe.Param())
	case "max":
		if fe.Kind().String() == "string" {
			return fmt.Sprintf("the %s field may not be greater than %s characters", field, fe.Param())
		}
		return fmt.Sprintf("the %s field may not be greater than %s", field, fe.Param())
	case "email":
		return fmt.Sprintf("the %s field must be a valid email address", field)
	case "oneof":
		return fmt.Sprintf("the %s field must be one of %s", field, fe.Param())
	case "gt":
		return fmt.Sprintf("the %s field must be greater than %s", field, fe.Param())
	default:
		return fmt.Sprintf("the %s field is invalid", field)
	}
}
