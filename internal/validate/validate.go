// Package validate wraps go-playground/validator with strict JSON decoding
// and field-level error reporting. Every request body crosses this package
// before anything is persisted; unknown fields are rejected rather than
// silently dropped.
package validate

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// FieldErrors reports which fields of a request failed validation and why.
type FieldErrors struct {
	Fields map[string]string
}

func (e *FieldErrors) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s %s", field, msg))
	}
	return strings.Join(parts, "; ")
}

// Struct validates a value against its validator tags. On failure it
// returns a *FieldErrors keyed by the struct's JSON field names.
func Struct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[jsonFieldName(fe)] = messageForTag(fe)
	}
	return &FieldErrors{Fields: fields}
}

// DecodeStrict decodes the request body into dst, rejecting unknown
// fields, then validates the result.
func DecodeStrict(r *http.Request, dst any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return &FieldErrors{Fields: map[string]string{"body": "is not valid JSON for this request"}}
	}
	return Struct(dst)
}

func jsonFieldName(fe validator.FieldError) string {
	// Namespace is Struct.Field; lower-case the first rune to match the
	// camelCase JSON names used throughout the API.
	name := fe.Field()
	if name == "" {
		return "body"
	}
	return strings.ToLower(name[:1]) + name[1:]
}

func messageForTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return fmt.Sprintf("failed the '%s' rule", fe.Tag())
	}
}
