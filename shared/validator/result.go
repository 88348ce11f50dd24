package validator

import (
	"strings"

	"todoapi/shared/failure"
)

// Result collects the field errors found while checking a value.
// The zero value is a successful result.
type Result struct {
	Fields []failure.FieldError
}

func (r *Result) Add(field, rule, msg string) {
	r.Fields = append(r.Fields, failure.FieldError{
		Field:   field,
		Rule:    rule,
		Message: msg,
	})
}

func (r Result) Valid() bool {
	return len(r.Fields) == 0
}

// Err returns nil for a valid result, otherwise a bad request failure listing every field.
func (r Result) Err() error {
	if r.Valid() {
		return nil
	}

	return failure.Validation(r.Fields) //nolint:wrapcheck
}

// RequireString records a required error when value is empty or only whitespace.
func (r *Result) RequireString(field, value string) {
	if strings.TrimSpace(value) == "" {
		r.Add(field, "required", field+" is required")
	}
}

// RequireNonNegative records a gte error when value is below zero.
func (r *Result) RequireNonNegative(field string, value int64) {
	if value < 0 {
		r.Add(field, "gte", field+" must be greater than or equal to 0")
	}
}
