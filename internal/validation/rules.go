// Package validation provides the input checks handlers run before
// any network call is made.
package validation

import (
	"fmt"
	"strings"
)

// FieldError is a single failed precondition on caller input.
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validator accumulates field errors across chained checks.
type Validator struct {
	errors []FieldError
}

func New() *Validator {
	return &Validator{}
}

// Required validates that a field is not empty.
func (v *Validator) Required(field, value string) *Validator {
	if strings.TrimSpace(value) == "" {
		v.errors = append(v.errors, FieldError{
			Field:   field,
			Message: "is required",
		})
	}
	return v
}

// MinLength validates minimum string length.
func (v *Validator) MinLength(field, value string, min int) *Validator {
	if len(strings.TrimSpace(value)) < min {
		v.errors = append(v.errors, FieldError{
			Field:   field,
			Message: fmt.Sprintf("must be at least %d characters", min),
		})
	}
	return v
}

// MaxLength validates maximum string length.
func (v *Validator) MaxLength(field, value string, max int) *Validator {
	if len(value) > max {
		v.errors = append(v.errors, FieldError{
			Field:   field,
			Message: fmt.Sprintf("must be no more than %d characters", max),
		})
	}
	return v
}

// Email validates email shape (basic check, the store accepts anything).
func (v *Validator) Email(field, value string) *Validator {
	if value != "" && !strings.Contains(value, "@") {
		v.errors = append(v.errors, FieldError{
			Field:   field,
			Message: "must be a valid email address",
		})
	}
	return v
}

// OneOf validates membership in an allowed set; empty values pass so
// Required can report them instead.
func (v *Validator) OneOf(field, value string, allowed ...string) *Validator {
	if value == "" {
		return v
	}
	for _, a := range allowed {
		if value == a {
			return v
		}
	}
	v.errors = append(v.errors, FieldError{
		Field:   field,
		Message: fmt.Sprintf("must be one of: %s", strings.Join(allowed, ", ")),
	})
	return v
}

// Equals validates that two fields carry the same value (password
// confirmation and the like).
func (v *Validator) Equals(field, value, other string) *Validator {
	if value != other {
		v.errors = append(v.errors, FieldError{
			Field:   field,
			Message: "does not match",
		})
	}
	return v
}

func (v *Validator) HasErrors() bool {
	return len(v.errors) > 0
}

func (v *Validator) Errors() []FieldError {
	return v.errors
}

// Messages returns the errors as plain strings for a response body.
func (v *Validator) Messages() []string {
	out := make([]string, len(v.errors))
	for i, e := range v.errors {
		out[i] = e.Error()
	}
	return out
}

// FirstError returns the first error message or "" when clean.
func (v *Validator) FirstError() string {
	if len(v.errors) > 0 {
		return v.errors[0].Error()
	}
	return ""
}
