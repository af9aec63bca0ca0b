// Copyright (c) 2026 Keystone Identity. All rights reserved.

// Package validate provides the pure input predicates for account data and a
// chainable Validator that collects field-level errors before returning a
// single [apperr.AppError].
//
// # Architecture
//
// This package is used exclusively in the service layer — never in handlers or
// storage. It ensures that business logic only operates on semantically valid data.
// All predicates are side-effect free: no I/O, no clock, no global state.
package validate

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"

	"github.com/keystoneid/keystone/internal/platform/apperr"
)

var (
	// emailRegex matches the local@domain.tld shape: a non-whitespace local
	// part and at least one dot-separated domain segment.
	emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

	// emailFolder performs Unicode case folding so that "A@B.com" and
	// "a@b.com" compare equal regardless of the input script.
	emailFolder = cases.Fold()

	// ErrInvalidJSON is returned when the request body cannot be decoded.
	ErrInvalidJSON = apperr.ValidationError("Invalid JSON payload")
)

// # Account Predicates

// NormalizeEmail trims surrounding whitespace and case-folds an email address.
//
// The same normalization is applied at storage time and at lookup time, so
// equality is consistent regardless of input casing.
func NormalizeEmail(email string) string {
	return emailFolder.String(strings.TrimSpace(email))
}

// IsEmail reports whether the input has a plausible email shape after
// normalization. It is deliberately loose beyond the local@domain.tld
// contract — deliverability is the mail system's problem, not ours.
func IsEmail(email string) bool {
	return emailRegex.MatchString(NormalizeEmail(email))
}

// IsStrongPassword reports whether a candidate password satisfies the
// strength policy: at least 8 characters, at least one letter, and at
// least one digit. Empty input is rejected.
func IsStrongPassword(password string) bool {
	if utf8.RuneCountInString(password) < 8 {
		return false
	}

	hasLetter := false
	hasDigit := false
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}

	return hasLetter && hasDigit
}

// # Chainable Validator

// Validator collects field-level validation errors via a fluent, chainable API.
//
// # Concurrency
//
// Validator is not safe for concurrent use. A new instance must be created
// for every request/operation.
type Validator struct {
	errs []apperr.FieldError
}

// Required fails if the trimmed value is empty.
func (v *Validator) Required(field, value string) *Validator {
	if strings.TrimSpace(value) == "" {
		v.add(field, "This field is required")
	}
	return v
}

// MaxLen fails if the Unicode character count exceeds max.
func (v *Validator) MaxLen(field, value string, max int) *Validator {
	if utf8.RuneCountInString(value) > max {
		v.add(field, fmt.Sprintf("Maximum %d characters", max))
	}
	return v
}

// MinLen fails if the Unicode character count is below min.
func (v *Validator) MinLen(field, value string, min int) *Validator {
	if utf8.RuneCountInString(value) < min {
		v.add(field, fmt.Sprintf("Minimum %d characters", min))
	}
	return v
}

// Email fails if the value does not satisfy [IsEmail].
func (v *Validator) Email(field, value string) *Validator {
	if !IsEmail(value) {
		v.add(field, "Must be a valid email address")
	}
	return v
}

// StrongPassword fails if the value does not satisfy [IsStrongPassword].
func (v *Validator) StrongPassword(field, value string) *Validator {
	if !IsStrongPassword(value) {
		v.add(field, "Must be at least 8 characters with at least one letter and one digit")
	}
	return v
}

// Custom adds a failure with a custom message if the condition is true.
//
// # Example
//
//	v.Custom("consent", !input.Consent, "Consent is required")
func (v *Validator) Custom(field string, failed bool, message string) *Validator {
	if failed {
		v.add(field, message)
	}
	return v
}

// Err returns a [apperr.AppError] (VALIDATION_ERROR) if any rules failed,
// or nil if all rules passed.
//
// This is the only output method — call it at the end of the chain.
func (v *Validator) Err() error {
	if len(v.errs) == 0 {
		return nil
	}
	return apperr.ValidationError("Validation failed", v.errs...)
}

// HasErrors reports whether any validation rule has failed so far.
func (v *Validator) HasErrors() bool {
	return len(v.errs) > 0
}

// add appends a [apperr.FieldError] to the internal slice.
func (v *Validator) add(field, message string) {
	v.errs = append(v.errs, apperr.FieldError{Field: field, Message: message})
}

// RequiredError is a shortcut to create a single-field validation error.
func RequiredError(field, message string) *apperr.AppError {
	return apperr.ValidationError("Validation failed", apperr.FieldError{
		Field:   field,
		Message: message,
	})
}
