// Copyright (c) 2026 Keystone Identity. All rights reserved.

package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keystoneid/keystone/internal/platform/apperr"
	"github.com/keystoneid/keystone/internal/platform/validate"
)

/*
TestIsEmail checks the email shape predicate.
*/
func TestIsEmail(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		isValid bool
	}{
		{"minimal_valid", "a@b.co", true},
		{"typical_valid", "member@keystone.id", true},
		{"uppercase_and_padding", "  Member@Keystone.ID  ", true},
		{"missing_tld", "a@b", false},
		{"space_in_local_part", "a b@c.com", false},
		{"empty", "", false},
		{"missing_at", "keystone.id", false},
		{"missing_local_part", "@keystone.id", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.isValid, validate.IsEmail(tt.email))
		})
	}
}

/*
TestIsStrongPassword checks the password strength policy.
*/
func TestIsStrongPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		isStrong bool
	}{
		{"letters_and_digits", "abcd1234", true},
		{"letters_only", "abcdefgh", false},
		{"digits_only", "12345678", false},
		{"empty", "", false},
		{"too_short", "ab1", false},
		{"long_mixed", "correct horse 42", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.isStrong, validate.IsStrongPassword(tt.password))
		})
	}
}

/*
TestNormalizeEmail verifies trim + case-fold normalization.
*/
func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "a@b.com", validate.NormalizeEmail("A@B.com"))
	assert.Equal(t, "a@b.com", validate.NormalizeEmail("  a@b.COM\n"))
	assert.Equal(t, validate.NormalizeEmail("A@B.com"), validate.NormalizeEmail("a@b.com"))
}

/*
TestValidator_Required tests the mandatory field validation logic.
*/
func TestValidator_Required(t *testing.T) {
	tests := []struct {
		name     string
		field    string
		value    string
		hasError bool
	}{
		{"valid_string", "full_name", "Ada Lovelace", false},
		{"empty_string", "full_name", "", true},
		{"whitespace_only", "full_name", "   ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.Required(tt.field, tt.value)

			if tt.hasError {
				assert.True(t, v.HasErrors())
				err := v.Err()
				require.NotNil(t, err)

				ae := apperr.As(err)
				require.NotNil(t, ae)
				assert.Equal(t, "VALIDATION_ERROR", ae.Code)
				assert.Equal(t, tt.field, ae.Details[0].Field)
			} else {
				assert.False(t, v.HasErrors())
				assert.Nil(t, v.Err())
			}
		})
	}
}

/*
TestValidator_Chain tests the fluent API (chaining multiple rules).
*/
func TestValidator_Chain(t *testing.T) {
	v := &validate.Validator{}

	err := v.
		Required("full_name", "Ada Lovelace").
		MaxLen("full_name", "Ada Lovelace", 100).
		Email("email", "ada@keystone.id").
		StrongPassword("password", "engine1843").
		Err()

	assert.NoError(t, err)
	assert.False(t, v.HasErrors())
}

/*
TestValidator_Chain_Failure tests error accumulation in the chain.
*/
func TestValidator_Chain_Failure(t *testing.T) {
	v := &validate.Validator{}

	err := v.
		Required("full_name", "").            // Fails
		Email("email", "not-an-email").       // Fails
		StrongPassword("password", "short1"). // Fails
		Err()

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)

	// Should accumulate all 3 errors
	assert.Len(t, ae.Details, 3)
}
