// Copyright (c) 2026 Keystone Identity. All rights reserved.

/*
Package account implements the user record store and the member-facing
profile surface (dashboard, profile, activity, deletion).

# Architecture

This layer exclusively owns User records. Emails are stored normalized
(trimmed, case-folded) and every lookup normalizes its input the same way,
so equality is consistent regardless of input casing.
*/
package account

import "time"

// # Domain Entities

// User represents a registered Keystone account.
type User struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`

	// Email is unique, stored normalized, and acts as the natural key for
	// session and audit linkage.
	Email string `json:"email"`

	// Phone is optional contact data.
	Phone string `json:"phone,omitempty"`

	// PasswordHash is the opaque bcrypt digest. Never the plaintext,
	// explicitly omitted from JSON.
	PasswordHash string `json:"-"`

	// Consent records whether the member accepted data processing.
	Consent bool `json:"consent"`

	// CreatedAt is immutable, set once at registration.
	CreatedAt time.Time `json:"created_at"`

	// LastLogin is updated on each successful login; nil before the first.
	LastLogin *time.Time `json:"last_login,omitempty"`
}

// # Field Identifiers

// Global field names for validation and identity mapping in the account domain.
const (
	FieldFullName    = "full_name"
	FieldEmail       = "email"
	FieldPhone       = "phone"
	FieldPassword    = "password"
	FieldNewPassword = "new_password"
	FieldConsent     = "consent"
)
