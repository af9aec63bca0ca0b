// Copyright (c) 2026 Keystone Identity. All rights reserved.

/*
Package auth implements the session manager: credential verification,
session issuance, and the Anonymous → Authenticated lifecycle.

# Architecture

This layer is the "Truth" of the identity system:

  - Service: Orchestrates registration, login, logout, and password recovery.
  - SessionRepository: Abstracted interface for the Redis-backed session store.
  - Security: bcrypt credential hashing, HMAC-derived session lookup keys.

A session binds exactly one client token to exactly one account email at a
time; logout, expiry, and account deletion deterministically invalidate it.
*/
package auth

import "time"

// # Domain Entities

// Session is the server-side record behind one opaque client token.
//
// It holds only a reference (the normalized email) into the account store,
// never a copy of sensitive account fields.
type Session struct {
	// Email is the normalized email of the authenticated account.
	Email string `json:"email"`

	// CSRFToken is the per-session anti-forgery token, compared against the
	// X-CSRF-Token header on mutating protected requests.
	CSRFToken string `json:"csrf_token"`

	// IssuedAt anchors the absolute lifetime check.
	IssuedAt time.Time `json:"issued_at"`

	// ExpiresAt is the absolute ceiling; the idle timeout is enforced
	// separately by the store's record TTL.
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the session has passed its absolute lifetime.
//
// The idle timeout never reaches this check — an idle session simply
// vanishes from the store when its TTL lapses.
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// # Field Identifiers

// Global field names for validation in the authentication domain.
const (
	FieldEmail       = "email"
	FieldPassword    = "password"
	FieldNewPassword = "new_password"
	FieldCSRFToken   = "csrf_token"
	FieldMessage     = "message"
)
