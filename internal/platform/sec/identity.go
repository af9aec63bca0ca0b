// Copyright (c) 2026 Keystone Identity. All rights reserved.

package sec

// Identity represents the authenticated principal attached to a request.
//
// It carries only a reference (the normalized email) into the account store,
// never a copy of sensitive account fields.
type Identity struct {
	// Email is the normalized email the session is bound to.
	Email string

	// SessionToken is the opaque client token that resolved this identity.
	// Kept so that logout and deletion can destroy the exact session.
	SessionToken string

	// CSRFToken is the per-session anti-forgery token. Mutating protected
	// requests must echo it in the X-CSRF-Token header.
	CSRFToken string
}
