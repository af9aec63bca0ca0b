// Copyright (c) 2026 Keystone Identity. All rights reserved.

/*
Package audit implements the append-only security event log.

Every security-relevant action (registration, login, logout, password reset,
account deletion) produces exactly one entry keyed by the account email.

# Durability

Entries are never updated or deleted once written. They deliberately outlive
the account they reference: after deletion, the audit trail is the only
durable trace of the account's prior activity. There is no foreign key into
the account table, so entries may dangle.
*/
package audit

import "time"

// # Event Taxonomy

// Event enumerates the recordable security event kinds.
type Event string

const (
	EventRegisterSuccess      Event = "REGISTER_SUCCESS"
	EventLoginSuccess         Event = "LOGIN_SUCCESS"
	EventLoginFailed          Event = "LOGIN_FAILED"
	EventPasswordResetSuccess Event = "PASSWORD_RESET_SUCCESS"
	EventLogout               Event = "LOGOUT"
	EventAccountDeleted       Event = "ACCOUNT_DELETED"
)

// # Domain Entities

// Entry is an immutable record of one security-relevant event.
type Entry struct {
	ID string `json:"id"`

	// Event is the recorded event kind.
	Event Event `json:"event"`

	// Email references the account, which may have been deleted since.
	Email string `json:"email"`

	// IPAddress is the originating network address of the request.
	IPAddress string `json:"ip"`

	// CreatedAt is server-assigned at insert time.
	CreatedAt time.Time `json:"created_at"`
}
