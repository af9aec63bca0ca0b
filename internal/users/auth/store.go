// Copyright (c) 2026 Keystone Identity. All rights reserved.

package auth

import "context"

// # Session Data Access

// SessionRepository defines the data access contract for session records.
//
// Records are addressed by tokenHash — the HMAC of the client token — so
// the store never sees a usable credential.
type SessionRepository interface {

	/*
		Create persists a new session record with the idle-timeout TTL.

		Parameters:
		  - context: context.Context
		  - tokenHash: string (HMAC of the client token)
		  - session: *Session

		Returns:
		  - error: Persistence failures
	*/
	Create(context context.Context, tokenHash string, session *Session) error

	/*
		Find returns the live session for a token hash.

		Parameters:
		  - context: context.Context
		  - tokenHash: string

		Returns:
		  - *Session: Hydrated record
		  - error: apperr.NotFound if absent or idle-expired, or store failures
	*/
	Find(context context.Context, tokenHash string) (*Session, error)

	/*
		Touch refreshes the idle-timeout TTL on an active session.

		Parameters:
		  - context: context.Context
		  - tokenHash: string

		Returns:
		  - error: Store failures
	*/
	Touch(context context.Context, tokenHash string) error

	/*
		Destroy removes a single session record. Destroying an absent
		session is not an error (logout is idempotent).

		Parameters:
		  - context: context.Context
		  - tokenHash: string

		Returns:
		  - error: Store failures
	*/
	Destroy(context context.Context, tokenHash string) error

	/*
		DestroyAllForEmail removes every live session bound to the email.
		Used by password reset and account deletion.

		Parameters:
		  - context: context.Context
		  - email: string (normalized)

		Returns:
		  - error: Store failures
	*/
	DestroyAllForEmail(context context.Context, email string) error
}
