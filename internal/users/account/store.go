// Copyright (c) 2026 Keystone Identity. All rights reserved.

package account

import "context"

// # User Data Access

// UserRepository defines the data access contract for user accounts.
//
// Every method takes a pre-normalized email; normalization happens once at
// the service boundary, not in storage.
type UserRepository interface {

	/*
		Create persists a brand-new user account to storage.

		A duplicate email fails the whole insert with a Conflict error —
		never a partial write.

		Parameters:
		  - context: context.Context
		  - user: *User

		Returns:
		  - error: Conflict on duplicate email, or classified storage failures
	*/
	Create(context context.Context, user *User) error

	/*
		FindByEmail returns the account with the given email.

		Parameters:
		  - context: context.Context
		  - email: string (normalized)

		Returns:
		  - *User: Hydrated entity
		  - error: NotFound or classified storage failures
	*/
	FindByEmail(context context.Context, email string) (*User, error)

	/*
		UpdatePassword replaces only the user's password hash.

		Parameters:
		  - context: context.Context
		  - email: string (normalized)
		  - newHash: string

		Returns:
		  - error: NotFound or classified storage failures
	*/
	UpdatePassword(context context.Context, email, newHash string) error

	/*
		TouchLastLogin sets last_login to the current time. Called only
		after successful credential verification.

		Parameters:
		  - context: context.Context
		  - email: string (normalized)

		Returns:
		  - error: Classified storage failures
	*/
	TouchLastLogin(context context.Context, email string) error

	/*
		Delete removes the user record. Audit entries referencing the
		email are deliberately left untouched.

		Parameters:
		  - context: context.Context
		  - email: string (normalized)

		Returns:
		  - error: NotFound or classified storage failures
	*/
	Delete(context context.Context, email string) error
}

// # Session Invalidation

// SessionInvalidator is the minimal slice of the session store this package
// needs: deleting an account must deterministically clear its sessions.
//
// Declared here (consumer side) so that account does not import the auth
// package, which already imports account.
type SessionInvalidator interface {

	/*
		DestroyAllForEmail removes every live session bound to the email.

		Parameters:
		  - context: context.Context
		  - email: string (normalized)

		Returns:
		  - error: Store failures
	*/
	DestroyAllForEmail(context context.Context, email string) error
}
