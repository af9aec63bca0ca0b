// Copyright (c) 2026 Keystone Identity. All rights reserved.

package audit

import "context"

// # Audit Data Access

// Repository defines the data access contract for the security event log.
type Repository interface {

	/*
		Record appends one entry with a server-assigned timestamp.

		The write either lands whole or not at all; a failure is returned
		explicitly so the caller can surface it to operators. Callers must
		never abort their primary operation because recording failed.

		Parameters:
		  - context: context.Context
		  - entry: *Entry (ID and CreatedAt are assigned here if zero)

		Returns:
		  - error: Persistence failures
	*/
	Record(context context.Context, entry *Entry) error

	/*
		RecentByEmail returns the most recent entries for an email,
		descending by creation time. Display purposes only — never used
		for authorization decisions.

		Parameters:
		  - context: context.Context
		  - email: string (normalized)
		  - limit: int

		Returns:
		  - []Entry: Newest first
		  - error: Retrieval failures
	*/
	RecentByEmail(context context.Context, email string, limit int) ([]Entry, error)

	/*
		ListByEmail returns one page of entries for an email, newest first,
		plus the total entry count for pagination metadata.

		Parameters:
		  - context: context.Context
		  - email: string (normalized)
		  - limit: int
		  - offset: int

		Returns:
		  - []Entry: One page, newest first
		  - int: Total entries for this email
		  - error: Retrieval failures
	*/
	ListByEmail(context context.Context, email string, limit, offset int) ([]Entry, int, error)
}
