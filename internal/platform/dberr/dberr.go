// Copyright (c) 2026 Keystone Identity. All rights reserved.

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
//
// # Classification
//
// Every storage failure leaving a repository is classified here:
//
//   - missing row          → NOT_FOUND
//   - unique violation     → CONFLICT (duplicate key)
//   - timeout / dead conn  → SERVICE_UNAVAILABLE (fail fast, no partial write)
//   - anything else        → INTERNAL (cause logged server-side only)
package dberr

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/keystoneid/keystone/internal/platform/apperr"
)

// PostgreSQL SQLSTATE classes we care about.
const (
	// codeUniqueViolation is SQLSTATE 23505 (unique_violation).
	codeUniqueViolation = "23505"
)

// Wrap inspects a database error and wraps it into a meaningful [apperr.AppError].
// It hides internal database details from the client while classifying the error type.
//
// # Parameters
//   - err: The raw error from pgx.
//   - resource: Client-facing name of the entity being operated on (e.g. "Account").
func Wrap(err error, resource string) error {
	if err == nil {
		return nil
	}

	// 1. Missing row
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound(resource)
	}

	// 2. Unique-constraint violation: the insert failed atomically, nothing
	// was written.
	var pgError *pgconn.PgError
	if errors.As(err, &pgError) && pgError.Code == codeUniqueViolation {
		return apperr.Conflict(resource + " already exists")
	}

	// 3. Timeouts and cancelled contexts mean the storage backend could not
	// answer inside the deadline. Surface as unavailable so operators see it.
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return apperr.ServiceUnavailable(err)
	}

	// 4. Unknown query errors become Internal Server Errors.
	return apperr.Internal(fmt.Errorf("dberr: %s: %w", resource, err))
}

// IsDuplicate reports whether err is a unique-constraint violation, before
// or after wrapping.
func IsDuplicate(err error) bool {
	var pgError *pgconn.PgError
	if errors.As(err, &pgError) && pgError.Code == codeUniqueViolation {
		return true
	}

	ae := apperr.As(err)
	return ae != nil && ae.Code == "CONFLICT"
}
