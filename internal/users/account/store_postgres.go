// Copyright (c) 2026 Keystone Identity. All rights reserved.

// PostgreSQL implementation of the account storage layer.
//
// # Error Mapping
//
// Storage-specific errors (pgx.ErrNoRows, SQLSTATE 23505) are mapped to
// domain-friendly [apperr.AppError] types via dberr to avoid leaking storage
// implementation details.
package account

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/keystoneid/keystone/internal/platform/apperr"
	"github.com/keystoneid/keystone/internal/platform/dberr"
	"github.com/keystoneid/keystone/pkg/uuid"
)

// # User Repository

// PostgresUserRepository implements the UserRepository interface using pgx.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new PostgreSQL implementation of the UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

/*
Create persists a new user record into the users.account table.

Description: Single INSERT guarded by the unique email constraint. A
duplicate email aborts the statement atomically — no partial write.

Parameters:
  - context: context.Context
  - user: *User (Entity to persist)

Returns:
  - error: Conflict on duplicate email, or classified storage failures
*/
func (repository *PostgresUserRepository) Create(context context.Context, user *User) error {
	const query = `
		INSERT INTO users.account (
			id, full_name, email, phone, password_hash, consent, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)`

	if user.ID == "" {
		user.ID = uuid.New()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}

	_, err := repository.pool.Exec(context, query,
		user.ID,
		user.FullName,
		user.Email,
		user.Phone,
		user.PasswordHash,
		user.Consent,
		user.CreatedAt,
	)

	if err != nil {
		if dberr.IsDuplicate(err) {
			return apperr.Conflict("Email is already registered")
		}
		return dberr.Wrap(err, "Account")
	}

	return nil
}

/*
FindByEmail retrieves a user record by their unique email address.

Parameters:
  - context: context.Context
  - email: string (normalized)

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or classified storage failures
*/
func (repository *PostgresUserRepository) FindByEmail(context context.Context, email string) (*User, error) {
	const query = `
		SELECT id, full_name, email, phone, password_hash, consent, created_at, last_login
		FROM users.account
		WHERE email = $1`

	user := &User{}
	err := repository.pool.QueryRow(context, query, email).Scan(
		&user.ID,
		&user.FullName,
		&user.Email,
		&user.Phone,
		&user.PasswordHash,
		&user.Consent,
		&user.CreatedAt,
		&user.LastLogin,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Account")
		}
		return nil, dberr.Wrap(err, "Account")
	}

	return user, nil
}

/*
UpdatePassword updates only the password hash for a specific account.

Parameters:
  - context: context.Context
  - email: string (normalized)
  - newHash: string

Returns:
  - error: apperr.NotFound if no row matched, or classified storage failures
*/
func (repository *PostgresUserRepository) UpdatePassword(context context.Context, email, newHash string) error {
	const query = `
		UPDATE users.account
		SET password_hash = $2
		WHERE email = $1`

	tag, err := repository.pool.Exec(context, query, email, newHash)
	if err != nil {
		return dberr.Wrap(err, "Account")
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Account")
	}

	return nil
}

/*
TouchLastLogin sets last_login to the current server time.

Description: Single-row UPDATE, atomic with respect to concurrent reads —
a reader observes either the old or the new timestamp, never a torn record.

Parameters:
  - context: context.Context
  - email: string (normalized)

Returns:
  - error: Classified storage failures
*/
func (repository *PostgresUserRepository) TouchLastLogin(context context.Context, email string) error {
	const query = `
		UPDATE users.account
		SET last_login = NOW()
		WHERE email = $1`

	_, err := repository.pool.Exec(context, query, email)
	if err != nil {
		return dberr.Wrap(err, "Account")
	}

	return nil
}

/*
Delete removes the user record by email.

Description: Hard delete. The users.audit_log table keeps its entries for
this email — that trail is the only durable trace of the account afterwards.

Parameters:
  - context: context.Context
  - email: string (normalized)

Returns:
  - error: apperr.NotFound if no row matched, or classified storage failures
*/
func (repository *PostgresUserRepository) Delete(context context.Context, email string) error {
	const query = "DELETE FROM users.account WHERE email = $1"

	tag, err := repository.pool.Exec(context, query, email)
	if err != nil {
		return dberr.Wrap(err, "Account")
	}

	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Account")
	}

	return nil
}
