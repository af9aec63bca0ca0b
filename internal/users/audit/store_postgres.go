// Copyright (c) 2026 Keystone Identity. All rights reserved.

package audit

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/keystoneid/keystone/internal/platform/dberr"
	"github.com/keystoneid/keystone/pkg/uuid"
)

// # Audit Repository

// PostgresRepository implements the Repository interface using pgx.
//
// The users.audit_log table carries no UPDATE or DELETE path anywhere in the
// codebase; inserts are the only write.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL implementation of the audit Repository.
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

/*
Record appends one entry to the users.audit_log table.

Description: Single-statement insert, atomic by construction. ID and
CreatedAt are assigned server-side if the caller left them zero.

Parameters:
  - context: context.Context
  - entry: *Entry

Returns:
  - error: Classified storage failure (never swallowed)
*/
func (repository *PostgresRepository) Record(context context.Context, entry *Entry) error {
	const query = `
		INSERT INTO users.audit_log (id, event, email, ip, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	if entry.ID == "" {
		entry.ID = uuid.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	_, err := repository.pool.Exec(context, query,
		entry.ID,
		entry.Event,
		entry.Email,
		entry.IPAddress,
		entry.CreatedAt,
	)

	if err != nil {
		return dberr.Wrap(err, "Audit entry")
	}

	return nil
}

/*
RecentByEmail retrieves the newest entries for an email.

Description: Descending created_at scan capped at limit, backed by the
(email, created_at) index.

Parameters:
  - context: context.Context
  - email: string
  - limit: int

Returns:
  - []Entry: Newest first
  - error: Classified storage failure
*/
func (repository *PostgresRepository) RecentByEmail(context context.Context, email string, limit int) ([]Entry, error) {
	const query = `
		SELECT id, event, email, ip, created_at
		FROM users.audit_log
		WHERE email = $1
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := repository.pool.Query(context, query, email, limit)
	if err != nil {
		return nil, dberr.Wrap(err, "Audit entries")
	}
	defer rows.Close()

	entries := make([]Entry, 0, limit)
	for rows.Next() {
		var entry Entry
		if err := rows.Scan(&entry.ID, &entry.Event, &entry.Email, &entry.IPAddress, &entry.CreatedAt); err != nil {
			return nil, dberr.Wrap(err, "Audit entries")
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "Audit entries")
	}

	return entries, nil
}

/*
ListByEmail retrieves one page of entries for an email plus the total count.

Parameters:
  - context: context.Context
  - email: string
  - limit: int
  - offset: int

Returns:
  - []Entry: One page, newest first
  - int: Total entries for this email
  - error: Classified storage failure
*/
func (repository *PostgresRepository) ListByEmail(context context.Context, email string, limit, offset int) ([]Entry, int, error) {
	const countQuery = `SELECT COUNT(*) FROM users.audit_log WHERE email = $1`

	var total int
	if err := repository.pool.QueryRow(context, countQuery, email).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "Audit entries")
	}

	const pageQuery = `
		SELECT id, event, email, ip, created_at
		FROM users.audit_log
		WHERE email = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := repository.pool.Query(context, pageQuery, email, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "Audit entries")
	}
	defer rows.Close()

	entries := make([]Entry, 0, limit)
	for rows.Next() {
		var entry Entry
		if err := rows.Scan(&entry.ID, &entry.Event, &entry.Email, &entry.IPAddress, &entry.CreatedAt); err != nil {
			return nil, 0, dberr.Wrap(err, "Audit entries")
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "Audit entries")
	}

	return entries, total, nil
}
