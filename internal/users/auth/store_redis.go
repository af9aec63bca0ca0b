// Copyright (c) 2026 Keystone Identity. All rights reserved.

package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/keystoneid/keystone/internal/platform/apperr"
	"github.com/keystoneid/keystone/internal/platform/constants"
)

// # Session Repository (Redis)

// RedisSessionRepository implements SessionRepository using Redis.
//
// # Layout
//
//   - auth:session:<tokenHash>        → JSON session record, TTL = idle timeout
//   - auth:session:email:<email>      → SET of token hashes, TTL = max lifetime
//
// The per-email index is what makes "destroy every session for this account"
// a handful of key deletes instead of a scan.
type RedisSessionRepository struct {
	client *redis.Client
}

// NewSessionRepository creates a new Redis-backed SessionRepository.
func NewSessionRepository(client *redis.Client) *RedisSessionRepository {
	return &RedisSessionRepository{client: client}
}

// sessionKey builds the record key for a token hash.
func sessionKey(tokenHash string) string {
	return constants.RedisPrefixSession + tokenHash
}

// emailIndexKey builds the per-email index key.
func emailIndexKey(email string) string {
	return constants.RedisPrefixSession + "email:" + email
}

/*
Create stores the session record and registers it in the per-email index.

Parameters:
  - context: context.Context
  - tokenHash: string
  - session: *Session

Returns:
  - error: Marshalling or store failures
*/
func (repository *RedisSessionRepository) Create(context context.Context, tokenHash string, session *Session) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("redis_session_marshal_failed: %w", err)
	}

	pipe := repository.client.TxPipeline()
	pipe.Set(context, sessionKey(tokenHash), payload, constants.SessionIdleTimeout)
	pipe.SAdd(context, emailIndexKey(session.Email), tokenHash)
	pipe.Expire(context, emailIndexKey(session.Email), constants.SessionMaxLifetime)

	if _, err := pipe.Exec(context); err != nil {
		return fmt.Errorf("redis_session_create_failed: %w", err)
	}

	return nil
}

/*
Find retrieves a live session record by token hash.

Description: An idle-expired session has already been evicted by Redis and
surfaces as apperr.NotFound here.

Parameters:
  - context: context.Context
  - tokenHash: string

Returns:
  - *Session: Hydrated record
  - error: apperr.NotFound or connectivity errors
*/
func (repository *RedisSessionRepository) Find(context context.Context, tokenHash string) (*Session, error) {
	payload, err := repository.client.Get(context, sessionKey(tokenHash)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperr.NotFound("Session")
		}
		return nil, fmt.Errorf("redis_session_get_failed: %w", err)
	}

	session := &Session{}
	if err := json.Unmarshal(payload, session); err != nil {
		return nil, fmt.Errorf("redis_session_unmarshal_failed: %w", err)
	}

	return session, nil
}

/*
Touch resets the idle-timeout TTL on an active session record.

Parameters:
  - context: context.Context
  - tokenHash: string

Returns:
  - error: Store failures
*/
func (repository *RedisSessionRepository) Touch(context context.Context, tokenHash string) error {
	if err := repository.client.Expire(context, sessionKey(tokenHash), constants.SessionIdleTimeout).Err(); err != nil {
		return fmt.Errorf("redis_session_touch_failed: %w", err)
	}
	return nil
}

/*
Destroy removes one session record and its index membership.

Description: Idempotent — destroying an already-absent session succeeds.

Parameters:
  - context: context.Context
  - tokenHash: string

Returns:
  - error: Store failures
*/
func (repository *RedisSessionRepository) Destroy(context context.Context, tokenHash string) error {

	// Look up the record to learn which email index to clean. A missing
	// record still gets the key delete below (no-op).
	session, err := repository.Find(context, tokenHash)
	if err == nil {
		_ = repository.client.SRem(context, emailIndexKey(session.Email), tokenHash).Err()
	}

	if err := repository.client.Del(context, sessionKey(tokenHash)).Err(); err != nil {
		return fmt.Errorf("redis_session_destroy_failed: %w", err)
	}

	return nil
}

/*
DestroyAllForEmail removes every session registered for the email.

Parameters:
  - context: context.Context
  - email: string (normalized)

Returns:
  - error: Store failures
*/
func (repository *RedisSessionRepository) DestroyAllForEmail(context context.Context, email string) error {
	indexKey := emailIndexKey(email)

	tokenHashes, err := repository.client.SMembers(context, indexKey).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("redis_session_index_read_failed: %w", err)
	}

	keys := make([]string, 0, len(tokenHashes)+1)
	for _, tokenHash := range tokenHashes {
		keys = append(keys, sessionKey(tokenHash))
	}
	keys = append(keys, indexKey)

	if err := repository.client.Del(context, keys...).Err(); err != nil {
		return fmt.Errorf("redis_session_destroy_all_failed: %w", err)
	}

	return nil
}
