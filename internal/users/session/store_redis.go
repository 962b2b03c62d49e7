// Copyright (c) 2026 Bolgeo. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/bolgeo/internal/platform/apperr"
	"github.com/taibuivan/bolgeo/internal/platform/constants"
)

// Hash fields of a pending login code.
const (
	codeFieldHash     = "hash"
	codeFieldAttempts = "attempts"
)

// # Login Code Store

// RedisCodeStore implements [CodeStore] with one Redis hash per email.
type RedisCodeStore struct {
	client redis.UniversalClient
}

// NewCodeStore creates a new Redis-backed CodeStore.
func NewCodeStore(client redis.UniversalClient) *RedisCodeStore {
	return &RedisCodeStore{client: client}
}

func codeKey(email string) string {
	return constants.RedisPrefixLoginCode + email
}

// Save replaces the pending code for email.
func (store *RedisCodeStore) Save(context context.Context, email, codeHash string, ttl time.Duration) error {
	key := codeKey(email)

	_, err := store.client.TxPipelined(context, func(pipe redis.Pipeliner) error {
		pipe.Del(context, key)
		pipe.HSet(context, key, codeFieldHash, codeHash, codeFieldAttempts, 0)
		pipe.Expire(context, key, ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis_login_code_save_failed: %w", err)
	}
	return nil
}

// attemptScript bumps the attempt counter of an existing code and returns
// {hash, attempts}, or nil when no code is pending. A plain pipeline would
// recreate an expired key without a TTL.
var attemptScript = redis.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 0 then
	return false
end
local attempts = redis.call("HINCRBY", KEYS[1], ARGV[2], 1)
return {redis.call("HGET", KEYS[1], ARGV[1]), attempts}
`)

/*
Attempt increments the attempt counter and reads the stored hash atomically.

Returns:
  - string: bcrypt hash of the pending code
  - int64: attempts including this one
  - error: apperr.NotFound if no code is pending
*/
func (store *RedisCodeStore) Attempt(context context.Context, email string) (string, int64, error) {
	values, err := attemptScript.Run(context, store.client, []string{codeKey(email)}, codeFieldHash, codeFieldAttempts).Slice()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", 0, apperr.NotFound("Login code")
		}
		return "", 0, fmt.Errorf("redis_login_code_attempt_failed: %w", err)
	}

	if len(values) != 2 {
		return "", 0, fmt.Errorf("redis_login_code_attempt_failed: unexpected reply %v", values)
	}
	codeHash, _ := values[0].(string)
	attempts, _ := values[1].(int64)

	return codeHash, attempts, nil
}

// Delete removes the pending code for email.
func (store *RedisCodeStore) Delete(context context.Context, email string) error {
	if err := store.client.Del(context, codeKey(email)).Err(); err != nil {
		return fmt.Errorf("redis_login_code_delete_failed: %w", err)
	}
	return nil
}

// # Revocation Store

// RedisRevocationStore implements [RevocationStore] as a TTL'd deny-list.
type RedisRevocationStore struct {
	client redis.UniversalClient
}

// NewRevocationStore creates a new Redis-backed RevocationStore.
func NewRevocationStore(client redis.UniversalClient) *RedisRevocationStore {
	return &RedisRevocationStore{client: client}
}

// Revoke denies tokenID for ttl.
func (store *RedisRevocationStore) Revoke(context context.Context, tokenID string, ttl time.Duration) error {
	if err := store.client.Set(context, constants.RedisPrefixRevoked+tokenID, 1, ttl).Err(); err != nil {
		return fmt.Errorf("redis_token_revoke_failed: %w", err)
	}
	return nil
}

// IsRevoked reports whether tokenID is on the deny-list.
func (store *RedisRevocationStore) IsRevoked(context context.Context, tokenID string) (bool, error) {
	count, err := store.client.Exists(context, constants.RedisPrefixRevoked+tokenID).Result()
	if err != nil {
		return false, fmt.Errorf("redis_token_revoked_check_failed: %w", err)
	}
	return count > 0, nil
}
