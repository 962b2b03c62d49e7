// Copyright (c) 2026 Bolgeo. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package preference

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/bolgeo/internal/platform/constants"
)

// Layout per reader:
//
//	users:preference:{id}       hash   email, review:{title} -> JSON Review
//	users:preference:{id}:seen  zset   title scored by insertion order
//
// Replaced lists are scored 0..n-1 and appended titles by Unix microseconds,
// so appends always sort after a replaced list.
const (
	fieldEmail   = "email"
	reviewPrefix = "review:"
)

// RedisStore implements [Store].
type RedisStore struct {
	client redis.UniversalClient
}

// NewRedisStore creates a new Redis-backed Store.
func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

func hashKey(userID string) string {
	return constants.RedisPrefixPreference + userID
}

func seenKey(userID string) string {
	return constants.RedisPrefixPreference + userID + ":seen"
}

// Get loads every preference of userID. A reader without state gets empty values.
func (store *RedisStore) Get(context context.Context, userID string) (*Preferences, error) {
	var fieldsCmd *redis.MapStringStringCmd
	var seenCmd *redis.StringSliceCmd

	_, err := store.client.Pipelined(context, func(pipe redis.Pipeliner) error {
		fieldsCmd = pipe.HGetAll(context, hashKey(userID))
		seenCmd = pipe.ZRange(context, seenKey(userID), 0, -1)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("redis_preference_get_failed: %w", err)
	}

	preferences := &Preferences{
		SeenList: seenCmd.Val(),
		Reviews:  make(map[string]Review),
	}

	for field, value := range fieldsCmd.Val() {
		if field == fieldEmail {
			preferences.Email = value
			continue
		}

		title, ok := strings.CutPrefix(field, reviewPrefix)
		if !ok {
			continue
		}

		var review Review
		if err := json.Unmarshal([]byte(value), &review); err != nil {
			// Skip entries written by an older layout.
			continue
		}
		preferences.Reviews[title] = review
	}

	return preferences, nil
}

// ReplaceSeen swaps the seen set atomically.
func (store *RedisStore) ReplaceSeen(context context.Context, userID string, titles []string) error {
	key := seenKey(userID)

	members := make([]redis.Z, len(titles))
	for i, title := range titles {
		members[i] = redis.Z{Score: float64(i), Member: title}
	}

	_, err := store.client.TxPipelined(context, func(pipe redis.Pipeliner) error {
		pipe.Del(context, key)
		if len(members) > 0 {
			pipe.ZAdd(context, key, members...)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis_preference_seen_replace_failed: %w", err)
	}
	return nil
}

// AddSeen appends title. An existing title keeps its position.
func (store *RedisStore) AddSeen(context context.Context, userID, title string) error {
	member := redis.Z{Score: float64(time.Now().UnixMicro()), Member: title}
	if err := store.client.ZAddNX(context, seenKey(userID), member).Err(); err != nil {
		return fmt.Errorf("redis_preference_seen_add_failed: %w", err)
	}
	return nil
}

// SeenList returns the seen titles in insertion order.
func (store *RedisStore) SeenList(context context.Context, userID string) ([]string, error) {
	titles, err := store.client.ZRange(context, seenKey(userID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis_preference_seen_get_failed: %w", err)
	}
	return titles, nil
}

// SetEmail remembers the sign-in address. An empty email forgets it.
func (store *RedisStore) SetEmail(context context.Context, userID, email string) error {
	var err error
	if email == "" {
		err = store.client.HDel(context, hashKey(userID), fieldEmail).Err()
	} else {
		err = store.client.HSet(context, hashKey(userID), fieldEmail, email).Err()
	}
	if err != nil {
		return fmt.Errorf("redis_preference_email_set_failed: %w", err)
	}
	return nil
}

// PutReview overwrites the cached review of title.
func (store *RedisStore) PutReview(context context.Context, userID, title string, review Review) error {
	payload, err := json.Marshal(review)
	if err != nil {
		return fmt.Errorf("redis_preference_review_encode_failed: %w", err)
	}

	if err := store.client.HSet(context, hashKey(userID), reviewPrefix+title, payload).Err(); err != nil {
		return fmt.Errorf("redis_preference_review_set_failed: %w", err)
	}
	return nil
}
