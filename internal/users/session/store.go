// Copyright (c) 2026 Bolgeo. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"context"
	"time"
)

// # Repository Contracts

// UserRepository persists reader accounts.
type UserRepository interface {
	// UpsertByEmail returns the account for email, creating it on first use,
	// and stamps the login time.
	UpsertByEmail(context context.Context, email string) (*User, error)

	// FindByID returns apperr.NotFound when no account exists.
	FindByID(context context.Context, id string) (*User, error)
}

// CodeStore holds the hashed one-time login code of each email.
type CodeStore interface {
	// Save replaces any pending code for email and resets its attempt count.
	Save(context context.Context, email, codeHash string, ttl time.Duration) error

	// Attempt counts one verification attempt and returns the stored hash
	// with the attempts made so far. It returns apperr.NotFound when no code
	// is pending.
	Attempt(context context.Context, email string) (codeHash string, attempts int64, err error)

	// Delete removes the pending code.
	Delete(context context.Context, email string) error
}

// RevocationStore keeps the IDs of revoked tokens until they would expire.
type RevocationStore interface {
	Revoke(context context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(context context.Context, tokenID string) (bool, error)
}
