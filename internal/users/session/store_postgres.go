// Copyright (c) 2026 Bolgeo. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/bolgeo/internal/platform/database/schema"
	"github.com/taibuivan/bolgeo/internal/platform/dberr"
	"github.com/taibuivan/bolgeo/pkg/uuid"
)

// PostgresUserRepository implements [UserRepository] using pgx.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new PostgreSQL implementation of the UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

var userColumns = fmt.Sprintf("%s, %s, %s, %s",
	schema.Users.ID, schema.Users.Email, schema.Users.CreatedAt, schema.Users.LastLoginAt)

func scanUser(row pgx.Row) (*User, error) {
	var user User
	if err := row.Scan(&user.ID, &user.Email, &user.CreatedAt, &user.LastLoginAt); err != nil {
		return nil, err
	}
	return &user, nil
}

/*
UpsertByEmail inserts a new account or stamps last_login_at on the existing one.

Description: The conflict target is the case-insensitive unique index on
email, so "Reader@x" and "reader@x" resolve to the same account.

Parameters:
  - context: context.Context
  - email: string (already normalized)

Returns:
  - *User: The stored account
  - error: Wrapped database errors
*/
func (repository *PostgresUserRepository) UpsertByEmail(context context.Context, email string) (*User, error) {
	query := fmt.Sprintf(`
		INSERT INTO %[1]s (%[2]s, %[3]s, %[4]s, %[5]s)
		VALUES ($1, $2, NOW(), NOW())
		ON CONFLICT (lower(%[3]s)) DO UPDATE SET %[5]s = NOW()
		RETURNING %[6]s`,
		schema.Users.Table,
		schema.Users.ID, schema.Users.Email, schema.Users.CreatedAt, schema.Users.LastLoginAt,
		userColumns,
	)

	user, err := scanUser(repository.pool.QueryRow(context, query, uuid.New(), email))
	if err != nil {
		return nil, dberr.Wrap(err, "upsert_user")
	}
	return user, nil
}

// FindByID returns the account with the given id.
func (repository *PostgresUserRepository) FindByID(context context.Context, id string) (*User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		userColumns, schema.Users.Table, schema.Users.ID)

	user, err := scanUser(repository.pool.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "find_user")
	}
	return user, nil
}
