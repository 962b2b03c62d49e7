// Copyright (c) 2026 Bolgeo. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package session implements passwordless sign-in for readers.

A reader asks for a one-time code by email, exchanges the code for an RS256
access token and may revoke that token on logout. Accounts are created on the
first successful verification.

# Architecture

  - Service: login, logout and token verification use cases.
  - UserRepository: PostgreSQL store of reader accounts.
  - CodeStore, RevocationStore: Redis-backed short-lived state.
*/
package session

import "time"

// # Domain Entities

// User is a reader account. The email is the only identity attribute.
type User struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	CreatedAt   time.Time  `json:"created_at"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

// Login is the result of a successful code verification.
type Login struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
	User        *User  `json:"user"`
}

// # Field Identifiers

const (
	FieldEmail = "email"
	FieldCode  = "code"
)
