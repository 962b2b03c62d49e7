// Copyright (c) 2026 Bolgeo. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/taibuivan/bolgeo/internal/platform/apperr"
	"github.com/taibuivan/bolgeo/internal/platform/constants"
	"github.com/taibuivan/bolgeo/internal/platform/sec"
	"github.com/taibuivan/bolgeo/internal/platform/validate"
)

// # Contracts & Types

// TokenProvider signs and verifies access tokens.
type TokenProvider interface {
	GenerateAccessToken(userID, email string, timeToLive time.Duration) (string, *sec.AuthClaims, error)
	VerifyToken(token string) (*sec.AuthClaims, error)
}

var (
	errInvalidCode  = apperr.Unauthorized("Login code is invalid or expired")
	errInvalidToken = apperr.Unauthorized("Invalid or expired token")
	errRevokedToken = apperr.Unauthorized("Token has been revoked")
)

// Service implements reader sign-in use cases.
type Service struct {
	users   UserRepository
	codes   CodeStore
	revoked RevocationStore
	tokens  TokenProvider
	mailer  Mailer
	logger  *slog.Logger
}

// NewService constructs a new [Service] with necessary dependencies.
func NewService(
	users UserRepository,
	codes CodeStore,
	revoked RevocationStore,
	tokens TokenProvider,
	mailer Mailer,
	logger *slog.Logger,
) *Service {
	return &Service{
		users:   users,
		codes:   codes,
		revoked: revoked,
		tokens:  tokens,
		mailer:  mailer,
		logger:  logger,
	}
}

// NormalizeEmail trims and lower-cases an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// # Login Flow

/*
RequestLogin issues a fresh one-time code for email.

Description: Only the bcrypt hash of the code is stored. A new request
replaces any code still pending for the same address.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - error: Validation or delivery errors
*/
func (service *Service) RequestLogin(context context.Context, email string) error {
	email = NormalizeEmail(email)
	if err := (&validate.Validator{}).Email(FieldEmail, email).Err(); err != nil {
		return err
	}

	code, err := sec.NumericCode(constants.LoginCodeLength)
	if err != nil {
		return fmt.Errorf("session_code_generate_failed: %w", err)
	}

	codeHash, err := sec.HashSecret(code)
	if err != nil {
		return fmt.Errorf("session_code_hash_failed: %w", err)
	}

	if err := service.codes.Save(context, email, codeHash, constants.LoginCodeTTL); err != nil {
		return err
	}

	return service.mailer.SendLoginCode(context, email, code, constants.LoginCodeTTL)
}

/*
VerifyLogin exchanges a login code for an access token.

Description: A code is single-use and allows [constants.LoginCodeMaxAttempts]
tries. The account is created on the first successful verification.

Returns:
  - *Login: Access token and account
  - error: Unauthorized for a wrong, exhausted or expired code
*/
func (service *Service) VerifyLogin(context context.Context, email, code string) (*Login, error) {
	email = NormalizeEmail(email)

	codeHash, attempts, err := service.codes.Attempt(context, email)
	if err != nil {
		if apperr.As(err) != nil {
			return nil, errInvalidCode
		}
		return nil, err
	}

	if attempts > constants.LoginCodeMaxAttempts {
		if err := service.codes.Delete(context, email); err != nil {
			return nil, err
		}
		return nil, errInvalidCode
	}

	if !sec.CheckSecretHash(code, codeHash) {
		return nil, errInvalidCode
	}

	if err := service.codes.Delete(context, email); err != nil {
		return nil, err
	}

	user, err := service.users.UpsertByEmail(context, email)
	if err != nil {
		return nil, err
	}

	accessToken, _, err := service.tokens.GenerateAccessToken(user.ID, user.Email, constants.AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("session_token_failed: %w", err)
	}

	service.logger.InfoContext(context, "user_logged_in", slog.String("user_id", user.ID))

	return &Login{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresIn:   int64(constants.AccessTokenTTL.Seconds()),
		User:        user,
	}, nil
}

// Logout revokes the token described by claims until it would have expired.
func (service *Service) Logout(context context.Context, claims *sec.AuthClaims) error {
	if claims.ExpiresAt == nil {
		return errInvalidToken
	}

	remaining := time.Until(claims.ExpiresAt.Time)
	if remaining <= 0 {
		return nil
	}

	if err := service.revoked.Revoke(context, claims.ID, remaining); err != nil {
		return err
	}

	service.logger.InfoContext(context, "user_logged_out", slog.String("user_id", claims.UserID))
	return nil
}

// VerifyToken checks the signature, expiry and revocation of token.
func (service *Service) VerifyToken(context context.Context, token string) (*sec.AuthClaims, error) {
	claims, err := service.tokens.VerifyToken(token)
	if err != nil {
		return nil, errInvalidToken
	}

	revoked, err := service.revoked.IsRevoked(context, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, errRevokedToken
	}

	return claims, nil
}

// Me returns the account of userID.
func (service *Service) Me(context context.Context, userID string) (*User, error) {
	return service.users.FindByID(context, userID)
}
