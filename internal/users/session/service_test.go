// Copyright (c) 2026 Bolgeo. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/bolgeo/internal/platform/apperr"
	"github.com/taibuivan/bolgeo/internal/platform/constants"
	"github.com/taibuivan/bolgeo/internal/platform/sec"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRequestLogin_RejectsInvalidEmail(t *testing.T) {
	f := newFixture(t)

	err := f.service.RequestLogin(context.Background(), "not-an-email")
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "VALIDATION_ERROR", ae.Code)
	assert.Empty(t, f.codes.codes)
}

func TestRequestLogin_StoresOnlyHash(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.service.RequestLogin(context.Background(), " Reader@Bolgeo.app "))

	code := f.mailer.last("reader@bolgeo.app")
	require.Len(t, code, constants.LoginCodeLength)

	pending := f.codes.codes["reader@bolgeo.app"]
	require.NotNil(t, pending)
	assert.NotEqual(t, code, pending.hash)
	assert.True(t, sec.CheckSecretHash(code, pending.hash))
}

func TestVerifyLogin_IssuesToken(t *testing.T) {
	f := newFixture(t)

	login := f.login(t, "reader@bolgeo.app")
	assert.Equal(t, "Bearer", login.TokenType)
	assert.Equal(t, int64(constants.AccessTokenTTL.Seconds()), login.ExpiresIn)
	assert.Equal(t, "reader@bolgeo.app", login.User.Email)

	claims, err := f.service.VerifyToken(context.Background(), login.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, login.User.ID, claims.UserID)
	assert.NotEmpty(t, claims.ID)

	// The code is single use.
	_, err = f.service.VerifyLogin(context.Background(), "reader@bolgeo.app", "000000")
	assert.Equal(t, "UNAUTHORIZED", apperr.As(err).Code)
}

func TestVerifyLogin_SameAccountOnRelogin(t *testing.T) {
	f := newFixture(t)

	first := f.login(t, "reader@bolgeo.app")
	second := f.login(t, "READER@bolgeo.app")
	assert.Equal(t, first.User.ID, second.User.ID)
}

func TestVerifyLogin_WrongCode(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.service.RequestLogin(context.Background(), "reader@bolgeo.app"))

	wrong := "000000"
	if f.mailer.last("reader@bolgeo.app") == wrong {
		wrong = "111111"
	}

	_, err := f.service.VerifyLogin(context.Background(), "reader@bolgeo.app", wrong)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, 401, ae.HTTPStatus)
}

func TestVerifyLogin_NoPendingCode(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.VerifyLogin(context.Background(), "nobody@bolgeo.app", "123456")
	assert.Equal(t, "UNAUTHORIZED", apperr.As(err).Code)
}

func TestVerifyLogin_AttemptsExhausted(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.service.RequestLogin(context.Background(), "reader@bolgeo.app"))
	code := f.mailer.last("reader@bolgeo.app")

	wrong := "000000"
	if code == wrong {
		wrong = "111111"
	}
	for range constants.LoginCodeMaxAttempts {
		_, err := f.service.VerifyLogin(context.Background(), "reader@bolgeo.app", wrong)
		require.Error(t, err)
	}

	// The right code no longer works once the budget is spent.
	_, err := f.service.VerifyLogin(context.Background(), "reader@bolgeo.app", code)
	require.Error(t, err)
	assert.NotContains(t, f.codes.codes, "reader@bolgeo.app")
}

func TestLogout_RevokesToken(t *testing.T) {
	f := newFixture(t)
	login := f.login(t, "reader@bolgeo.app")

	claims, err := f.service.VerifyToken(context.Background(), login.AccessToken)
	require.NoError(t, err)

	require.NoError(t, f.service.Logout(context.Background(), claims))
	ttl := f.revoked.ids[claims.ID]
	assert.InDelta(t, constants.AccessTokenTTL.Seconds(), ttl.Seconds(), 5)

	_, err = f.service.VerifyToken(context.Background(), login.AccessToken)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "Token has been revoked", ae.Message)
}

func TestLogout_ExpiredTokenIsNoop(t *testing.T) {
	f := newFixture(t)

	claims := &sec.AuthClaims{RegisteredClaims: jwt.RegisteredClaims{
		ID:        "expired",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
	}}
	require.NoError(t, f.service.Logout(context.Background(), claims))
	assert.Empty(t, f.revoked.ids)
}

func TestVerifyToken_RejectsGarbage(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.VerifyToken(context.Background(), "not.a.jwt")
	assert.Equal(t, "UNAUTHORIZED", apperr.As(err).Code)
}

func TestVerifyToken_RejectsForeignIssuer(t *testing.T) {
	f := newFixture(t)
	key := signingKey(t)
	foreign := sec.NewTokenServiceFromKeys(key, &key.PublicKey, "someone.else")

	token, _, err := foreign.GenerateAccessToken("u1", "x@y.z", time.Hour)
	require.NoError(t, err)

	_, err = f.service.VerifyToken(context.Background(), token)
	assert.Error(t, err)
}
