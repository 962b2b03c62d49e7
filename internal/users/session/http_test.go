// Copyright (c) 2026 Bolgeo. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/bolgeo/internal/platform/middleware"
	"github.com/taibuivan/bolgeo/internal/users/session"
)

func newRouter(f *fixture) http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.Authenticate(f.service))
	router.Route("/auth", session.NewHandler(f.service).RegisterRoutes)
	return router
}

func do(router http.Handler, method, path, body, token string) *httptest.ResponseRecorder {
	request := httptest.NewRequest(method, path, strings.NewReader(body))
	request.Header.Set("Content-Type", "application/json")
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, request)
	return rec
}

func TestHandler_LoginFlow(t *testing.T) {
	f := newFixture(t)
	router := newRouter(f)

	rec := do(router, http.MethodPost, "/auth/login", `{"email":"reader@bolgeo.app"}`, "")
	require.Equal(t, http.StatusAccepted, rec.Code)

	code := f.mailer.last("reader@bolgeo.app")
	rec = do(router, http.MethodPost, "/auth/verify", `{"email":"reader@bolgeo.app","code":"`+code+`"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data session.Login `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	token := body.Data.AccessToken
	require.NotEmpty(t, token)

	rec = do(router, http.MethodGet, "/auth/me", "", token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "reader@bolgeo.app")

	rec = do(router, http.MethodPost, "/auth/logout", "", token)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(router, http.MethodGet, "/auth/me", "", token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandler_VerifyValidation(t *testing.T) {
	router := newRouter(newFixture(t))

	rec := do(router, http.MethodPost, "/auth/verify", `{"email":"reader@bolgeo.app","code":"12ab"}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"field":"code"`)
}

func TestHandler_MeRequiresAuth(t *testing.T) {
	rec := do(newRouter(newFixture(t)), http.MethodGet, "/auth/me", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
