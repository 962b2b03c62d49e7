// Copyright (c) 2026 Bolgeo. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/bolgeo/internal/catalog"
)

type fixedStats struct{}

func (fixedStats) TitleStats(_ context.Context, _ string) (float64, int, error) {
	return 4.25, 4, nil
}

type nopRepository struct{ synced int }

func (r *nopRepository) Sync(_ context.Context, entries []catalog.Entry) (int64, error) {
	r.synced = len(entries)
	return 0, nil
}

func newRouter(t *testing.T) http.Handler {
	t.Helper()

	c := catalog.New(catalog.Parse("1. 미생 | 카카오 | 드라마, 직장 | 완결 | 4.9점"), "")
	handler := catalog.NewHandler(catalog.NewService(c, &nopRepository{}, slog.Default()), fixedStats{})

	router := chi.NewRouter()
	router.Route("/webtoons", handler.RegisterWebtoonRoutes)
	router.Route("/genres", handler.RegisterGenreRoutes)
	return router
}

func TestHandler_GetWebtoon(t *testing.T) {
	router := newRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/webtoons/"+url.PathEscape("미생"), nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data catalog.Detail `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "미생", body.Data.Title)
	assert.Equal(t, 4.25, body.Data.UserAvgScore)
	assert.Equal(t, 4, body.Data.ReviewCount)
}

func TestHandler_GetWebtoon_NotFound(t *testing.T) {
	rec := httptest.NewRecorder()
	newRouter(t).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/webtoons/missing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_ListGenres(t *testing.T) {
	rec := httptest.NewRecorder()
	newRouter(t).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/genres", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":["드라마","직장"]}`, rec.Body.String())
}

func TestService_Sync(t *testing.T) {
	repo := &nopRepository{}
	service := catalog.NewService(catalog.Default(), repo, slog.Default())

	require.NoError(t, service.Sync(context.Background()))
	assert.Equal(t, catalog.Default().Len(), repo.synced)
}
