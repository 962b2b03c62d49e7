// Copyright (c) 2026 Bolgeo. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package social_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/bolgeo/internal/platform/ctxutil"
	"github.com/taibuivan/bolgeo/internal/platform/sec"
	"github.com/taibuivan/bolgeo/internal/social"
)

// asUser authenticates requests carrying an X-Test-User header.
func asUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if userID := r.Header.Get("X-Test-User"); userID != "" {
			r = r.WithContext(ctxutil.WithAuthUser(r.Context(), &sec.AuthClaims{UserID: userID}))
		}
		next.ServeHTTP(w, r)
	})
}

func newTestRouter() (http.Handler, *social.Service) {
	service := social.NewService(newMemoryRepository(), nil, slog.Default())
	handler := social.NewHandler(service)

	router := chi.NewRouter()
	router.Use(asUser)
	router.Route("/webtoons", handler.RegisterWebtoonRoutes)
	router.Route("/feedbacks", handler.RegisterFeedbackRoutes)
	return router, service
}

func do(router http.Handler, method, target, userID, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("X-Test-User", userID)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandler_SubmitRequiresAuth(t *testing.T) {
	router, _ := newTestRouter()

	rec := do(router, http.MethodPost, "/webtoons/미생/feedbacks", "", `{"rating":4,"comment":"좋아요"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandler_SubmitAndList(t *testing.T) {
	router, _ := newTestRouter()

	rec := do(router, http.MethodPost, "/webtoons/미생/feedbacks", alice, `{"rating":4.5,"comment":"좋아요"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created struct {
		Data social.Feedback `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = do(router, http.MethodPost, "/feedbacks/"+created.Data.ID+"/replies", bob, `{"comment":"저도요"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(router, http.MethodGet, "/webtoons/미생/feedbacks?sort=replies", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var listed struct {
		Data []social.Thread `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed.Data, 1)
	assert.Equal(t, 1, listed.Data[0].ReplyCount)
	assert.Len(t, listed.Data[0].Replies, 1)
}

func TestHandler_Validation(t *testing.T) {
	router, _ := newTestRouter()

	t.Run("bad_sort", func(t *testing.T) {
		rec := do(router, http.MethodGet, "/webtoons/미생/feedbacks?sort=random", "", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("bad_json", func(t *testing.T) {
		rec := do(router, http.MethodPost, "/webtoons/미생/feedbacks", alice, `{`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("bad_reaction_type", func(t *testing.T) {
		rec := do(router, http.MethodPost, "/feedbacks/018f2b6e-0000-7000-8000-0000000000ff/reactions", alice, `{"type":"love"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandler_ReactTwice(t *testing.T) {
	router, service := newTestRouter()

	feedback, err := service.Submit(context.Background(), alice, "미생", social.SubmitInput{Rating: 5, Comment: "최고"})
	require.NoError(t, err)

	target := "/feedbacks/" + feedback.ID + "/reactions"
	assert.Equal(t, http.StatusNoContent, do(router, http.MethodPost, target, bob, `{"type":"like"}`).Code)

	rec := do(router, http.MethodPost, target, bob, `{"type":"like"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "already reacted")
}

func TestHandler_EditForeignFeedback(t *testing.T) {
	router, service := newTestRouter()

	feedback, err := service.Submit(context.Background(), alice, "미생", social.SubmitInput{Comment: "원본"})
	require.NoError(t, err)

	rec := do(router, http.MethodPatch, "/feedbacks/"+feedback.ID, bob, `{"comment":"탈취"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(router, http.MethodDelete, "/feedbacks/"+feedback.ID, alice, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestHandler_ListAll(t *testing.T) {
	router, service := newTestRouter()

	for _, title := range []string{"미생", "내일", "정년이"} {
		_, err := service.Submit(context.Background(), alice, title, social.SubmitInput{Comment: title})
		require.NoError(t, err)
	}

	rec := do(router, http.MethodGet, "/feedbacks?sort=latest&limit=2", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var page struct {
		Data []social.Feedback `json:"data"`
		Meta struct {
			Total      int `json:"total"`
			TotalPages int `json:"total_pages"`
		} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Len(t, page.Data, 2)
	assert.Equal(t, 3, page.Meta.Total)
	assert.Equal(t, 2, page.Meta.TotalPages)
	assert.Equal(t, "정년이", page.Data[0].WebtoonTitle)
}
