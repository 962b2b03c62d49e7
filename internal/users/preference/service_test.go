// Copyright (c) 2026 Bolgeo. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package preference_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/bolgeo/internal/platform/apperr"
	"github.com/taibuivan/bolgeo/internal/platform/ctxutil"
	"github.com/taibuivan/bolgeo/internal/platform/sec"
	"github.com/taibuivan/bolgeo/internal/social"
	"github.com/taibuivan/bolgeo/internal/users/preference"
)

// memoryStore mirrors the Redis layout in maps.
type memoryStore struct {
	mu      sync.Mutex
	seen    map[string][]string
	emails  map[string]string
	reviews map[string]map[string]preference.Review
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		seen:    make(map[string][]string),
		emails:  make(map[string]string),
		reviews: make(map[string]map[string]preference.Review),
	}
}

func (m *memoryStore) Get(_ context.Context, userID string) (*preference.Preferences, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	reviews := make(map[string]preference.Review)
	for title, review := range m.reviews[userID] {
		reviews[title] = review
	}
	return &preference.Preferences{
		SeenList: slices.Clone(m.seen[userID]),
		Email:    m.emails[userID],
		Reviews:  reviews,
	}, nil
}

func (m *memoryStore) ReplaceSeen(_ context.Context, userID string, titles []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seen[userID] = slices.Clone(titles)
	return nil
}

func (m *memoryStore) AddSeen(_ context.Context, userID, title string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !slices.Contains(m.seen[userID], title) {
		m.seen[userID] = append(m.seen[userID], title)
	}
	return nil
}

func (m *memoryStore) SeenList(_ context.Context, userID string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.seen[userID]), nil
}

func (m *memoryStore) SetEmail(_ context.Context, userID, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if email == "" {
		delete(m.emails, userID)
	} else {
		m.emails[userID] = email
	}
	return nil
}

func (m *memoryStore) PutReview(_ context.Context, userID, title string, review preference.Review) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.reviews[userID] == nil {
		m.reviews[userID] = make(map[string]preference.Review)
	}
	m.reviews[userID][title] = review
	return nil
}

func newService() (*preference.Service, *memoryStore) {
	store := newMemoryStore()
	return preference.NewService(store, slog.New(slog.NewTextHandler(io.Discard, nil))), store
}

// Compile-time checks that the service plugs into its consumers.
var _ social.ReviewRecorder = (*preference.Service)(nil)

func TestMarkSeen_AppendsOnce(t *testing.T) {
	service, _ := newService()
	ctx := context.Background()

	require.NoError(t, service.MarkSeen(ctx, "u1", "미생"))
	require.NoError(t, service.MarkSeen(ctx, "u1", " 유미의 세포들 "))
	require.NoError(t, service.MarkSeen(ctx, "u1", "미생"))

	seen, err := service.SeenList(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"미생", "유미의 세포들"}, seen)
}

func TestMarkSeen_RequiresTitle(t *testing.T) {
	service, _ := newService()

	err := service.MarkSeen(context.Background(), "u1", "  ")
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "title", ae.Details[0].Field)
}

func TestUpdate(t *testing.T) {
	service, _ := newService()
	ctx := context.Background()
	email := "reader@bolgeo.app"

	preferences, err := service.Update(ctx, "u1", preference.UpdateInput{
		SeenList: []string{"미생", "미생", "", "전지적 독자 시점"},
		Email:    &email,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"미생", "전지적 독자 시점"}, preferences.SeenList)
	assert.Equal(t, email, preferences.Email)

	// A nil list leaves the seen titles alone; an empty email forgets it.
	empty := ""
	preferences, err = service.Update(ctx, "u1", preference.UpdateInput{Email: &empty})
	require.NoError(t, err)
	assert.Len(t, preferences.SeenList, 2)
	assert.Empty(t, preferences.Email)
}

func TestUpdate_RejectsBadEmail(t *testing.T) {
	service, _ := newService()
	bad := "nope"

	_, err := service.Update(context.Background(), "u1", preference.UpdateInput{Email: &bad})
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
}

func TestRecordReview(t *testing.T) {
	service, store := newService()

	require.NoError(t, service.RecordReview(context.Background(), "u1", " 미생 ", 4.5, "명작"))

	review := store.reviews["u1"]["미생"]
	assert.Equal(t, 4.5, review.Rating)
	assert.Equal(t, "명작", review.Comment)
	assert.False(t, review.SubmittedAt.IsZero())
}

func TestHandler(t *testing.T) {
	service, _ := newService()

	router := chi.NewRouter()
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if userID := request.Header.Get("X-Test-User"); userID != "" {
				request = request.WithContext(ctxutil.WithAuthUser(request.Context(), &sec.AuthClaims{UserID: userID}))
			}
			next.ServeHTTP(writer, request)
		})
	})
	router.Route("/me", preference.NewHandler(service).RegisterRoutes)

	do := func(method, path, body, userID string) *httptest.ResponseRecorder {
		request := httptest.NewRequest(method, path, strings.NewReader(body))
		if userID != "" {
			request.Header.Set("X-Test-User", userID)
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, request)
		return rec
	}

	assert.Equal(t, http.StatusUnauthorized, do(http.MethodGet, "/me/preferences", "", "").Code)

	require.Equal(t, http.StatusNoContent, do(http.MethodPost, "/me/seen", `{"title":"미생"}`, "u1").Code)
	require.Equal(t, http.StatusOK, do(http.MethodPut, "/me/preferences", `{"email":"reader@bolgeo.app"}`, "u1").Code)

	rec := do(http.MethodGet, "/me/preferences", "", "u1")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data preference.Preferences `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, []string{"미생"}, body.Data.SeenList)
	assert.Equal(t, "reader@bolgeo.app", body.Data.Email)

	assert.Equal(t, http.StatusBadRequest, do(http.MethodPost, "/me/seen", `{}`, "u1").Code)
}
