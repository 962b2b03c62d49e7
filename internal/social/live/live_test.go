// Copyright (c) 2026 Bolgeo. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package live_test

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/bolgeo/internal/social"
	"github.com/taibuivan/bolgeo/internal/social/live"
)

// countingThreads returns one thread whose comment reports how many times
// the feed was refetched.
type countingThreads struct {
	calls atomic.Int32
}

func (c *countingThreads) Threads(_ context.Context, title string, _ social.ListSort) ([]social.Thread, error) {
	n := c.calls.Add(1)
	return []social.Thread{{
		Feedback: &social.Feedback{ID: "f1", WebtoonTitle: title, Likes: int(n)},
		Replies:  []*social.Feedback{},
	}}, nil
}

type fixedStats struct{}

func (fixedStats) TitleStats(_ context.Context, _ string) (float64, int, error) {
	return 4.5, 2, nil
}

func dial(t *testing.T, broker *social.Broker, threads *countingThreads, origins []string, header http.Header) (*websocket.Conn, *http.Response, error) {
	t.Helper()
	return dialHandler(t, live.NewHandler(threads, fixedStats{}, broker, origins, slog.Default()), header)
}

func dialHandler(t *testing.T, handler *live.Handler, header http.Header) (*websocket.Conn, *http.Response, error) {
	t.Helper()

	router := chi.NewRouter()
	router.Route("/webtoons", handler.RegisterRoutes)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	target := "ws" + strings.TrimPrefix(server.URL, "http") + "/webtoons/" + url.PathEscape("미생") + "/live"
	return websocket.DefaultDialer.Dial(target, header)
}

func readSnapshot(t *testing.T, conn *websocket.Conn) live.Message {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var message live.Message
	require.NoError(t, conn.ReadJSON(&message))
	return message
}

func TestLive_InitialSnapshotAndPush(t *testing.T) {
	broker := social.NewBroker()
	threads := &countingThreads{}

	conn, _, err := dial(t, broker, threads, nil, nil)
	require.NoError(t, err)
	defer conn.Close()

	first := readSnapshot(t, conn)
	assert.Equal(t, live.MessageTypeSnapshot, first.Type)
	assert.Equal(t, "미생", first.Title)
	assert.Equal(t, live.Stats{Avg: 4.5, Count: 2}, first.Stats)
	require.Len(t, first.Threads, 1)
	assert.Equal(t, 1, first.Threads[0].Likes)

	require.Eventually(t, func() bool { return broker.Len() == 1 }, time.Second, 10*time.Millisecond)

	broker.Publish(social.Change{Op: social.OpInsert, ID: "f2", WebtoonTitle: "미생"})
	second := readSnapshot(t, conn)
	assert.Equal(t, 2, second.Threads[0].Likes)
}

func TestLive_IgnoresOtherTitles(t *testing.T) {
	broker := social.NewBroker()
	threads := &countingThreads{}

	conn, _, err := dial(t, broker, threads, nil, nil)
	require.NoError(t, err)
	defer conn.Close()

	readSnapshot(t, conn)
	require.Eventually(t, func() bool { return broker.Len() == 1 }, time.Second, 10*time.Millisecond)

	broker.Publish(social.Change{Op: social.OpInsert, ID: "x", WebtoonTitle: "유미의 세포들"})
	broker.Publish(social.Change{Op: social.OpResync})

	// The resync is the first thing delivered after the initial snapshot.
	next := readSnapshot(t, conn)
	assert.Equal(t, 2, next.Threads[0].Likes)
	assert.Equal(t, int32(2), threads.calls.Load())
}

func TestLive_UnsubscribesOnDisconnect(t *testing.T) {
	broker := social.NewBroker()

	conn, _, err := dial(t, broker, &countingThreads{}, nil, nil)
	require.NoError(t, err)

	readSnapshot(t, conn)
	require.Eventually(t, func() bool { return broker.Len() == 1 }, time.Second, 10*time.Millisecond)

	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool { return broker.Len() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestLive_RejectsForeignOrigin(t *testing.T) {
	header := http.Header{"Origin": {"https://evil.example"}}

	_, resp, err := dial(t, social.NewBroker(), &countingThreads{}, []string{"http://localhost:3000"}, header)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestLive_NoConfiguredOriginsAllowsSameOriginOnly(t *testing.T) {
	handler := live.NewHandler(&countingThreads{}, fixedStats{}, social.NewBroker(), nil, slog.Default())

	router := chi.NewRouter()
	router.Route("/webtoons", handler.RegisterRoutes)
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	target := "ws" + strings.TrimPrefix(server.URL, "http") + "/webtoons/" + url.PathEscape("미생") + "/live"

	t.Run("foreign_origin_rejected", func(t *testing.T) {
		_, resp, err := websocket.DefaultDialer.Dial(target, http.Header{"Origin": {"https://evil.example"}})
		require.Error(t, err)
		require.NotNil(t, resp)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("same_origin_accepted", func(t *testing.T) {
		conn, _, err := websocket.DefaultDialer.Dial(target, http.Header{"Origin": {server.URL}})
		require.NoError(t, err)
		defer conn.Close()
		assert.Equal(t, "snapshot", readSnapshot(t, conn).Type)
	})
}

func TestLive_ShutdownClosesFeeds(t *testing.T) {
	broker := social.NewBroker()
	handler := live.NewHandler(&countingThreads{}, fixedStats{}, broker, nil, slog.Default())

	conn, _, err := dialHandler(t, handler, nil)
	require.NoError(t, err)
	defer conn.Close()

	readSnapshot(t, conn)
	handler.Shutdown()
	handler.Shutdown()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err = conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseGoingAway), "got %v", err)
	assert.Eventually(t, func() bool { return broker.Len() == 0 }, 2*time.Second, 10*time.Millisecond)
}
