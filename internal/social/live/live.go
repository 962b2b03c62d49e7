// Copyright (c) 2026 Bolgeo. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package live pushes feedback snapshots of a single webtoon to websocket
clients whenever the feedbacks of that title change.

Each connection subscribes to the change [social.Broker] for its lifetime.
Notifications are coalesced: a burst of changes yields one refetch, and every
message carries the full current state, so a missed notification is repaired
by the next one.
*/
package live

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/taibuivan/bolgeo/internal/catalog"
	"github.com/taibuivan/bolgeo/internal/platform/ctxutil"
	"github.com/taibuivan/bolgeo/internal/platform/metrics"
	requestutil "github.com/taibuivan/bolgeo/internal/platform/request"
	"github.com/taibuivan/bolgeo/internal/social"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4 * 1024
)

// MessageTypeSnapshot is the only message type sent to clients.
const MessageTypeSnapshot = "snapshot"

// ThreadLister loads the threaded feedbacks of a title.
type ThreadLister interface {
	Threads(context context.Context, title string, sortBy social.ListSort) ([]social.Thread, error)
}

// StatsReader loads the reader score summary of a title.
type StatsReader interface {
	TitleStats(context context.Context, title string) (avg float64, count int, err error)
}

// Subscriber registers change callbacks.
type Subscriber interface {
	Subscribe(onChange func(social.Change)) (unsubscribe func())
}

// Stats is the score summary carried in a snapshot.
type Stats struct {
	Avg   float64 `json:"avg"`
	Count int     `json:"count"`
}

// Message is a full state snapshot of one title.
type Message struct {
	Type    string          `json:"type"`
	Title   string          `json:"title"`
	Threads []social.Thread `json:"threads"`
	Stats   Stats           `json:"stats"`
}

// Handler upgrades requests to websocket feeds.
type Handler struct {
	threads  ThreadLister
	stats    StatsReader
	changes  Subscriber
	upgrader websocket.Upgrader
	logger   *slog.Logger

	done      chan struct{}
	closeOnce sync.Once
}

// NewHandler creates a Handler. An empty origin list accepts any origin.
func NewHandler(threads ThreadLister, stats StatsReader, changes Subscriber, allowedOrigins []string, logger *slog.Logger) *Handler {
	return &Handler{
		threads: threads,
		stats:   stats,
		changes: changes,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin: func(request *http.Request) bool {
				return originAllowed(request, allowedOrigins)
			},
		},
		logger: logger,
		done:   make(chan struct{}),
	}
}

// originAllowed accepts non-browser clients (no Origin header), listed
// origins and same-origin pages. Any other cross-origin upgrade is refused,
// including when no origins are configured.
func originAllowed(request *http.Request, allowedOrigins []string) bool {
	origin := request.Header.Get("Origin")
	if origin == "" || slices.Contains(allowedOrigins, origin) {
		return true
	}

	parsed, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return strings.EqualFold(parsed.Host, request.Host)
}

// Shutdown asks every open feed to close with "going away". Hijacked
// connections are not tracked by http.Server, so the server calls this
// when it stops.
func (handler *Handler) Shutdown() {
	handler.closeOnce.Do(func() { close(handler.done) })
}

// RegisterRoutes mounts the feed under /webtoons.
func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/{title}/live", handler.serve)
}

func (handler *Handler) serve(writer http.ResponseWriter, request *http.Request) {
	title := catalog.NormalizeTitle(requestutil.Title(request, "title"))
	logger := ctxutil.GetLogger(request.Context())

	conn, err := handler.upgrader.Upgrade(writer, request, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		logger.WarnContext(request.Context(), "live_upgrade_failed", slog.String("error", err.Error()))
		return
	}
	defer func() { _ = conn.Close() }()

	metrics.TrackLiveSubscriber(true)
	defer metrics.TrackLiveSubscriber(false)

	pending := make(chan struct{}, 1)
	unsubscribe := handler.changes.Subscribe(func(change social.Change) {
		if !change.Affects(title) {
			return
		}
		select {
		case pending <- struct{}{}:
		default:
		}
	})
	defer unsubscribe()

	logger.InfoContext(request.Context(), "live_subscribed", slog.String("title", title))

	closed := make(chan struct{})
	go readPump(conn, closed)

	handler.writePump(request.Context(), conn, title, pending, closed)

	logger.InfoContext(request.Context(), "live_unsubscribed", slog.String("title", title))
}

// readPump discards client frames and keeps the read deadline alive until
// the peer goes away.
func readPump(conn *websocket.Conn, closed chan<- struct{}) {
	defer close(closed)

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := conn.NextReader(); err != nil {
			return
		}
	}
}

func (handler *Handler) writePump(ctx context.Context, conn *websocket.Conn, title string, pending <-chan struct{}, closed <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	if !handler.push(ctx, conn, title) {
		return
	}

	for {
		select {
		case <-pending:
			if !handler.push(ctx, conn, title) {
				return
			}

		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}

		case <-closed:
			return

		case <-handler.done:
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"), time.Now().Add(writeWait))
			return

		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, ""), time.Now().Add(writeWait))
			return
		}
	}
}

// push refetches the state of title and writes it. A failed fetch is logged
// and skipped; only a failed write ends the connection.
func (handler *Handler) push(ctx context.Context, conn *websocket.Conn, title string) bool {
	message, err := handler.snapshot(ctx, title)
	if err != nil {
		handler.logger.WarnContext(ctx, "live_snapshot_failed",
			slog.String("title", title),
			slog.String("error", err.Error()),
		)
		return true
	}

	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return false
	}
	return conn.WriteJSON(message) == nil
}

func (handler *Handler) snapshot(ctx context.Context, title string) (*Message, error) {
	threads, err := handler.threads.Threads(ctx, title, social.SortLikes)
	if err != nil {
		return nil, err
	}

	avg, count, err := handler.stats.TitleStats(ctx, title)
	if err != nil {
		return nil, err
	}

	return &Message{
		Type:    MessageTypeSnapshot,
		Title:   title,
		Threads: threads,
		Stats:   Stats{Avg: avg, Count: count},
	}, nil
}
