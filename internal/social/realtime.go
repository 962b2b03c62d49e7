// Copyright (c) 2026 Bolgeo. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package social

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ChangeChannel is the PostgreSQL NOTIFY channel fed by the feedbacks trigger.
const ChangeChannel = "feedback_changes"

// Change operations. OpResync is emitted locally after the listener lost
// notifications and subscribers must assume anything changed.
const (
	OpInsert = "insert"
	OpUpdate = "update"
	OpDelete = "delete"
	OpResync = "resync"
)

// Change describes a single row change on the feedbacks table.
type Change struct {
	Op           string `json:"op"`
	ID           string `json:"id"`
	WebtoonTitle string `json:"webtoon_title"`
}

// Affects reports whether a subscriber watching title must refetch.
func (c Change) Affects(title string) bool {
	return c.Op == OpResync || c.WebtoonTitle == title
}

// # Broker

// Broker fans change notifications out to in-process subscribers.
//
// # Concurrency
//
// Subscribe, unsubscribe and Publish may be called from any goroutine.
// Callbacks run on the publishing goroutine and must not block.
type Broker struct {
	mu          sync.RWMutex
	subscribers map[uint64]func(Change)
	nextID      uint64
}

// NewBroker creates an empty Broker.
func NewBroker() *Broker {
	return &Broker{subscribers: make(map[uint64]func(Change))}
}

// Subscribe registers onChange and returns the function that removes it.
// Calling the returned function more than once is a no-op.
func (broker *Broker) Subscribe(onChange func(Change)) (unsubscribe func()) {
	broker.mu.Lock()
	broker.nextID++
	id := broker.nextID
	broker.subscribers[id] = onChange
	broker.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			broker.mu.Lock()
			delete(broker.subscribers, id)
			broker.mu.Unlock()
		})
	}
}

// Publish delivers change to every current subscriber.
func (broker *Broker) Publish(change Change) {
	broker.mu.RLock()
	callbacks := make([]func(Change), 0, len(broker.subscribers))
	for _, callback := range broker.subscribers {
		callbacks = append(callbacks, callback)
	}
	broker.mu.RUnlock()

	for _, callback := range callbacks {
		callback(change)
	}
}

// Len returns the number of active subscriptions.
func (broker *Broker) Len() int {
	broker.mu.RLock()
	defer broker.mu.RUnlock()
	return len(broker.subscribers)
}

// # Listener

const (
	listenerMinBackoff = 1 * time.Second
	listenerMaxBackoff = 30 * time.Second
)

// Listener holds a dedicated connection on LISTEN [ChangeChannel] and
// republishes every notification on a [Broker].
type Listener struct {
	pool   *pgxpool.Pool
	broker *Broker
	logger *slog.Logger
}

// NewListener creates a new Listener.
func NewListener(pool *pgxpool.Pool, broker *Broker, logger *slog.Logger) *Listener {
	return &Listener{pool: pool, broker: broker, logger: logger}
}

// Run listens until ctx is cancelled, reconnecting with backoff when the
// connection drops. After every reconnect subscribers get an [OpResync].
func (listener *Listener) Run(ctx context.Context) {
	backoff := listenerMinBackoff
	connected := false

	for {
		err := listener.listen(ctx, func() {
			if connected {
				listener.broker.Publish(Change{Op: OpResync})
			}
			connected = true
			backoff = listenerMinBackoff
		})

		if ctx.Err() != nil {
			listener.logger.Info("feedback_listener_stopped")
			return
		}

		listener.logger.Error("feedback_listener_disconnected",
			slog.Any("error", err),
			slog.Duration("retry_in", backoff),
		)

		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return
		}

		backoff = min(backoff*2, listenerMaxBackoff)
	}
}

// listen runs one LISTEN session. onReady fires once the LISTEN is active.
func (listener *Listener) listen(ctx context.Context, onReady func()) error {
	connection, err := listener.pool.Acquire(ctx)
	if err != nil {
		return err
	}
	// A connection in LISTEN state must not return to the pool.
	defer func() {
		_ = connection.Conn().Close(context.Background())
		connection.Release()
	}()

	if _, err := connection.Exec(ctx, "LISTEN "+ChangeChannel); err != nil {
		return err
	}

	listener.logger.Info("feedback_listener_ready", slog.String("channel", ChangeChannel))
	onReady()

	for {
		notification, err := connection.Conn().WaitForNotification(ctx)
		if err != nil {
			return err
		}

		change, err := DecodeChange(notification.Payload)
		if err != nil {
			listener.logger.Warn("feedback_notification_malformed",
				slog.String("payload", notification.Payload),
				slog.Any("error", err),
			)
			continue
		}

		listener.broker.Publish(change)
	}
}

// DecodeChange parses a trigger payload.
func DecodeChange(payload string) (Change, error) {
	var change Change
	if err := json.Unmarshal([]byte(payload), &change); err != nil {
		return Change{}, err
	}

	switch change.Op {
	case OpInsert, OpUpdate, OpDelete:
		return change, nil
	default:
		return Change{}, errors.New("social: unknown change operation " + change.Op)
	}
}
