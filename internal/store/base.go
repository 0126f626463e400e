// Package store holds the per-session cart and wishlist state containers.
// Each store keeps its state in memory, writes it through to a
// repository.RecordRepository on every change, and notifies subscribers
// once the write has been attempted.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/utafrali/fashly/internal/event"
	"github.com/utafrali/fashly/internal/repository"
	apperrors "github.com/utafrali/fashly/pkg/errors"
)

// base is the persistence and notification machinery shared by Cart and
// Wishlist. items is guarded by mu; every write to the repository happens
// with mu held so records are written in mutation order.
type base[T any] struct {
	repo      repository.RecordRepository
	key       string
	sessionID string
	topic     event.Topic
	logger    *slog.Logger
	normalize func([]T) ([]T, bool)

	mu       sync.Mutex
	items    []T
	notifier event.Notifier
}

func (b *base[T]) init(repo repository.RecordRepository, key, sessionID string, topic event.Topic, logger *slog.Logger, normalize func([]T) ([]T, bool)) {
	b.repo = repo
	b.key = key
	b.sessionID = sessionID
	b.topic = topic
	b.logger = logger.With(slog.String("store", string(topic)), slog.String("session_id", sessionID))
	b.normalize = normalize
	b.items = []T{}
}

// SessionID returns the session that owns the store.
func (b *base[T]) SessionID() string {
	return b.sessionID
}

// Load replaces the in-memory state with the persisted record. A missing,
// unreadable or undecodable record loads as empty. It does not notify.
// The read happens under mu so a concurrent mutation is either part of the
// record read or applied on top of it.
func (b *base[T]) Load(ctx context.Context) {
	b.mu.Lock()
	b.items = b.read(ctx)
	b.mu.Unlock()
}

// Reload is Load followed by a remote notification. It is used when
// another instance changed the record.
func (b *base[T]) Reload(ctx context.Context) {
	b.Load(ctx)
	b.notifier.Notify(event.Change{Topic: b.topic, SessionID: b.sessionID, Remote: true})
}

// Flush writes the current state and returns the write error, if any.
func (b *base[T]) Flush(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.persist(ctx)
}

// Subscribe registers l for change notifications. Listeners run after the
// store lock is released and may call back into the store.
func (b *base[T]) Subscribe(l event.Listener) (unsubscribe func()) {
	return b.notifier.Subscribe(l)
}

// read must be called with mu held.
func (b *base[T]) read(ctx context.Context) []T {
	data, err := b.repo.Get(ctx, b.key)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			loadFailuresTotal.WithLabelValues(string(b.topic)).Inc()
			b.logger.WarnContext(ctx, "failed to read store record, starting empty", slog.String("error", err.Error()))
		}
		return []T{}
	}

	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		loadFailuresTotal.WithLabelValues(string(b.topic)).Inc()
		b.logger.WarnContext(ctx, "corrupt store record, starting empty", slog.String("error", err.Error()))
		return []T{}
	}
	if items == nil {
		return []T{}
	}

	if normalized, changed := b.normalize(items); changed {
		b.logger.InfoContext(ctx, "store record normalized on load",
			slog.Int("before", len(items)),
			slog.Int("after", len(normalized)),
		)
		items = normalized
	}
	return items
}

// persist must be called with mu held.
func (b *base[T]) persist(ctx context.Context) error {
	data, err := json.Marshal(b.items)
	if err == nil {
		err = b.repo.Save(ctx, b.key, data)
	}
	if err != nil {
		persistFailuresTotal.WithLabelValues(string(b.topic)).Inc()
		b.logger.ErrorContext(ctx, "failed to persist store record", slog.String("error", err.Error()))
		return fmt.Errorf("persist %s: %w", b.key, err)
	}
	return nil
}

// commit persists after a mutation; write failures are logged and
// swallowed so the in-memory state stays authoritative. Must be called
// with mu held.
func (b *base[T]) commit(ctx context.Context, op string) {
	mutationsTotal.WithLabelValues(string(b.topic), op).Inc()
	_ = b.persist(ctx)
	b.logger.DebugContext(ctx, "store mutated", slog.String("op", op), slog.Int("entries", len(b.items)))
}

// notify must be called without mu held.
func (b *base[T]) notify() {
	b.notifier.Notify(event.Change{Topic: b.topic, SessionID: b.sessionID})
}
