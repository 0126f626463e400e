package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/utafrali/fashly/internal/event"
	"github.com/utafrali/fashly/internal/repository"
	"github.com/utafrali/fashly/internal/store"
	apperrors "github.com/utafrali/fashly/pkg/errors"
)

// Session bundles the stores owned by one browser session.
type Session struct {
	ID       string
	Cart     *store.Cart
	Wishlist *store.Wishlist

	once     sync.Once
	lastSeen time.Time
}

// SessionManager lazily creates, loads and caches the stores of each
// session, and attaches the configured listeners to every new store.
type SessionManager struct {
	repo      repository.RecordRepository
	listeners []event.Listener
	ttl       time.Duration
	logger    *slog.Logger
	now       func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewSessionManager creates a manager. Sessions idle for longer than ttl
// are dropped by EvictIdle; a zero ttl keeps them forever.
func NewSessionManager(repo repository.RecordRepository, ttl time.Duration, logger *slog.Logger, listeners ...event.Listener) *SessionManager {
	return &SessionManager{
		repo:      repo,
		listeners: listeners,
		ttl:       ttl,
		logger:    logger,
		now:       time.Now,
		sessions:  make(map[string]*Session),
	}
}

// Get returns the loaded session for id, creating it on first use.
func (m *SessionManager) Get(ctx context.Context, id string) (*Session, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}

	m.mu.Lock()
	s, ok := m.sessions[id]
	if !ok {
		s = &Session{ID: id}
		m.sessions[id] = s
	}
	s.lastSeen = m.now()
	m.mu.Unlock()

	s.once.Do(func() { m.open(ctx, s) })
	return s, nil
}

func (m *SessionManager) open(ctx context.Context, s *Session) {
	s.Cart = store.NewCart(m.repo, s.ID, m.logger)
	s.Wishlist = store.NewWishlist(m.repo, s.ID, m.logger)
	s.Cart.Load(ctx)
	s.Wishlist.Load(ctx)

	for _, l := range m.listeners {
		s.Cart.Subscribe(l)
		s.Wishlist.Subscribe(l)
	}
	m.logger.DebugContext(ctx, "session opened", slog.String("session_id", s.ID))
}

// cached returns the session for id if it is already loaded.
func (m *SessionManager) cached(id string) (*Session, bool) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	m.mu.Unlock()
	if !ok {
		return nil, false
	}
	// Wait for a concurrent open to finish.
	s.once.Do(func() {})
	return s, s.Cart != nil
}

// Invalidate reloads the topic's store of a cached session. Sessions this
// instance has not opened are left alone; they load fresh on first use.
func (m *SessionManager) Invalidate(ctx context.Context, sessionID string, topic event.Topic) error {
	s, ok := m.cached(sessionID)
	if !ok {
		return nil
	}

	switch topic {
	case event.TopicCart:
		s.Cart.Reload(ctx)
	case event.TopicWishlist:
		s.Wishlist.Reload(ctx)
	default:
		return fmt.Errorf("unknown topic %q", topic)
	}
	m.logger.DebugContext(ctx, "session invalidated",
		slog.String("session_id", sessionID),
		slog.String("topic", string(topic)),
	)
	return nil
}

// EvictIdle flushes and drops sessions not used within the TTL. It
// returns how many were evicted.
func (m *SessionManager) EvictIdle(ctx context.Context) int {
	if m.ttl <= 0 {
		return 0
	}
	cutoff := m.now().Add(-m.ttl)

	m.mu.Lock()
	var idle []*Session
	for id, s := range m.sessions {
		if s.lastSeen.Before(cutoff) {
			idle = append(idle, s)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, s := range idle {
		if err := flushSession(ctx, s); err != nil {
			m.logger.WarnContext(ctx, "flush on eviction failed",
				slog.String("session_id", s.ID),
				slog.String("error", err.Error()),
			)
		}
	}
	if len(idle) > 0 {
		m.logger.InfoContext(ctx, "idle sessions evicted", slog.Int("count", len(idle)))
	}
	return len(idle)
}

// RunEvictor calls EvictIdle every interval until ctx is cancelled.
func (m *SessionManager) RunEvictor(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			m.EvictIdle(ctx)
		}
	}
}

// Close flushes every cached store.
func (m *SessionManager) Close(ctx context.Context) error {
	m.mu.Lock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.mu.Unlock()

	var errs []error
	for _, s := range sessions {
		if err := flushSession(ctx, s); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Len reports how many sessions are cached.
func (m *SessionManager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

func flushSession(ctx context.Context, s *Session) error {
	s.once.Do(func() {})
	if s.Cart == nil {
		return nil
	}
	return errors.Join(s.Cart.Flush(ctx), s.Wishlist.Flush(ctx))
}
