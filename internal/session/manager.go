package session

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	internalErrors "github.com/gcbaptista/go-cocktail-search/internal/errors"
	"github.com/gcbaptista/go-cocktail-search/internal/metrics"
	"github.com/gcbaptista/go-cocktail-search/services"
)

// Manager owns the open sessions and expires idle ones.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	searcher services.Searcher
	debounce time.Duration
	idleTTL  time.Duration
	logger   *zap.Logger
	metrics  *metrics.Metrics
	opts     []Option
}

// NewManager creates a manager. An idleTTL of zero disables expiry.
func NewManager(searcher services.Searcher, debounce, idleTTL time.Duration, opts ...Option) *Manager {
	o := &options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(o)
	}
	return &Manager{
		sessions: make(map[string]*Session),
		searcher: searcher,
		debounce: debounce,
		idleTTL:  idleTTL,
		logger:   o.logger.With(zap.String("module", "session")),
		metrics:  o.metrics,
		opts:     opts,
	}
}

// Create opens a new session with a random id.
func (m *Manager) Create() *Session {
	id := uuid.New().String()
	s := New(id, m.searcher, m.debounce, m.opts...)

	m.mu.Lock()
	m.sessions[id] = s
	m.mu.Unlock()

	m.metrics.SessionOpened()
	m.logger.Debug("session created", zap.String("session_id", id))
	return s
}

// Get returns an open session and marks it as active.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, internalErrors.NewSessionNotFoundError(id)
	}
	s.touch()
	return s, nil
}

// Delete closes and removes a session.
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	s, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	m.mu.Unlock()

	if !ok {
		return internalErrors.NewSessionNotFoundError(id)
	}
	s.Close()
	m.metrics.SessionClosed()
	return nil
}

// List returns the ids of open sessions in sorted order.
func (m *Manager) List() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len returns the number of open sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Sweep closes sessions idle since before now minus the idle TTL
// and returns how many were removed.
func (m *Manager) Sweep(now time.Time) int {
	if m.idleTTL <= 0 {
		return 0
	}
	cutoff := now.Add(-m.idleTTL)

	m.mu.Lock()
	var expired []*Session
	for id, s := range m.sessions {
		if s.idleSince().Before(cutoff) {
			expired = append(expired, s)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, s := range expired {
		s.Close()
		m.metrics.SessionClosed()
	}
	if len(expired) > 0 {
		m.logger.Info("expired idle sessions", zap.Int("count", len(expired)))
	}
	return len(expired)
}

// Run sweeps idle sessions periodically until ctx is done.
func (m *Manager) Run(ctx context.Context) {
	if m.idleTTL <= 0 {
		return
	}
	interval := m.idleTTL / 2
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			m.Sweep(now)
		}
	}
}

// Close closes every session.
func (m *Manager) Close() {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	for _, s := range sessions {
		s.Close()
		m.metrics.SessionClosed()
	}
}
