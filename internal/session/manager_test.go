package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internalErrors "github.com/gcbaptista/go-cocktail-search/internal/errors"
	"github.com/gcbaptista/go-cocktail-search/internal/metrics"
	testutil "github.com/gcbaptista/go-cocktail-search/internal/testing"
)

func newTestManager(t *testing.T, idleTTL time.Duration) *Manager {
	t.Helper()
	svc := newSearchService(t, testutil.NewFakeProvider())
	m := NewManager(svc, testDebounce, idleTTL, WithMetrics(metrics.New()))
	t.Cleanup(m.Close)
	return m
}

func TestManager_CreateGetDelete(t *testing.T) {
	m := newTestManager(t, time.Minute)

	s := m.Create()
	require.NotEmpty(t, s.ID())
	assert.Equal(t, 1, m.Len())

	got, err := m.Get(s.ID())
	require.NoError(t, err)
	assert.Same(t, s, got)

	require.NoError(t, m.Delete(s.ID()))
	assert.Equal(t, 0, m.Len())

	_, err = m.Get(s.ID())
	assert.ErrorIs(t, err, internalErrors.ErrSessionNotFound)

	err = m.Delete(s.ID())
	assert.ErrorIs(t, err, internalErrors.ErrSessionNotFound)
}

func TestManager_UniqueIDs(t *testing.T) {
	m := newTestManager(t, time.Minute)
	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		id := m.Create().ID()
		assert.False(t, seen[id], "duplicate session id %s", id)
		seen[id] = true
	}
	assert.Len(t, m.List(), 20)
}

func TestManager_Sweep(t *testing.T) {
	m := newTestManager(t, time.Minute)
	idle := m.Create()
	active := m.Create()

	assert.Equal(t, 0, m.Sweep(time.Now()), "nothing is idle yet")

	// Make one session look recently used from the sweep's point of view
	later := time.Now().Add(2 * time.Minute)
	active.mu.Lock()
	active.lastActive = later
	active.mu.Unlock()

	assert.Equal(t, 1, m.Sweep(later))
	_, err := m.Get(idle.ID())
	assert.ErrorIs(t, err, internalErrors.ErrSessionNotFound)
	_, err = m.Get(active.ID())
	assert.NoError(t, err)
}

func TestManager_SweepDisabled(t *testing.T) {
	m := newTestManager(t, 0)
	m.Create()
	assert.Equal(t, 0, m.Sweep(time.Now().Add(24*time.Hour)))

	// Run returns immediately when expiry is disabled
	done := make(chan struct{})
	go func() {
		m.Run(context.Background())
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run should return when idle TTL is zero")
	}
}

func TestManager_CloseClosesSessions(t *testing.T) {
	m := newTestManager(t, time.Minute)
	s := m.Create()
	s.SetQuery("negroni")

	m.Close()

	assert.Equal(t, 0, m.Len())
	assert.False(t, s.State().Loading)
}
