package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryStore struct {
	mu      sync.Mutex
	entries map[string]Entry
}

func newMemoryStore() *memoryStore {
	return &memoryStore{entries: make(map[string]Entry)}
}

func (m *memoryStore) Get(_ context.Context, key string) (*Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.entries[key]
	if !ok {
		return nil, nil
	}
	return &entry, nil
}

func (m *memoryStore) Upsert(_ context.Context, key string, value []byte, expiresAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = Entry{Value: value, ExpiresAt: expiresAt}
	return nil
}

func (m *memoryStore) KeysByPrefix(_ context.Context, prefix string, notExpiredBefore time.Time) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0)
	for k, e := range m.entries {
		if len(k) >= len(prefix) && k[:len(prefix)] == prefix && e.ExpiresAt.After(notExpiredBefore) {
			keys = append(keys, k)
		}
	}
	return keys, nil
}

func TestSuppressorSeenAfterMark(t *testing.T) {
	ctx := context.Background()
	suppressor := NewSuppressor(newMemoryStore())

	seen, err := suppressor.Seen(ctx, "failLog:1:example.com")
	require.NoError(t, err)
	assert.False(t, seen)

	require.NoError(t, suppressor.MarkSeen(ctx, "failLog:1:example.com", time.Hour))

	seen, err = suppressor.Seen(ctx, "failLog:1:example.com")
	require.NoError(t, err)
	assert.True(t, seen)

	// Other keys stay unaffected.
	seen, err = suppressor.Seen(ctx, "failLog:2:example.com")
	require.NoError(t, err)
	assert.False(t, seen)
}

func TestSuppressorExpiredMarkNotSeen(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	suppressor := NewSuppressor(store)

	require.NoError(t, suppressor.MarkSeen(ctx, "k", time.Hour))

	// Move the clock past the mark's TTL.
	suppressor.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	seen, err := suppressor.Seen(ctx, "k")
	require.NoError(t, err)
	assert.False(t, seen)
}

func TestEntryFresh(t *testing.T) {
	now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	live := Entry{ExpiresAt: now.Add(time.Minute)}
	dead := Entry{ExpiresAt: now.Add(-time.Minute)}
	exact := Entry{ExpiresAt: now}

	assert.True(t, live.Fresh(now))
	assert.False(t, dead.Fresh(now))
	assert.False(t, exact.Fresh(now))
}
