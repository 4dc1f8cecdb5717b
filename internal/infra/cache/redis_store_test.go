package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	return NewRedisStore(mr.Addr(), "", 0), mr
}

func TestRedisStoreRoundTrip(t *testing.T) {
	store, _ := newTestRedisStore(t)
	ctx := context.Background()

	expiresAt := time.Now().Add(time.Hour).Truncate(time.Second)
	require.NoError(t, store.Upsert(ctx, "domainExpiry:example.com", []byte(`{"domain":"example.com"}`), expiresAt))

	entry, err := store.Get(ctx, "domainExpiry:example.com")
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, []byte(`{"domain":"example.com"}`), entry.Value)
	assert.True(t, expiresAt.Equal(entry.ExpiresAt))
}

func TestRedisStoreMissingKey(t *testing.T) {
	store, _ := newTestRedisStore(t)

	entry, err := store.Get(context.Background(), "domainExpiry:absent.example")
	require.NoError(t, err)
	assert.Nil(t, entry)
}

func TestRedisStoreUpsertReplaces(t *testing.T) {
	store, _ := newTestRedisStore(t)
	ctx := context.Background()
	expiresAt := time.Now().Add(time.Hour)

	require.NoError(t, store.Upsert(ctx, "k", []byte("old"), expiresAt))
	require.NoError(t, store.Upsert(ctx, "k", []byte("new"), expiresAt))

	entry, err := store.Get(ctx, "k")
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, []byte("new"), entry.Value)
}

func TestRedisStoreKeyTTLTracksExpiry(t *testing.T) {
	store, mr := newTestRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, "k", []byte("v"), time.Now().Add(time.Minute)))

	// Advancing past the deadline makes Redis drop the key itself.
	mr.FastForward(2 * time.Minute)

	entry, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Nil(t, entry)
}

func TestRedisStoreKeysByPrefix(t *testing.T) {
	store, _ := newTestRedisStore(t)
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, store.Upsert(ctx, "domainExpiry:a.example", []byte("1"), now.Add(time.Hour)))
	require.NoError(t, store.Upsert(ctx, "domainExpiry:b.example", []byte("2"), now.Add(time.Hour)))
	require.NoError(t, store.Upsert(ctx, "domainExpiryFailureLog:1:a.example", []byte("3"), now.Add(time.Hour)))

	keys, err := store.KeysByPrefix(ctx, "domainExpiry:", now)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"domainExpiry:a.example", "domainExpiry:b.example"}, keys)
}

func TestRedisStorePing(t *testing.T) {
	store, mr := newTestRedisStore(t)
	require.NoError(t, store.Ping(context.Background()))

	mr.Close()
	assert.Error(t, store.Ping(context.Background()))
}
