// Package cache defines the key-value store contract shared by the
// expiry cache and the failure-log suppression records. The storage
// engine behind it is a collaborator; only get/put semantics matter
// here.
package cache

import (
	"context"
	"time"
)

// Entry is one stored value with its absolute expiry.
type Entry struct {
	Value     []byte
	ExpiresAt time.Time
}

// Fresh reports whether the entry is still live at the given time.
func (e *Entry) Fresh(now time.Time) bool {
	return e.ExpiresAt.After(now)
}

// Store is an upsert-by-key blob store with per-key expiry. Get
// returns (nil, nil) for a missing key; callers decide whether an
// expired entry is still usable.
type Store interface {
	Get(ctx context.Context, key string) (*Entry, error)
	Upsert(ctx context.Context, key string, value []byte, expiresAt time.Time) error
	KeysByPrefix(ctx context.Context, prefix string, notExpiredBefore time.Time) ([]string, error)
}
