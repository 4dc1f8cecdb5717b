package cache

import (
	"context"
	"time"
)

// SuppressionStore records that an event was seen so repeats inside a
// TTL window can be skipped. Used to keep chronically failing domains
// from flooding the audit log; not correctness-bearing.
type SuppressionStore interface {
	Seen(ctx context.Context, key string) (bool, error)
	MarkSeen(ctx context.Context, key string, ttl time.Duration) error
}

// Suppressor implements SuppressionStore over any Store.
type Suppressor struct {
	store Store
	now   func() time.Time
}

func NewSuppressor(store Store) *Suppressor {
	return &Suppressor{store: store, now: time.Now}
}

func (s *Suppressor) Seen(ctx context.Context, key string) (bool, error) {
	entry, err := s.store.Get(ctx, key)
	if err != nil {
		return false, err
	}
	return entry != nil && entry.Fresh(s.now()), nil
}

func (s *Suppressor) MarkSeen(ctx context.Context, key string, ttl time.Duration) error {
	return s.store.Upsert(ctx, key, []byte("1"), s.now().Add(ttl))
}
