package alert

import (
	"context"
	"time"
)

// Identity is the composite key a notification attempt is deduplicated
// on.
type Identity struct {
	UserID        int64
	Domain        string
	ExpiresAt     time.Time // date, UTC midnight
	ThresholdDays int
	Channel       Channel
}

// Repository persists notification states. Upsert is
// last-writer-wins on the unique identity index.
type Repository interface {
	Get(ctx context.Context, id Identity) (*State, error)
	Upsert(ctx context.Context, state *State) error
}
