// Package alert holds the durable notification-state model and the
// payload delivered through the notification channels.
package alert

import (
	"database/sql"
	"fmt"
	"time"
)

// Channel names a delivery mechanism.
type Channel string

const (
	ChannelWebhook Channel = "webhook"
	ChannelEmail   Channel = "email"
)

// DeliveryStatus is the outcome of the last delivery attempt.
type DeliveryStatus string

const (
	StatusSent   DeliveryStatus = "SENT"
	StatusFailed DeliveryStatus = "FAILED"
)

// SuppressionWindow is the rolling interval during which repeat
// delivery attempts for the same identity are skipped, successes and
// failures alike.
const SuppressionWindow = 24 * time.Hour

// FailureLogKey builds the suppression key for lookup-failure audit
// logging, distinct from notification delivery state.
func FailureLogKey(userID int64, domain string) string {
	return fmt.Sprintf("domainExpiryFailureLog:%d:%s", userID, domain)
}

// State is the idempotency record for one (user, domain, expiry date,
// threshold, channel) identity. Mutated only by the scheduler's
// dispatch step.
type State struct {
	ID             int64
	UserID         int64
	Domain         string
	ExpiresAt      time.Time // date, UTC midnight
	ThresholdDays  int
	Channel        Channel
	Status         DeliveryStatus
	Payload        []byte
	ErrorMessage   sql.NullString
	LastNotifiedAt sql.NullTime
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// LastAttempt returns the reference time for the suppression window,
// falling back to row creation when LastNotifiedAt was never set.
func (s *State) LastAttempt() time.Time {
	if s.LastNotifiedAt.Valid {
		return s.LastNotifiedAt.Time
	}
	return s.CreatedAt
}
