package expiry

import "time"

const day = 24 * time.Hour

// CacheTTL picks how long a record may be served from cache. Unknown
// expiries are retried weekly; known ones are polled more often the
// closer they get to the deadline, since notification correctness
// depends on fresh data there.
func CacheTTL(expiresAt *time.Time, now time.Time) time.Duration {
	if expiresAt == nil {
		return 7 * day
	}
	left := DaysBetween(now, *expiresAt)
	switch {
	case left <= 7:
		return 1 * day
	case left <= 90:
		return 3 * day
	case left <= 180:
		return 7 * day
	default:
		return 14 * day
	}
}
