// Package expiry holds the core types for domain-registration expiry
// resolution: the resolved record, the protocol outcome, and the
// cache-TTL policy.
package expiry

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/net/idna"
)

// Source identifies which protocol produced an expiry date.
type Source string

const (
	SourceRDAP    Source = "rdap"
	SourceWHOIS   Source = "whois"
	SourceUnknown Source = "unknown"
)

// CacheKeyPrefix is the key family for cached records in the shared
// key-value store.
const CacheKeyPrefix = "domainExpiry:"

// Record is the result of resolving one domain. ExpiresAt is nil when
// neither protocol yielded a date; Error then carries the combined
// diagnostics.
type Record struct {
	Domain    string     `json:"domain"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
	Source    Source     `json:"source"`
	CheckedAt time.Time  `json:"checkedAt"`
	Error     string     `json:"error,omitempty"`
}

// CacheKey returns the store key for a normalized domain.
func CacheKey(domain string) string {
	return CacheKeyPrefix + domain
}

// DaysLeft returns whole days between now and the record's expiry,
// compared at UTC day granularity. Negative means already expired.
func (r *Record) DaysLeft(now time.Time) int {
	if r.ExpiresAt == nil {
		return 0
	}
	return DaysBetween(now, *r.ExpiresAt)
}

// DaysBetween counts calendar days from a to b in UTC.
func DaysBetween(a, b time.Time) int {
	au := a.UTC()
	bu := b.UTC()
	aDay := time.Date(au.Year(), au.Month(), au.Day(), 0, 0, 0, 0, time.UTC)
	bDay := time.Date(bu.Year(), bu.Month(), bu.Day(), 0, 0, 0, 0, time.UTC)
	return int(bDay.Sub(aDay).Hours() / 24)
}

// DayUTC truncates a timestamp to midnight UTC.
func DayUTC(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// Normalize canonicalizes a raw domain name: trim, lowercase, strip
// one trailing dot, and convert internationalized labels to ASCII.
func Normalize(raw string) (string, error) {
	d := strings.ToLower(strings.TrimSpace(raw))
	d = strings.TrimSuffix(d, ".")
	if d == "" {
		return "", fmt.Errorf("empty domain name")
	}
	ascii, err := idna.ToASCII(d)
	if err != nil {
		return "", fmt.Errorf("punycode conversion failed for %q: %w", raw, err)
	}
	return ascii, nil
}

// TLD returns the last label of a normalized domain.
func TLD(domain string) string {
	idx := strings.LastIndex(domain, ".")
	if idx < 0 {
		return domain
	}
	return domain[idx+1:]
}
