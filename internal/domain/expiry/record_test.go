package expiry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	testCases := []struct {
		name     string
		in       string
		expected string
		wantErr  bool
	}{
		{name: "already canonical", in: "example.com", expected: "example.com"},
		{name: "uppercase", in: "EXAMPLE.COM", expected: "example.com"},
		{name: "surrounding whitespace", in: "  example.com\t", expected: "example.com"},
		{name: "trailing dot", in: "example.com.", expected: "example.com"},
		{name: "internationalized", in: "münchen.de", expected: "xn--mnchen-3ya.de"},
		{name: "empty", in: "", wantErr: true},
		{name: "only whitespace", in: "   ", wantErr: true},
		{name: "only a dot", in: ".", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Normalize(tc.in)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestDaysBetween(t *testing.T) {
	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 0, DaysBetween(base, base))
	assert.Equal(t, 30, DaysBetween(base, base.AddDate(0, 0, 30)))
	assert.Equal(t, -1, DaysBetween(base, base.AddDate(0, 0, -1)))

	// Intraday distance counts calendar days, not elapsed hours.
	late := time.Date(2025, 3, 1, 23, 59, 0, 0, time.UTC)
	nextMorning := time.Date(2025, 3, 2, 0, 1, 0, 0, time.UTC)
	assert.Equal(t, 1, DaysBetween(late, nextMorning))

	// Offsets collapse to the same UTC day.
	plusTwo := time.Date(2025, 3, 2, 1, 0, 0, 0, time.FixedZone("CEST", 2*3600))
	assert.Equal(t, 0, DaysBetween(base, plusTwo))
}

func TestRecordDaysLeft(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	exp := time.Date(2025, 3, 8, 0, 0, 0, 0, time.UTC)

	rec := Record{Domain: "example.com", ExpiresAt: &exp}
	assert.Equal(t, 7, rec.DaysLeft(now))

	unresolved := Record{Domain: "example.com"}
	assert.Equal(t, 0, unresolved.DaysLeft(now))
}

func TestTLD(t *testing.T) {
	assert.Equal(t, "com", TLD("example.com"))
	assert.Equal(t, "uk", TLD("www.example.co.uk"))
	assert.Equal(t, "localhost", TLD("localhost"))
}

func TestCacheKey(t *testing.T) {
	assert.Equal(t, "domainExpiry:example.com", CacheKey("example.com"))
}
