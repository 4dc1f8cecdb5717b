package whois

import (
	"strconv"
	"strings"
	"time"
)

// Registry text is not standardized; these layouts cover the common
// timestamp shapes seen in the wild.
var genericLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05Z",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006/01/02",
	"02.01.2006",
	"January 2 2006",
	"2006-01-02",
}

var monthAbbrevs = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

// ParseDate parses a free-text date value from a WHOIS response and
// normalizes it to midnight UTC. A trailing parenthetical comment,
// e.g. "2025-03-01 (expires in 30 days)", is stripped before any
// format is tried.
func ParseDate(value string) (time.Time, bool) {
	v := strings.TrimSpace(value)
	if idx := strings.Index(v, "("); idx >= 0 {
		v = strings.TrimSpace(v[:idx])
	}
	if v == "" {
		return time.Time{}, false
	}

	if t, ok := parseValue(v); ok {
		return t, true
	}

	// Last resort: only the first whitespace-delimited token, for
	// values like "2025-03-01 12:00:00 CLST".
	if fields := strings.Fields(v); len(fields) > 1 {
		if t, ok := parseValue(fields[0]); ok {
			return t, true
		}
	}
	return time.Time{}, false
}

func parseValue(v string) (time.Time, bool) {
	for _, layout := range genericLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return dayUTC(t), true
		}
	}
	if t, ok := parseDotted(v); ok {
		return t, true
	}
	if t, ok := parseDayMonthYear(v); ok {
		return t, true
	}
	return time.Time{}, false
}

// parseDotted handles "2025.03.01" (and "2025.03.01." as .ru
// registries emit it).
func parseDotted(v string) (time.Time, bool) {
	v = strings.TrimSuffix(v, ".")
	parts := strings.Split(v, ".")
	if len(parts) != 3 {
		return time.Time{}, false
	}
	year, err1 := strconv.Atoi(parts[0])
	month, err2 := strconv.Atoi(parts[1])
	day, err3 := strconv.Atoi(parts[2])
	if err1 != nil || err2 != nil || err3 != nil {
		return time.Time{}, false
	}
	if year < 1000 || month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), true
}

// parseDayMonthYear handles "01-mar-2025" style values.
func parseDayMonthYear(v string) (time.Time, bool) {
	parts := strings.Split(strings.ToLower(v), "-")
	if len(parts) != 3 {
		return time.Time{}, false
	}
	day, err1 := strconv.Atoi(parts[0])
	year, err3 := strconv.Atoi(parts[2])
	month, ok := monthAbbrevs[parts[1]]
	if err1 != nil || err3 != nil || !ok {
		return time.Time{}, false
	}
	if year < 1000 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC), true
}

func dayUTC(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
