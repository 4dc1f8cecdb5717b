package whois

import (
	"context"
	"strings"
	"sync"
)

// IANARoot answers referral queries for every TLD.
const IANARoot = "whois.iana.org"

// Locator resolves the authoritative WHOIS server for a TLD through
// the IANA root, caching hits for the process lifetime. The TLD space
// is small and finite, so the map never needs eviction.
type Locator struct {
	querier Querier
	root    string

	mu    sync.Mutex
	cache map[string]string
}

func NewLocator(querier Querier) *Locator {
	return &Locator{
		querier: querier,
		root:    IANARoot,
		cache:   make(map[string]string),
	}
}

// Resolve returns the WHOIS server for a TLD, or ("", false) when the
// referral lookup fails in any way. Callers treat false as "WHOIS path
// unavailable for this TLD", never as an error.
func (l *Locator) Resolve(ctx context.Context, tld string) (string, bool) {
	tld = strings.ToLower(strings.TrimSpace(tld))
	if tld == "" {
		return "", false
	}

	l.mu.Lock()
	server, ok := l.cache[tld]
	l.mu.Unlock()
	if ok {
		return server, true
	}

	resp, err := l.querier.Query(ctx, l.root, tld)
	if err != nil {
		return "", false
	}

	server, ok = scanField(resp, "whois")
	if !ok || server == "" {
		return "", false
	}
	server = strings.ToLower(server)

	l.mu.Lock()
	l.cache[tld] = server
	l.mu.Unlock()
	return server, true
}

// scanField finds the first "<label>: value" line, case-insensitively
// on the label.
func scanField(text, label string) (string, bool) {
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		lowered := strings.ToLower(trimmed)
		if !strings.HasPrefix(lowered, label) {
			continue
		}
		rest := trimmed[len(label):]
		if !strings.HasPrefix(rest, ":") {
			continue
		}
		return strings.TrimSpace(rest[1:]), true
	}
	return "", false
}
