package whois

import (
	"context"
	"fmt"
	"strings"
	"time"

	"domain_expiry_notifier/internal/domain/expiry"
)

// expiryLabels are tried in priority order; the first matching line
// wins. Labels are compared case-insensitively against trimmed lines.
var expiryLabels = []string{
	"registry expiry date",
	"registrar registration expiration date",
	"expiration date",
	"expiry date",
	"expires on",
	"expires",
	"paid-till",
	"paid till",
}

var referralLabels = []string{
	"registrar whois server",
	"whois server",
}

// maxReferralDepth bounds registrar-referral chasing to a single hop:
// registry -> registrar, never further.
const maxReferralDepth = 1

// Resolver answers expiry queries over WHOIS: locate the TLD's
// server, query it, and follow at most one registrar referral.
type Resolver struct {
	querier Querier
	locator *Locator
}

func NewResolver(querier Querier, locator *Locator) *Resolver {
	return &Resolver{querier: querier, locator: locator}
}

// ExpiryDate resolves a domain's registration expiry over WHOIS. All
// failures are soft: the outcome carries a "whois:"-prefixed reason.
func (r *Resolver) ExpiryDate(ctx context.Context, domain string) expiry.Outcome {
	tld := expiry.TLD(domain)
	server, ok := r.locator.Resolve(ctx, tld)
	if !ok {
		return expiry.Unresolved(fmt.Sprintf("whois: no server known for tld .%s", tld))
	}
	return r.queryServer(ctx, domain, server, 0)
}

func (r *Resolver) queryServer(ctx context.Context, domain, server string, depth int) expiry.Outcome {
	resp, err := r.querier.Query(ctx, server, domain)
	if err != nil {
		return expiry.Unresolved(fmt.Sprintf("whois: %v", err))
	}

	if t, ok := ExtractExpiry(resp); ok {
		return expiry.Resolved(t, expiry.SourceWHOIS)
	}

	if depth < maxReferralDepth {
		if referral, ok := ExtractReferral(resp); ok && referral != server {
			return r.queryServer(ctx, domain, referral, depth+1)
		}
	}

	return expiry.Unresolved(fmt.Sprintf("whois: no expiry field in response from %s", server))
}

// ExtractExpiry scans response lines against the priority-ordered
// expiry labels and parses the first matching value with the date
// heuristics.
func ExtractExpiry(text string) (time.Time, bool) {
	lines := strings.Split(text, "\n")
	for _, label := range expiryLabels {
		for _, line := range lines {
			value, ok := matchLabel(line, label)
			if !ok {
				continue
			}
			if t, ok := ParseDate(value); ok {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

// ExtractReferral finds a registrar WHOIS server referral line and
// returns the bare lowercase hostname.
func ExtractReferral(text string) (string, bool) {
	lines := strings.Split(text, "\n")
	for _, label := range referralLabels {
		for _, line := range lines {
			value, ok := matchLabel(line, label)
			if !ok || value == "" {
				continue
			}
			return cleanHost(value), true
		}
	}
	return "", false
}

// matchLabel reports whether a trimmed line starts with "<label>:"
// (case-insensitive) and returns the trailing value from the original
// casing.
func matchLabel(line, label string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	lowered := strings.ToLower(trimmed)
	if !strings.HasPrefix(lowered, label) {
		return "", false
	}
	rest := trimmed[len(label):]
	rest = strings.TrimLeft(rest, " \t")
	if !strings.HasPrefix(rest, ":") {
		return "", false
	}
	return strings.TrimSpace(rest[1:]), true
}

// cleanHost strips URL dressing some registrars put around the
// referral hostname.
func cleanHost(value string) string {
	host := strings.ToLower(strings.TrimSpace(value))
	for _, prefix := range []string{"https://", "http://", "rwhois://", "whois://"} {
		host = strings.TrimPrefix(host, prefix)
	}
	host = strings.TrimSuffix(host, "/")
	if idx := strings.IndexAny(host, " \t"); idx >= 0 {
		host = host[:idx]
	}
	return host
}
