package expiry

import "time"

// Outcome is the result of one protocol attempt for one domain: either
// a resolved expiry date with its source, or an unresolved reason.
// Protocol clients never return hard errors for per-domain failures.
type Outcome struct {
	resolved  bool
	expiresAt time.Time
	source    Source
	reason    string
}

// Resolved builds a successful outcome. The date is truncated to UTC
// day granularity by the caller.
func Resolved(expiresAt time.Time, source Source) Outcome {
	return Outcome{resolved: true, expiresAt: expiresAt, source: source}
}

// Unresolved builds a failed outcome carrying a diagnostic reason.
func Unresolved(reason string) Outcome {
	return Outcome{reason: reason}
}

func (o Outcome) IsResolved() bool { return o.resolved }

// Date returns the expiry date; valid only when IsResolved.
func (o Outcome) Date() time.Time { return o.expiresAt }

func (o Outcome) Source() Source { return o.source }

// Reason returns the diagnostic; valid only when not resolved.
func (o Outcome) Reason() string { return o.reason }
