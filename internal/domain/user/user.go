// Package user models the accounts whose domains the scheduler walks,
// together with their notification preferences.
package user

import "context"

// SMTPOverride carries a per-user mail server replacing the process
// defaults when present.
type SMTPOverride struct {
	Host   string
	Port   int
	Secure bool
	User   string
	Pass   string
	From   string
}

// AlertPrefs is one user's expiry-notification configuration.
type AlertPrefs struct {
	UserID         int64
	ThresholdDays  int
	WebhookEnabled bool
	WebhookURL     string
	EmailEnabled   bool
	EmailTo        string
	SMTP           *SMTPOverride
}

const (
	DefaultThresholdDays = 7
	MinThresholdDays     = 1
	MaxThresholdDays     = 365
)

// Threshold returns the configured threshold clamped to [1,365], with
// the default applied when unset.
func (p *AlertPrefs) Threshold() int {
	t := p.ThresholdDays
	if t == 0 {
		t = DefaultThresholdDays
	}
	if t < MinThresholdDays {
		t = MinThresholdDays
	}
	if t > MaxThresholdDays {
		t = MaxThresholdDays
	}
	return t
}

// WebhookActive reports whether the webhook channel should fire: both
// the enabled flag and a URL are required.
func (p *AlertPrefs) WebhookActive() bool {
	return p.WebhookEnabled && p.WebhookURL != ""
}

// EmailActive reports whether the email channel should fire: both the
// enabled flag and a resolved recipient are required.
func (p *AlertPrefs) EmailActive() bool {
	return p.EmailEnabled && p.EmailTo != ""
}

// Repository lists users eligible for the daily expiry run.
type Repository interface {
	ListAlertPrefs(ctx context.Context) ([]*AlertPrefs, error)
}
