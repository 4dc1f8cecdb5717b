// Package audit defines the audit-log collaborator used for
// user-visible operational events.
package audit

import "context"

// Entry is one audit-log row.
type Entry struct {
	UserID       int64
	Action       string
	ResourceType string
	Domain       string
	Status       string
	ErrorMessage string
}

const (
	ActionExpiryLookupFailed = "DOMAIN_EXPIRY_LOOKUP_FAILED"
	ResourceTypeDomain       = "domain"
	StatusFailure            = "failure"
)

// Recorder persists audit entries.
type Recorder interface {
	Record(ctx context.Context, entry Entry) error
}
