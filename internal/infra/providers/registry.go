package providers

import "domain_expiry_notifier/internal/domain/provider"

// NewRegistry returns the registry of provider adapters this build
// knows how to enumerate zones for. Credentials of any other provider
// type are skipped by the scheduler.
func NewRegistry() *provider.Registry {
	r := provider.NewRegistry()
	r.Register("cloudflare", NewCloudflare)
	return r
}
