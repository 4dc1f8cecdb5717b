// Package provider defines the zone-enumeration boundary to DNS
// provider APIs. Record CRUD and the other provider operations live
// outside this system.
package provider

import (
	"context"
	"fmt"
	"sort"
)

// Zone is a provider's representation of one managed domain.
type Zone struct {
	ID   string
	Name string
}

// ZonePage is one page of a zone listing with the provider-reported
// total across all pages.
type ZonePage struct {
	Zones []Zone
	Total int
}

// ZoneEnumerator lists the zones of one authenticated provider
// account, page by page.
type ZoneEnumerator interface {
	GetZones(ctx context.Context, page, pageSize int) (*ZonePage, error)
}

// Factory builds an enumerator from decrypted auth material.
type Factory func(auth map[string]string) (ZoneEnumerator, error)

// Registry maps provider type names to factories.
type Registry struct {
	factories map[string]Factory
}

func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

func (r *Registry) Register(name string, f Factory) {
	r.factories[name] = f
}

func (r *Registry) Supported(name string) bool {
	_, ok := r.factories[name]
	return ok
}

// New builds an enumerator for a provider type, or errors when the
// type is not registered.
func (r *Registry) New(name string, auth map[string]string) (ZoneEnumerator, error) {
	f, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("unsupported provider type %q", name)
	}
	return f(auth)
}

// Names returns the registered provider types, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.factories))
	for n := range r.factories {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
