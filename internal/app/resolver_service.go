// Package app contains the application services: batch expiry
// resolution and the daily notification run.
package app

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"domain_expiry_notifier/internal/domain/cache"
	"domain_expiry_notifier/internal/domain/expiry"
)

// RDAPClient resolves an expiry date over RDAP.
type RDAPClient interface {
	ExpiryDate(ctx context.Context, domain string) expiry.Outcome
}

// WhoisResolver resolves an expiry date over WHOIS.
type WhoisResolver interface {
	ExpiryDate(ctx context.Context, domain string) expiry.Outcome
}

// AvailabilityProbe checks whether a domain exists in the DNS at all;
// optional, used only to enrich double-failure diagnostics.
type AvailabilityProbe interface {
	Registered(ctx context.Context, domain string) (bool, error)
}

// LookupOptions tune one batch lookup.
type LookupOptions struct {
	ForceRefresh bool
	Concurrency  int
}

const (
	defaultConcurrency = 3
	minConcurrency     = 1
	maxConcurrency     = 10

	// chunkSize bounds peak in-flight work: each chunk is fully
	// drained before the next starts.
	chunkSize = 500
)

// ResolverService determines when domain registrations expire:
// cache-checked, RDAP first, WHOIS fallback, adaptive-TTL persistence.
type ResolverService struct {
	store cache.Store
	rdap  RDAPClient
	whois WhoisResolver
	probe AvailabilityProbe
	log   *logrus.Logger
	now   func() time.Time
}

// NewResolverService wires the resolver. probe may be nil.
func NewResolverService(store cache.Store, rdap RDAPClient, whois WhoisResolver, probe AvailabilityProbe, log *logrus.Logger) *ResolverService {
	return &ResolverService{
		store: store,
		rdap:  rdap,
		whois: whois,
		probe: probe,
		log:   log,
		now:   time.Now,
	}
}

// Lookup resolves every unique normalized input domain and returns one
// record each, order not guaranteed to match input. Per-domain
// failures never surface as errors; they ride inside the records.
func (s *ResolverService) Lookup(ctx context.Context, domains []string, opts LookupOptions) []expiry.Record {
	unique := normalizeSet(domains)

	concurrency := opts.Concurrency
	if concurrency == 0 {
		concurrency = defaultConcurrency
	}
	if concurrency < minConcurrency {
		concurrency = minConcurrency
	}
	if concurrency > maxConcurrency {
		concurrency = maxConcurrency
	}

	records := make([]expiry.Record, len(unique))
	for start := 0; start < len(unique); start += chunkSize {
		end := start + chunkSize
		if end > len(unique) {
			end = len(unique)
		}

		sem := make(chan struct{}, concurrency)
		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			wg.Add(1)
			sem <- struct{}{}
			go func(idx int) {
				defer wg.Done()
				defer func() { <-sem }()
				records[idx] = s.resolveOne(ctx, unique[idx], opts.ForceRefresh)
			}(i)
		}
		wg.Wait()
	}
	return records
}

// normalizeSet canonicalizes the input list and collapses duplicates,
// keeping first-seen order. Names that cannot be normalized pass
// through lowercased so the caller still gets a record for them.
func normalizeSet(domains []string) []string {
	seen := make(map[string]struct{}, len(domains))
	out := make([]string, 0, len(domains))
	for _, raw := range domains {
		d, err := expiry.Normalize(raw)
		if err != nil {
			continue
		}
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		out = append(out, d)
	}
	return out
}

func (s *ResolverService) resolveOne(ctx context.Context, domain string, force bool) expiry.Record {
	key := expiry.CacheKey(domain)

	if !force {
		entry, err := s.store.Get(ctx, key)
		if err != nil {
			s.log.WithError(err).WithField("domain", domain).Error("expiry cache read failed")
		} else if entry != nil && entry.Fresh(s.now()) {
			var cached expiry.Record
			if err := json.Unmarshal(entry.Value, &cached); err == nil && cached.Domain == domain {
				return cached
			}
			s.log.WithField("domain", domain).Warn("discarding undecodable expiry cache entry")
		}
	}

	now := s.now()
	record := expiry.Record{
		Domain:    domain,
		Source:    expiry.SourceUnknown,
		CheckedAt: now,
	}

	rdapOut := s.rdap.ExpiryDate(ctx, domain)
	if rdapOut.IsResolved() {
		d := rdapOut.Date()
		record.ExpiresAt = &d
		record.Source = rdapOut.Source()
	} else {
		whoisOut := s.whois.ExpiryDate(ctx, domain)
		if whoisOut.IsResolved() {
			d := whoisOut.Date()
			record.ExpiresAt = &d
			record.Source = whoisOut.Source()
		} else {
			record.Error = rdapOut.Reason() + " | " + whoisOut.Reason()
			s.annotateAvailability(ctx, domain, &record)
		}
	}

	s.persist(ctx, key, &record, now)
	return record
}

// annotateAvailability adds a hint when both protocols failed because
// the domain does not exist in the DNS at all.
func (s *ResolverService) annotateAvailability(ctx context.Context, domain string, record *expiry.Record) {
	if s.probe == nil {
		return
	}
	registered, err := s.probe.Registered(ctx, domain)
	if err == nil && !registered {
		record.Error += " | dns: no SOA record, domain may be unregistered"
	}
}

func (s *ResolverService) persist(ctx context.Context, key string, record *expiry.Record, now time.Time) {
	value, err := json.Marshal(record)
	if err != nil {
		s.log.WithError(err).WithField("domain", record.Domain).Error("failed to encode expiry record")
		return
	}
	ttl := expiry.CacheTTL(record.ExpiresAt, now)
	if err := s.store.Upsert(ctx, key, value, now.Add(ttl)); err != nil {
		s.log.WithError(err).WithField("domain", record.Domain).Error("expiry cache write failed")
	}
}
