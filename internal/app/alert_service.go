package app

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/sirupsen/logrus"

	"domain_expiry_notifier/internal/domain/alert"
	"domain_expiry_notifier/internal/domain/audit"
	domaincache "domain_expiry_notifier/internal/domain/cache"
	"domain_expiry_notifier/internal/domain/credential"
	"domain_expiry_notifier/internal/domain/expiry"
	"domain_expiry_notifier/internal/domain/provider"
	"domain_expiry_notifier/internal/domain/user"
	idb "domain_expiry_notifier/internal/infra/database"
)

// DomainResolver is the slice of the resolver service the alert run
// needs.
type DomainResolver interface {
	Lookup(ctx context.Context, domains []string, opts LookupOptions) []expiry.Record
}

// WebhookSender delivers a payload to a user-configured URL.
type WebhookSender interface {
	Send(ctx context.Context, endpoint string, payload alert.Payload) error
}

// EmailSender delivers a payload to a recipient, honoring a per-user
// SMTP override.
type EmailSender interface {
	Send(ctx context.Context, recipient string, override *user.SMTPOverride, payload alert.Payload) error
}

const (
	// maxZonePages is a safety cap on provider pagination.
	maxZonePages = 500
	zonePageSize = 50

	failureLogTTL = 7 * 24 * time.Hour
)

// AlertService runs the daily expiry sweep: enumerate every user's
// zones, resolve expiries, pick the ones inside the alert window, and
// dispatch through the active channels with idempotent suppression.
type AlertService struct {
	users     user.Repository
	creds     credential.Repository
	decryptor credential.Decryptor
	registry  *provider.Registry
	resolver  DomainResolver
	states    alert.Repository
	suppress  domaincache.SuppressionStore
	audit     audit.Recorder
	webhook   WebhookSender
	email     EmailSender
	log       *logrus.Logger
	now       func() time.Time
}

func NewAlertService(
	users user.Repository,
	creds credential.Repository,
	decryptor credential.Decryptor,
	registry *provider.Registry,
	resolver DomainResolver,
	states alert.Repository,
	suppress domaincache.SuppressionStore,
	auditor audit.Recorder,
	webhook WebhookSender,
	email EmailSender,
	log *logrus.Logger,
) *AlertService {
	return &AlertService{
		users:     users,
		creds:     creds,
		decryptor: decryptor,
		registry:  registry,
		resolver:  resolver,
		states:    states,
		suppress:  suppress,
		audit:     auditor,
		webhook:   webhook,
		email:     email,
		log:       log,
		now:       time.Now,
	}
}

// Run executes one full sweep across all users. Only infrastructure
// failures (e.g. the user store being unreachable) surface as errors;
// per-user, per-credential, and per-channel failures are contained.
func (s *AlertService) Run(ctx context.Context) error {
	prefsList, err := s.users.ListAlertPrefs(ctx)
	if err != nil {
		return err
	}
	for _, prefs := range prefsList {
		s.runUser(ctx, prefs)
	}
	return nil
}

func (s *AlertService) runUser(ctx context.Context, prefs *user.AlertPrefs) {
	log := s.log.WithField("userId", prefs.UserID)
	threshold := prefs.Threshold()

	creds, err := s.creds.ListByUser(ctx, prefs.UserID)
	if err != nil {
		log.WithError(err).Error("failed to list credentials, user skipped")
		return
	}

	domainAccounts := s.collectDomains(ctx, creds)
	if len(domainAccounts) == 0 {
		return
	}
	if !prefs.WebhookActive() && !prefs.EmailActive() {
		return
	}

	domains := make([]string, 0, len(domainAccounts))
	for d := range domainAccounts {
		domains = append(domains, d)
	}

	records := s.resolver.Lookup(ctx, domains, LookupOptions{})

	// Force-refresh only the domains already inside the window, so a
	// renewal that happened after the cached check cannot trigger a
	// stale alert.
	within := make([]string, 0)
	for _, rec := range records {
		if rec.ExpiresAt == nil {
			continue
		}
		if left := rec.DaysLeft(s.now()); left >= 0 && left <= threshold {
			within = append(within, rec.Domain)
		}
	}
	var refreshed []expiry.Record
	if len(within) > 0 {
		refreshed = s.resolver.Lookup(ctx, within, LookupOptions{ForceRefresh: true})
	}

	// Unresolvable domains from the cached pass never enter the
	// refresh subset, so audit both passes.
	s.logLookupFailures(ctx, prefs.UserID, records)
	s.logLookupFailures(ctx, prefs.UserID, refreshed)

	now := s.now()
	for _, rec := range refreshed {
		if rec.ExpiresAt == nil {
			continue
		}
		daysLeft := rec.DaysLeft(now)
		if daysLeft < 0 || daysLeft > threshold {
			continue
		}

		payload := alert.Payload{
			Type:          alert.PayloadTypeDomainExpiry,
			UserID:        prefs.UserID,
			Domain:        rec.Domain,
			ExpiresAt:     rec.ExpiresAt.Format("2006-01-02"),
			DaysLeft:      daysLeft,
			ThresholdDays: threshold,
			Accounts:      domainAccounts[rec.Domain],
			CheckedAt:     rec.CheckedAt,
		}

		if prefs.WebhookActive() {
			s.dispatch(ctx, prefs, &rec, payload, alert.ChannelWebhook)
		}
		if prefs.EmailActive() {
			s.dispatch(ctx, prefs, &rec, payload, alert.ChannelEmail)
		}
	}
}

// collectDomains enumerates zones across all of the user's
// credentials and maps each normalized domain to the accounts it is
// reachable through. A failing credential is skipped so a partial
// provider outage cannot block the rest.
func (s *AlertService) collectDomains(ctx context.Context, creds []*credential.Credential) map[string][]alert.Account {
	domainAccounts := make(map[string][]alert.Account)
	for _, cred := range creds {
		log := s.log.WithFields(logrus.Fields{"credentialId": cred.ID, "provider": cred.Provider})

		if !s.registry.Supported(cred.Provider) {
			log.Debug("provider type has no zone enumerator, credential skipped")
			continue
		}
		auth, err := s.decryptor.Decrypt(cred.Secrets)
		if err != nil {
			log.WithError(err).Warn("credential secrets undecryptable, credential skipped")
			continue
		}
		enum, err := s.registry.New(cred.Provider, auth)
		if err != nil {
			log.WithError(err).Warn("enumerator construction failed, credential skipped")
			continue
		}
		zones, err := s.enumerateZones(ctx, enum)
		if err != nil {
			log.WithError(err).Warn("zone enumeration failed, credential skipped")
			continue
		}

		account := alert.Account{
			CredentialID:   cred.ID,
			CredentialName: cred.Name,
			Provider:       cred.Provider,
		}
		for _, zone := range zones {
			d, err := expiry.Normalize(zone.Name)
			if err != nil {
				continue
			}
			domainAccounts[d] = append(domainAccounts[d], account)
		}
	}
	return domainAccounts
}

func (s *AlertService) enumerateZones(ctx context.Context, enum provider.ZoneEnumerator) ([]provider.Zone, error) {
	zones := make([]provider.Zone, 0)
	for page := 1; page <= maxZonePages; page++ {
		zp, err := enum.GetZones(ctx, page, zonePageSize)
		if err != nil {
			return nil, err
		}
		zones = append(zones, zp.Zones...)
		if len(zp.Zones) == 0 || (zp.Total > 0 && len(zones) >= zp.Total) {
			break
		}
	}
	return zones, nil
}

// logLookupFailures writes one audit entry per (user, domain) per
// 7-day window for domains that still cannot be resolved, to keep
// chronically dead domains from flooding the log.
func (s *AlertService) logLookupFailures(ctx context.Context, userID int64, records []expiry.Record) {
	for _, rec := range records {
		if rec.ExpiresAt != nil || rec.Error == "" {
			continue
		}
		key := alert.FailureLogKey(userID, rec.Domain)
		seen, err := s.suppress.Seen(ctx, key)
		if err != nil {
			s.log.WithError(err).WithField("domain", rec.Domain).Warn("suppression check failed")
			continue
		}
		if seen {
			continue
		}
		entry := audit.Entry{
			UserID:       userID,
			Action:       audit.ActionExpiryLookupFailed,
			ResourceType: audit.ResourceTypeDomain,
			Domain:       rec.Domain,
			Status:       audit.StatusFailure,
			ErrorMessage: rec.Error,
		}
		if err := s.audit.Record(ctx, entry); err != nil {
			s.log.WithError(err).WithField("domain", rec.Domain).Warn("audit write failed")
			continue
		}
		if err := s.suppress.MarkSeen(ctx, key, failureLogTTL); err != nil {
			s.log.WithError(err).WithField("domain", rec.Domain).Warn("suppression mark failed")
		}
	}
}

// dispatch attempts delivery through one channel, bounded to a single
// attempt per composite identity per 24h window regardless of the
// outcome. Both success and failure advance lastNotifiedAt, so a
// persistently failing endpoint is retried at most daily.
func (s *AlertService) dispatch(ctx context.Context, prefs *user.AlertPrefs, rec *expiry.Record, payload alert.Payload, channel alert.Channel) {
	now := s.now()
	identity := alert.Identity{
		UserID:        prefs.UserID,
		Domain:        rec.Domain,
		ExpiresAt:     expiry.DayUTC(*rec.ExpiresAt),
		ThresholdDays: payload.ThresholdDays,
		Channel:       channel,
	}
	log := s.log.WithFields(logrus.Fields{
		"userId":  prefs.UserID,
		"domain":  rec.Domain,
		"channel": channel,
	})

	existing, err := s.states.Get(ctx, identity)
	if err != nil && err != idb.ErrStateNotFound {
		log.WithError(err).Error("notification state read failed, delivery skipped")
		return
	}
	if existing != nil && now.Sub(existing.LastAttempt()) < alert.SuppressionWindow {
		log.Debug("inside suppression window, delivery skipped")
		return
	}

	body, err := json.Marshal(payload)
	if err != nil {
		log.WithError(err).Error("failed to encode notification payload")
		return
	}

	var sendErr error
	switch channel {
	case alert.ChannelWebhook:
		sendErr = s.webhook.Send(ctx, prefs.WebhookURL, payload)
	case alert.ChannelEmail:
		sendErr = s.email.Send(ctx, prefs.EmailTo, prefs.SMTP, payload)
	}

	state := &alert.State{
		UserID:         identity.UserID,
		Domain:         identity.Domain,
		ExpiresAt:      identity.ExpiresAt,
		ThresholdDays:  identity.ThresholdDays,
		Channel:        identity.Channel,
		Payload:        body,
		LastNotifiedAt: sql.NullTime{Time: now, Valid: true},
	}
	if sendErr != nil {
		state.Status = alert.StatusFailed
		state.ErrorMessage = sql.NullString{String: sendErr.Error(), Valid: true}
		log.WithError(sendErr).Warn("notification delivery failed")
	} else {
		state.Status = alert.StatusSent
		log.WithField("daysLeft", payload.DaysLeft).Info("notification delivered")
	}

	if err := s.states.Upsert(ctx, state); err != nil {
		log.WithError(err).Error("notification state write failed")
	}
}
