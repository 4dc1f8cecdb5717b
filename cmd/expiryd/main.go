package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"domain_expiry_notifier/internal/app"
	domaincache "domain_expiry_notifier/internal/domain/cache"
	"domain_expiry_notifier/internal/infra/api"
	"domain_expiry_notifier/internal/infra/cache"
	"domain_expiry_notifier/internal/infra/config"
	idb "domain_expiry_notifier/internal/infra/database"
	"domain_expiry_notifier/internal/infra/dnsprobe"
	"domain_expiry_notifier/internal/infra/logger"
	"domain_expiry_notifier/internal/infra/mail"
	"domain_expiry_notifier/internal/infra/notify"
	"domain_expiry_notifier/internal/infra/providers"
	"domain_expiry_notifier/internal/infra/rdap"
	"domain_expiry_notifier/internal/infra/scheduler"
	"domain_expiry_notifier/internal/infra/secrets"
	"domain_expiry_notifier/internal/infra/whois"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New("info", "development").Fatalf("Could not load application configuration: %v", err)
	}

	log := logger.New(cfg.LogLevel, cfg.Environment)
	log.Infof("Configuration loaded. LogLevel: %s, Environment: %s", cfg.LogLevel, cfg.Environment)

	db, err := idb.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Could not connect to database: %v", err)
	}
	defer db.Close()
	log.Info("Database connection established.")

	// Key-value store backing both the expiry cache and the
	// failure-log suppression records.
	var store domaincache.Store
	switch cfg.CacheBackend {
	case "redis":
		redisStore := cache.NewRedisStore(cfg.RedisAddr, "", 0)
		if err := redisStore.Ping(context.Background()); err != nil {
			log.Fatalf("Could not connect to redis at %s: %v", cfg.RedisAddr, err)
		}
		store = redisStore
		log.Infof("Cache backend: redis (%s)", cfg.RedisAddr)
	default:
		store = cache.NewPostgresStore(db)
		log.Info("Cache backend: postgres")
	}

	decryptor, err := secrets.NewAESDecryptor(cfg.SecretKey)
	if err != nil {
		log.Fatalf("Invalid SECRET_KEY: %v", err)
	}

	// Protocol clients.
	whoisClient := whois.NewClient(cfg.WhoisTimeout)
	whoisResolver := whois.NewResolver(whoisClient, whois.NewLocator(whoisClient))
	rdapClient := rdap.NewClient(cfg.RDAPBaseURL)

	var probe app.AvailabilityProbe
	if p, err := dnsprobe.New(); err != nil {
		log.Warnf("DNS availability probe disabled: %v", err)
	} else {
		probe = p
	}

	resolverService := app.NewResolverService(store, rdapClient, whoisResolver, probe, log)

	// Notification channels and the daily sweep.
	mailSender := mail.NewSMTPSender(mail.Defaults{
		Host: cfg.SMTPHost,
		Port: cfg.SMTPPort,
		User: cfg.SMTPUser,
		Pass: cfg.SMTPPass,
		From: cfg.SMTPFrom,
	})
	alertService := app.NewAlertService(
		idb.NewPostgresUserRepository(db),
		idb.NewPostgresCredentialRepository(db),
		decryptor,
		providers.NewRegistry(),
		resolverService,
		idb.NewPostgresAlertRepository(db),
		domaincache.NewSuppressor(store),
		idb.NewPostgresAuditRepository(db),
		notify.NewWebhookChannel(),
		notify.NewEmailChannel(mailSender),
		log,
	)

	expiryScheduler := scheduler.NewExpiryScheduler(alertService, log, cfg.CronSpecExpiry)
	if err := expiryScheduler.Start(); err != nil {
		log.Fatalf("Could not start expiry scheduler: %v", err)
	}

	// HTTP surface.
	handler := api.NewHandler(resolverService, log)
	server := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           api.NewRouter(handler),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Infof("HTTP API listening on %s", cfg.ListenAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server failed: %v", err)
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down...")
	expiryScheduler.Stop()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warnf("HTTP server shutdown: %v", err)
	}
	log.Info("Shut down gracefully.")
}
