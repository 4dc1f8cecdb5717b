package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig holds all configuration for the application.
type AppConfig struct {
	DatabaseURL string
	ListenAddr  string
	LogLevel    string
	Environment string

	// SecretKey decrypts stored provider credentials (hex-encoded
	// 32-byte AES key).
	SecretKey string

	// CronSpecExpiry drives the daily expiry job.
	CronSpecExpiry string

	RDAPBaseURL       string
	WhoisTimeout      time.Duration
	LookupConcurrency int

	// CacheBackend selects the key-value store: "postgres" or "redis".
	CacheBackend string
	RedisAddr    string

	// Process-wide SMTP defaults; users may override per account.
	SMTPHost   string
	SMTPPort   int
	SMTPSecure bool
	SMTPUser   string
	SMTPPass   string
	SMTPFrom   string
}

// Load reads configuration from environment variables and .env file (if present).
func Load() (*AppConfig, error) {
	// godotenv.Load will not override existing env variables.
	_ = godotenv.Load()

	cfg := &AppConfig{}

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}

	cfg.SecretKey = os.Getenv("SECRET_KEY")
	if cfg.SecretKey == "" {
		return nil, fmt.Errorf("SECRET_KEY is not set")
	}

	cfg.ListenAddr = getString("LISTEN_ADDR", ":8080")
	cfg.LogLevel = strings.ToLower(getString("LOG_LEVEL", "info"))
	cfg.Environment = strings.ToLower(getString("ENVIRONMENT", "development"))

	cfg.CronSpecExpiry = getString("CRON_SPEC_EXPIRY", "0 3 * * *") // 03:00 daily

	cfg.RDAPBaseURL = getString("RDAP_BASE_URL", "https://rdap.org")

	var err error
	cfg.WhoisTimeout, err = getDuration("WHOIS_TIMEOUT", 8*time.Second)
	if err != nil {
		return nil, err
	}

	cfg.LookupConcurrency, err = getInt("LOOKUP_CONCURRENCY", 3)
	if err != nil {
		return nil, err
	}

	cfg.CacheBackend = strings.ToLower(getString("CACHE_BACKEND", "postgres"))
	if cfg.CacheBackend != "postgres" && cfg.CacheBackend != "redis" {
		return nil, fmt.Errorf("invalid CACHE_BACKEND %q (want postgres or redis)", cfg.CacheBackend)
	}
	cfg.RedisAddr = getString("REDIS_ADDR", "localhost:6379")

	cfg.SMTPHost = os.Getenv("SMTP_HOST")
	cfg.SMTPPort, err = getInt("SMTP_PORT", 587)
	if err != nil {
		return nil, err
	}
	cfg.SMTPSecure = getString("SMTP_SECURE", "false") == "true"
	cfg.SMTPUser = os.Getenv("SMTP_USER")
	cfg.SMTPPass = os.Getenv("SMTP_PASS")
	cfg.SMTPFrom = os.Getenv("SMTP_FROM")

	return cfg, nil
}

func getString(env, def string) string {
	if v := os.Getenv(env); v != "" {
		return strings.TrimSpace(v)
	}
	return def
}

func getInt(env string, def int) (int, error) {
	v := os.Getenv(env)
	if v == "" {
		return def, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", env, err)
	}
	return i, nil
}

func getDuration(env string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(env)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", env, err)
	}
	return d, nil
}
