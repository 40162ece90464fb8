// Package config handles application configuration and environment loading.
package config

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// Config holds the process-level configuration. Per-invocation settings
// (warehouse target, FTP credentials) arrive on the trigger instead.
type Config struct {
	ListenAddr string // HTTP listen address (default ":8080")
	ScratchDir string // base directory for per-invocation scratch dirs (default os.TempDir())
	RunLogPath string // SQLite run-log path; empty disables the run log
	LogLevel   string // log level: debug, info, warn, error (default "info")
	Env        string // environment: "development" (default) or "production"

	// Trigger transports. Both are optional; the push endpoint is always on.
	ProjectID          string // GCP project for the Pub/Sub client
	PubSubSubscription string // pull subscription ID; empty disables the subscriber
	PushAudience       string // OIDC audience for push auth; empty disables verification
	PushIssuerURL      string // OIDC issuer (default "https://accounts.google.com")

	// Archive copy of the fetched file after a successful load.
	ArchiveBucket string // GCS bucket; empty disables archiving

	// Cron self-trigger definition file (YAML); empty disables it.
	SchedulePath string

	// Rate limiting for the push endpoint.
	RateLimitRPS   float64 // sustained requests per second (default 10)
	RateLimitBurst int     // burst capacity (default 20)

	// Warnings collects non-fatal warnings generated during config loading.
	// These are logged by the caller after the logger is initialised.
	Warnings []string
}

// SlogLevel maps the LogLevel string to an slog.Level.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// IsProduction returns true when the service is running in production mode.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// LoadFromEnv loads configuration from environment variables.
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		ListenAddr:         os.Getenv("LISTEN_ADDR"),
		ScratchDir:         os.Getenv("SCRATCH_DIR"),
		RunLogPath:         os.Getenv("RUNLOG_PATH"),
		LogLevel:           os.Getenv("LOG_LEVEL"),
		Env:                os.Getenv("ENV"),
		ProjectID:          os.Getenv("PROJECT_ID"),
		PubSubSubscription: os.Getenv("PUBSUB_SUBSCRIPTION"),
		PushAudience:       os.Getenv("PUSH_AUTH_AUDIENCE"),
		PushIssuerURL:      os.Getenv("PUSH_AUTH_ISSUER"),
		ArchiveBucket:      os.Getenv("ARCHIVE_BUCKET"),
		SchedulePath:       os.Getenv("SCHEDULE_PATH"),
	}

	if v := os.Getenv("RATE_LIMIT_RPS"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.RateLimitRPS = f
		}
	}
	if v := os.Getenv("RATE_LIMIT_BURST"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.RateLimitBurst = n
		}
	}

	// Defaults
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":8080"
	}
	if cfg.ScratchDir == "" {
		cfg.ScratchDir = os.TempDir()
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.PushIssuerURL == "" {
		cfg.PushIssuerURL = "https://accounts.google.com"
	}
	if cfg.RateLimitRPS == 0 {
		cfg.RateLimitRPS = 10
	}
	if cfg.RateLimitBurst == 0 {
		cfg.RateLimitBurst = 20
	}

	if cfg.PubSubSubscription != "" && cfg.ProjectID == "" {
		return nil, fmt.Errorf("PROJECT_ID is required when PUBSUB_SUBSCRIPTION is set")
	}
	if cfg.RunLogPath == "" {
		cfg.Warnings = append(cfg.Warnings, "RUNLOG_PATH not set, run history disabled")
	}

	// Production mode: insecure defaults are fatal errors.
	if cfg.IsProduction() && cfg.PushAudience == "" {
		return nil, fmt.Errorf("PUSH_AUTH_AUDIENCE must be set in production (ENV=production)")
	}

	return cfg, nil
}

// LoadDotEnv reads a .env file and sets any variables not already in the
// environment. Lines must be in KEY=VALUE format. Comments (#) and blank
// lines are skipped.
func LoadDotEnv(path string) error {
	f, err := os.Open(path) //nolint:gosec // path is caller-controlled
	if err != nil {
		if os.IsNotExist(err) {
			return nil // .env not found is not an error
		}
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		value = stripQuotes(value)
		// Only set if not already in the environment (env vars take precedence)
		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("setenv %s: %w", key, err)
			}
		}
	}
	return scanner.Err()
}

// stripQuotes removes surrounding double or single quotes from a value.
// Only strips if both the first and last characters are matching quotes.
func stripQuotes(s string) string {
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
