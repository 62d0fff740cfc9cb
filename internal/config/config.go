package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Config captures runtime configuration sourced from environment variables.
type Config struct {
	Environment  string
	HTTPPort     string
	DatabasePath string
	// MediaDir is the root of the filesystem blob store holding uploaded
	// documents and certificates of empanelment.
	MediaDir  string
	JWTSecret string
	// NotifyURLs are shoutrrr destinations pinged on final decisions and
	// stale-request sweeps. Empty disables external notifications.
	NotifyURLs []string
	// StaleAfter is how long a request may sit in a non-terminal state
	// before the sweep flags it.
	StaleAfter time.Duration
}

// Load reads env vars and falls back to defaults so the server can boot with
// zero configuration.
func Load() (Config, error) {
	cfg := Config{
		Environment:  getEnv("AUDIT_ENV", "development"),
		HTTPPort:     getEnv("AUDIT_HTTP_PORT", "8080"),
		DatabasePath: getEnv("AUDIT_DB_PATH", filepath.Join("data", "audit.db")),
		MediaDir:     getEnv("AUDIT_MEDIA_DIR", filepath.Join("data", "media")),
		JWTSecret:    getEnv("AUDIT_JWT_SECRET", "dev-insecure-secret"),
		NotifyURLs:   splitList(os.Getenv("AUDIT_NOTIFY_URLS")),
		StaleAfter:   7 * 24 * time.Hour,
	}

	if raw := os.Getenv("AUDIT_STALE_AFTER"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return Config{}, fmt.Errorf("parse AUDIT_STALE_AFTER: %w", err)
		}
		cfg.StaleAfter = d
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DatabasePath), 0o755); err != nil {
		return Config{}, fmt.Errorf("ensure data directory: %w", err)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}

	return fallback
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
