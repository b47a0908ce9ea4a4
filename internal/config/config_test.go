package config

import (
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
)

func env(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv(env(map[string]string{
		"DATABASE_URL": "sqlite::memory:",
		"JWT_SECRET":   "s3cret",
	}))
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.AppPort != "8080" {
		t.Fatalf("expected default port 8080, got %q", cfg.AppPort)
	}
	if cfg.SessionTTL != 24*time.Hour {
		t.Fatalf("expected 24h session ttl, got %v", cfg.SessionTTL)
	}
	if cfg.BcryptCost != bcrypt.DefaultCost {
		t.Fatalf("expected default bcrypt cost, got %d", cfg.BcryptCost)
	}
	if cfg.RedisAddr != "" || cfg.CookieSecure || cfg.LogJSON {
		t.Fatalf("unexpected optional values: %+v", cfg)
	}
	if cfg.LogLevel != "info" || cfg.AppVersion != "dev" {
		t.Fatalf("unexpected log level/version: %q %q", cfg.LogLevel, cfg.AppVersion)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	cfg, err := FromEnv(env(map[string]string{
		"DATABASE_URL":      "postgres://localhost/todo",
		"JWT_SECRET":        "s3cret",
		"APP_PORT":          "9000",
		"SESSION_TTL_HOURS": "2",
		"REDIS_ADDR":        "localhost:6379",
		"REDIS_DB":          "3",
		"BCRYPT_COST":       "12",
		"COOKIE_SECURE":     "true",
		"LOG_JSON":          "true",
		"LOG_LEVEL":         "debug",
	}))
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.AppPort != "9000" || cfg.SessionTTL != 2*time.Hour || cfg.RedisDB != 3 || cfg.BcryptCost != 12 {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if !cfg.CookieSecure || !cfg.LogJSON || cfg.LogLevel != "debug" || cfg.RedisAddr != "localhost:6379" {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
}

func TestFromEnvRequired(t *testing.T) {
	if _, err := FromEnv(env(map[string]string{"JWT_SECRET": "x"})); err == nil {
		t.Fatalf("expected error without DATABASE_URL")
	}
	if _, err := FromEnv(env(map[string]string{"DATABASE_URL": "x"})); err == nil {
		t.Fatalf("expected error without JWT_SECRET")
	}
}

func TestFromEnvRejectsBadBcryptCost(t *testing.T) {
	_, err := FromEnv(env(map[string]string{
		"DATABASE_URL": "x",
		"JWT_SECRET":   "x",
		"BCRYPT_COST":  "2",
	}))
	if err == nil {
		t.Fatalf("expected error for bcrypt cost below minimum")
	}
}
