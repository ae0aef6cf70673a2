package config

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("HTTP_ADDR", "")
	t.Setenv("RBSLOT_API_URL", "")
	t.Setenv("STORAGE_DRIVER", "")

	cfg := Load()
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("expected default HTTP_ADDR, got %s", cfg.HTTPAddr)
	}
	if cfg.APIBaseURL != "https://rbslot.onrender.com/api" {
		t.Fatalf("expected default API url, got %s", cfg.APIBaseURL)
	}
	if cfg.Storage.Driver != "local" {
		t.Fatalf("expected local storage driver, got %s", cfg.Storage.Driver)
	}
	if cfg.ListMaxAge != 30*time.Second {
		t.Fatalf("expected LIST_MAX_AGE 30s, got %s", cfg.ListMaxAge)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("HTTP_ADDR", ":18080")
	t.Setenv("RBSLOT_API_URL", "http://127.0.0.1:9000/api/")
	t.Setenv("UPSTREAM_TIMEOUT", "5s")
	t.Setenv("COOKIE_SECURE", "true")
	t.Setenv("CONSOLE_IDLE_TTL_SECONDS", "600")
	t.Setenv("STORAGE_DRIVER", "Redis")
	t.Setenv("REDIS_ADDR", "127.0.0.1:6379")
	t.Setenv("REDIS_DB", "3")

	cfg := Load()
	if cfg.HTTPAddr != ":18080" {
		t.Fatalf("expected HTTP_ADDR override, got %s", cfg.HTTPAddr)
	}
	if cfg.APIBaseURL != "http://127.0.0.1:9000/api" {
		t.Fatalf("expected trailing slash trimmed, got %s", cfg.APIBaseURL)
	}
	if cfg.UpstreamTimeout != 5*time.Second {
		t.Fatalf("expected UPSTREAM_TIMEOUT 5s, got %s", cfg.UpstreamTimeout)
	}
	if !cfg.CookieSecure {
		t.Fatalf("expected COOKIE_SECURE true")
	}
	if cfg.ConsoleIdleTTL != 10*time.Minute {
		t.Fatalf("expected CONSOLE_IDLE_TTL 10m, got %s", cfg.ConsoleIdleTTL)
	}
	if cfg.Storage.Driver != "redis" {
		t.Fatalf("expected redis driver, got %s", cfg.Storage.Driver)
	}
	if cfg.Storage.RedisAddr != "127.0.0.1:6379" || cfg.Storage.RedisDB != 3 {
		t.Fatalf("unexpected redis config: %+v", cfg.Storage)
	}
}
