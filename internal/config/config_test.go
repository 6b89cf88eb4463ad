package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("ENV", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("CURRENCY", "")
	t.Setenv("FLIGHT_CACHE_TTL", "")
	cfg := Load()
	if cfg.Port != "8080" {
		t.Fatalf("expected default port, got %s", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Fatalf("expected default env, got %s", cfg.Env)
	}
	if cfg.Currency != "USD" {
		t.Fatalf("expected default currency, got %s", cfg.Currency)
	}
	if cfg.PageSize != 3 {
		t.Fatalf("expected default page size 3, got %d", cfg.PageSize)
	}
	if cfg.FlightCacheTTL != 15*time.Minute {
		t.Fatalf("expected default flight cache TTL, got %s", cfg.FlightCacheTTL)
	}
	if cfg.BusCacheTTL != 30*time.Minute {
		t.Fatalf("expected default bus cache TTL, got %s", cfg.BusCacheTTL)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("CURRENCY", "ZAR")
	t.Setenv("OFFER_LIMIT", "50")
	t.Setenv("FLIGHT_CACHE_TTL", "5m")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	cfg := Load()
	if cfg.Port != "9090" {
		t.Fatalf("expected overridden port, got %s", cfg.Port)
	}
	if cfg.Currency != "ZAR" {
		t.Fatalf("expected overridden currency, got %s", cfg.Currency)
	}
	if cfg.OfferLimit != 50 {
		t.Fatalf("expected overridden offer limit, got %d", cfg.OfferLimit)
	}
	if cfg.FlightCacheTTL != 5*time.Minute {
		t.Fatalf("expected overridden flight cache TTL, got %s", cfg.FlightCacheTTL)
	}
	if cfg.RedisAddr != "localhost:6379" {
		t.Fatalf("expected overridden redis addr, got %s", cfg.RedisAddr)
	}
}

func TestValidateRequiresToken(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	cfg := Load()
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error without TELEGRAM_BOT_TOKEN")
	}
	if !strings.Contains(err.Error(), "TELEGRAM_BOT_TOKEN") {
		t.Fatalf("error should name the missing setting, got %v", err)
	}

	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	if err := Load().Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
}
