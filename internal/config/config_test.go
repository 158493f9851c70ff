package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "ENV", "LOG_LEVEL", "RELAY_URL", "REDIS_ADDR", "DATABASE_URL", "OUTBOUND_TIMEOUT", "CORS_ALLOWED_ORIGINS", "ALERTS_PERMISSION_DEFAULT"} {
		t.Setenv(key, "")
	}
	cfg := Load()
	if cfg.Port != "8080" {
		t.Fatalf("expected default port, got %s", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Fatalf("expected default env, got %s", cfg.Env)
	}
	if cfg.RelayURL != "" {
		t.Fatalf("expected relay disabled by default, got %s", cfg.RelayURL)
	}
	if cfg.OutboundTimeout != 15*time.Second {
		t.Fatalf("expected default outbound timeout, got %s", cfg.OutboundTimeout)
	}
	if cfg.DrugInfoCacheTTL != 24*time.Hour {
		t.Fatalf("expected default cache ttl, got %s", cfg.DrugInfoCacheTTL)
	}
	if !cfg.AlertsPermissionDefault {
		t.Fatalf("expected alerts permission granted by default")
	}
	if len(cfg.CORSAllowedOrigins) != 2 {
		t.Fatalf("expected default cors origins, got %v", cfg.CORSAllowedOrigins)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ENV", "production")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("RELAY_URL", "http://relay:5000/")
	t.Setenv("TWILIO_CONTENT_SID", "HX123")
	t.Setenv("OUTBOUND_TIMEOUT", "3s")
	t.Setenv("SCAN_RATE_LIMIT", "1.5")
	t.Setenv("SCAN_RATE_BURST", "not-a-number")
	t.Setenv("TWILIO_BASE_URL", "http://twilio.local")
	t.Setenv("ALERTS_PERMISSION_DEFAULT", "false")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, ,https://b.example")
	cfg := Load()
	if cfg.Port != "9090" {
		t.Fatalf("expected override port, got %s", cfg.Port)
	}
	if cfg.RelayURL != "http://relay:5000" {
		t.Fatalf("expected trailing slash trimmed, got %s", cfg.RelayURL)
	}
	if cfg.TwilioContentSID != "HX123" {
		t.Fatalf("expected content sid override, got %s", cfg.TwilioContentSID)
	}
	if cfg.OutboundTimeout != 3*time.Second {
		t.Fatalf("expected outbound timeout override, got %s", cfg.OutboundTimeout)
	}
	if cfg.ScanRateLimit != 1.5 {
		t.Fatalf("expected scan rate limit override, got %v", cfg.ScanRateLimit)
	}
	if cfg.ScanRateBurst != 5 {
		t.Fatalf("expected invalid burst to fall back, got %d", cfg.ScanRateBurst)
	}
	if cfg.TwilioBaseURL != "http://twilio.local" {
		t.Fatalf("expected twilio base url override, got %s", cfg.TwilioBaseURL)
	}
	if cfg.AlertsPermissionDefault {
		t.Fatalf("expected alerts permission override")
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "https://b.example" {
		t.Fatalf("expected parsed cors origins, got %v", cfg.CORSAllowedOrigins)
	}
}
