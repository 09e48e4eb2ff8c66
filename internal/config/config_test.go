package config

import (
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.AppEnv != EnvDev {
		t.Fatalf("expected dev env, got %s", cfg.AppEnv)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("expected default addr, got %s", cfg.HTTPAddr)
	}
	if cfg.ReadTimeout != 10*time.Second || cfg.WriteTimeout != 30*time.Second {
		t.Fatalf("unexpected timeouts %v/%v", cfg.ReadTimeout, cfg.WriteTimeout)
	}
	if !cfg.CacheEnabled || cfg.CacheTTL != 30*time.Second {
		t.Fatalf("unexpected cache defaults %v/%v", cfg.CacheEnabled, cfg.CacheTTL)
	}
	if cfg.DraftPollInterval != 3*time.Second {
		t.Fatalf("expected 3s poll interval, got %v", cfg.DraftPollInterval)
	}
	if cfg.AdminToken != "local-admin" {
		t.Fatalf("expected dev admin token fallback, got %q", cfg.AdminToken)
	}
	if cfg.CricfeedEnabled {
		t.Fatal("expected the stats feed disabled by default")
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Fatalf("expected info log level, got %v", cfg.LogLevel)
	}
	if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "*" {
		t.Fatalf("unexpected CORS defaults %v", cfg.CORSAllowedOrigins)
	}
}

func TestLoad_InvalidAppEnv(t *testing.T) {
	t.Setenv("APP_ENV", "sandbox")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for invalid APP_ENV")
	}
}

func TestLoad_AdminTokenRequiredOutsideDev(t *testing.T) {
	t.Setenv("APP_ENV", "prod")

	_, err := Load()
	if err == nil || !strings.Contains(err.Error(), "ADMIN_TOKEN") {
		t.Fatalf("expected ADMIN_TOKEN requirement, got %v", err)
	}

	t.Setenv("ADMIN_TOKEN", "prod-secret")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load with admin token: %v", err)
	}
	if cfg.AdminToken != "prod-secret" {
		t.Fatalf("expected configured token, got %q", cfg.AdminToken)
	}
}

func TestLoad_CricfeedTokenRequiredWhenEnabled(t *testing.T) {
	t.Setenv("CRICFEED_ENABLED", "true")

	_, err := Load()
	if err == nil || !strings.Contains(err.Error(), "CRICFEED_TOKEN") {
		t.Fatalf("expected CRICFEED_TOKEN requirement, got %v", err)
	}

	t.Setenv("CRICFEED_TOKEN", "feed-secret")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load with feed token: %v", err)
	}
	if !cfg.CricfeedEnabled || cfg.CricfeedToken != "feed-secret" {
		t.Fatalf("unexpected feed config %v/%q", cfg.CricfeedEnabled, cfg.CricfeedToken)
	}
}

func TestLoad_RejectsMalformedValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"bad read timeout", "HTTP_READ_TIMEOUT", "fast"},
		{"negative read timeout", "HTTP_READ_TIMEOUT", "-1s"},
		{"bad cache flag", "CACHE_ENABLED", "yep"},
		{"bad poll interval", "DRAFT_POLL_INTERVAL", "3"},
		{"zero poll interval", "DRAFT_POLL_INTERVAL", "0s"},
		{"bad retry count", "CRICFEED_MAX_RETRIES", "one"},
		{"negative retry count", "CRICFEED_MAX_RETRIES", "-1"},
		{"zero prefetch size", "CRICFEED_PREFETCH_SIZE", "0"},
		{"zero circuit threshold", "CRICFEED_CIRCUIT_FAILURE_COUNT", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%s", tt.key, tt.value)
			}
		})
	}
}

func TestLoad_DevUserTokens(t *testing.T) {
	t.Setenv("DEV_USER_TOKENS", "tok-a:user-1, tok-b:user-2")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(cfg.DevUserTokens) != 2 {
		t.Fatalf("expected 2 dev tokens, got %d", len(cfg.DevUserTokens))
	}
	if cfg.DevUserTokens["tok-a"] != "user-1" || cfg.DevUserTokens["tok-b"] != "user-2" {
		t.Fatalf("unexpected token map %v", cfg.DevUserTokens)
	}
}

func TestParseTokenMap(t *testing.T) {
	if _, err := parseTokenMap("no-separator"); err == nil {
		t.Fatal("expected error for missing separator")
	}
	if _, err := parseTokenMap("tok: "); err == nil {
		t.Fatal("expected error for empty user id")
	}

	out, err := parseTokenMap("")
	if err != nil || len(out) != 0 {
		t.Fatalf("expected empty map for empty input, got %v err %v", out, err)
	}
}

func TestSplitCSV(t *testing.T) {
	got := splitCSV(" https://a.example , ,https://b.example")
	if len(got) != 2 || got[0] != "https://a.example" || got[1] != "https://b.example" {
		t.Fatalf("unexpected split %v", got)
	}
}
