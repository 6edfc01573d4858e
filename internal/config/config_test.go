package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != "8082" {
		t.Errorf("default port = %q", cfg.Port)
	}
	if cfg.TokenBackend != "sqlite" {
		t.Errorf("default token backend = %q", cfg.TokenBackend)
	}
	if cfg.DetailCacheSize != 100 {
		t.Errorf("default cache size = %d", cfg.DetailCacheSize)
	}
	if cfg.DetailCacheTTL != 30*time.Minute {
		t.Errorf("default cache ttl = %v", cfg.DetailCacheTTL)
	}
	if cfg.GoogleSheetName != "Bonnetjes" {
		t.Errorf("default sheet name = %q", cfg.GoogleSheetName)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("TOKEN_BACKEND", "bolt")
	t.Setenv("LOGIN_HEADLESS", "true")
	t.Setenv("DETAIL_CACHE_TTL", "5m")

	cfg := Load()
	if cfg.Port != "9090" || cfg.TokenBackend != "bolt" {
		t.Fatalf("env overrides not applied: %+v", cfg)
	}
	if !cfg.LoginHeadless {
		t.Fatalf("expected headless login")
	}
	if cfg.DetailCacheTTL != 5*time.Minute {
		t.Fatalf("cache ttl = %v", cfg.DetailCacheTTL)
	}
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()

	valid := &Config{
		Port:            "8082",
		TokenBackend:    "sqlite",
		TokenDBPath:     dir + "/tokens.db",
		DetailCacheSize: 10,
		DetailCacheTTL:  time.Minute,
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"bad port", func(c *Config) { c.Port = "nope" }, "invalid port"},
		{"port out of range", func(c *Config) { c.Port = "70000" }, "invalid port"},
		{"bad backend", func(c *Config) { c.TokenBackend = "redis" }, "invalid token backend"},
		{"missing db path", func(c *Config) { c.TokenDBPath = "" }, "token db path"},
		{"bad amqp scheme", func(c *Config) { c.AMQPURL = "http://broker" }, "invalid AMQP URL scheme"},
		{"empty amqp queue", func(c *Config) { c.AMQPURL = "amqp://guest@localhost"; c.AMQPQueue = "" }, "queue name"},
		{"zero cache size", func(c *Config) { c.DetailCacheSize = 0 }, "cache size"},
		{"tiny cache ttl", func(c *Config) { c.DetailCacheTTL = time.Millisecond }, "cache TTL"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := *valid
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatalf("expected error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}
