package config

import (
	"testing"
	"time"
)

func TestIsDev(t *testing.T) {
	for env, want := range map[string]bool{
		"dev":        true,
		"test":       true,
		"":           true,
		"prod":       false,
		"production": false,
	} {
		if got := (Config{Env: env}).IsDev(); got != want {
			t.Errorf("IsDev(%q) = %v, want %v", env, got, want)
		}
	}
}

func TestEnvIntDef(t *testing.T) {
	t.Setenv("X_INT", "30")
	if got := envIntDef("X_INT", 60); got != 30 {
		t.Errorf("envIntDef set = %d, want 30", got)
	}
	if got := envIntDef("X_INT_UNSET", 60); got != 60 {
		t.Errorf("envIntDef unset = %d, want 60", got)
	}
	t.Setenv("X_INT_BAD", "abc")
	if got := envIntDef("X_INT_BAD", 60); got != 60 {
		t.Errorf("envIntDef malformed = %d, want fallback 60", got)
	}
}

func TestLoadCacheConfigDefaults(t *testing.T) {
	cfg := LoadCacheConfig()
	if !cfg.Enabled {
		t.Error("cache should default to enabled")
	}
	if !cfg.Methods["GET"] {
		t.Error("GET should be cacheable by default")
	}
	if cfg.TTL != 15*time.Second {
		t.Errorf("TTL = %v, want 15s", cfg.TTL)
	}
}

func TestLoadRateLimitConfigClamps(t *testing.T) {
	t.Setenv("RATE_LIMIT_CAPACITY", "0")
	t.Setenv("RATE_LIMIT_REFILL_TOKENS", "-3")
	t.Setenv("RATE_LIMIT_TTL", "1ms")
	cfg := LoadRateLimitConfig()
	if cfg.Capacity < 1 {
		t.Errorf("Capacity = %d, want >= 1", cfg.Capacity)
	}
	if cfg.RefillTokens < 1 {
		t.Errorf("RefillTokens = %d, want >= 1", cfg.RefillTokens)
	}
	if cfg.TTL < 5*cfg.RefillInterval {
		t.Errorf("TTL = %v, want >= 5x refill interval %v", cfg.TTL, cfg.RefillInterval)
	}
}
