package config

import (
	"log/slog"
	"slices"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 8080 || cfg.StoreDriver != "sqlite" {
		t.Errorf("defaults = %+v", cfg)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("STORE_DRIVER", "postgres")
	t.Setenv("ALLOWED_ORIGINS", " http://a.test , ,http://b.test")
	t.Setenv("LOG_LEVEL", "DEBUG")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 9090 || cfg.StoreDriver != "postgres" {
		t.Errorf("env not applied: %+v", cfg)
	}
	if got, want := cfg.Origins(), []string{"http://a.test", "http://b.test"}; !slices.Equal(got, want) {
		t.Errorf("Origins = %v, want %v", got, want)
	}
	if cfg.SlogLevel() != slog.LevelDebug {
		t.Errorf("SlogLevel = %v, want debug", cfg.SlogLevel())
	}
}

func TestLoadRejectsBadPort(t *testing.T) {
	t.Setenv("PORT", "eighty")
	if _, err := Load(); err == nil {
		t.Error("Load accepted a non-numeric port")
	}
}
