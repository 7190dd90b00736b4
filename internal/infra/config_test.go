package infra

import (
	"testing"
	"time"
)

func TestLoadConfigRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET", "secret")
	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected error when DATABASE_URL is missing")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/adgen")
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.VariationCount != 3 {
		t.Fatalf("VariationCount = %d, want 3", cfg.VariationCount)
	}
	if cfg.VideoPollInterval != 10*time.Second {
		t.Fatalf("VideoPollInterval = %s, want 10s", cfg.VideoPollInterval)
	}
	if cfg.VideoPollAttempts != 12 {
		t.Fatalf("VideoPollAttempts = %d, want 12", cfg.VideoPollAttempts)
	}
	if cfg.VideoFallbackURL == "" {
		t.Fatal("VideoFallbackURL must never be empty")
	}
}

func TestLoadConfigRejectsBadVariationCount(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/adgen")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("VARIATION_COUNT", "9")
	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected error for out-of-range VARIATION_COUNT")
	}
}
