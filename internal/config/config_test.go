package config

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("LISTEN_ADDR", ":9090")
	t.Setenv("DATABASE_URL", "/tmp/tracker.db")
	t.Setenv("BCRYPT_COST", "4")
	t.Setenv("CORS_ALLOW_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("DEBUG", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ListenAddr != ":9090" {
		t.Fatalf("unexpected listen addr: %q", cfg.ListenAddr)
	}
	if cfg.DatabaseURL != "/tmp/tracker.db" {
		t.Fatalf("unexpected database url: %q", cfg.DatabaseURL)
	}
	if cfg.BcryptCost != 4 {
		t.Fatalf("unexpected bcrypt cost: %d", cfg.BcryptCost)
	}
	if len(cfg.AllowOrigins) != 2 || cfg.AllowOrigins[0] != "https://a.example" {
		t.Fatalf("unexpected origins: %v", cfg.AllowOrigins)
	}
	if !cfg.Debug {
		t.Fatal("expected debug enabled")
	}
}

func TestLoadDefaultBcryptCost(t *testing.T) {
	t.Setenv("BCRYPT_COST", "0")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.BcryptCost != bcrypt.DefaultCost {
		t.Fatalf("expected default cost %d, got %d", bcrypt.DefaultCost, cfg.BcryptCost)
	}
}

func TestLoadRejectsBadBcryptCost(t *testing.T) {
	t.Setenv("BCRYPT_COST", "99")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for out-of-range cost")
	}
}
