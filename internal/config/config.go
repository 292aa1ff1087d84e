package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"golang.org/x/crypto/bcrypt"
)

// Config keeps runtime settings for the server.
type Config struct {
	ListenAddr   string   `env:"LISTEN_ADDR" envDefault:":8080"`
	DatabaseURL  string   `env:"DATABASE_URL" envDefault:"tasktracker.db"`
	BcryptCost   int      `env:"BCRYPT_COST"`
	AllowOrigins []string `env:"CORS_ALLOW_ORIGINS" envDefault:"*"`
	Debug        bool     `env:"DEBUG"`
}

// Load reads configuration from environment variables with sane defaults.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}

	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	if cfg.BcryptCost < bcrypt.MinCost || cfg.BcryptCost > bcrypt.MaxCost {
		return cfg, fmt.Errorf("BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}

	return cfg, nil
}
