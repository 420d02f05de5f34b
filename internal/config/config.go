// Package config loads the process configuration from the environment.
//
// The Config struct is built once in main and passed by value into the
// server — nothing reads environment variables after startup, and no
// package holds configuration in a global.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds every runtime setting the server needs.
//
// JWTSecret signs and verifies identity tokens; it has no default on
// purpose — the server refuses to start without one. FrontendOrigin is
// the single origin allowed by CORS.
type Config struct {
	Port           int           `env:"PORT"            envDefault:"8080"`
	DBPath         string        `env:"DB_PATH"         envDefault:"data/snippethub.db"`
	JWTSecret      string        `env:"JWT_SECRET"`
	TokenTTL       time.Duration `env:"TOKEN_TTL"       envDefault:"6h"`
	FrontendOrigin string        `env:"FRONTEND_ORIGIN" envDefault:"http://localhost:5173"`
}

// Load reads an optional .env file, then parses the environment into a
// Config. A missing .env is not an error — deployments usually set real
// environment variables instead.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: parsing environment: %w", err)
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("config: JWT_SECRET is required")
	}

	return cfg, nil
}
