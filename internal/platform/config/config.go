// Package config loads server configuration from the environment.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Server holds every tunable the server reads at boot.
type Server struct {
	Addr   string `env:"KINGDOM_ADDR" envDefault:":8080"`
	DBPath string `env:"KINGDOM_DB_PATH" envDefault:"kingdom.db"`

	// Seed fixes the session RNG for reproducible runs. 0 seeds from
	// the clock.
	Seed int64 `env:"KINGDOM_SEED" envDefault:"0"`

	TotalDays         int  `env:"KINGDOM_TOTAL_DAYS" envDefault:"7"`
	SlotsPerDay       int  `env:"KINGDOM_SLOTS_PER_DAY" envDefault:"3"`
	AllowRepeatEvents bool `env:"KINGDOM_ALLOW_REPEAT_EVENTS" envDefault:"false"`
}

// Load reads .env when present, then the process environment.
func Load() (Server, error) {
	_ = godotenv.Load()

	var cfg Server
	if err := env.Parse(&cfg); err != nil {
		return Server{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.TotalDays <= 0 || cfg.SlotsPerDay <= 0 {
		return Server{}, fmt.Errorf("timeline must have positive days and slots, got %dx%d", cfg.TotalDays, cfg.SlotsPerDay)
	}
	return cfg, nil
}
