// Package config loads runtime settings from the environment.
package config

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/MJE43/tennis-sim-go/internal/engine"
	"github.com/MJE43/tennis-sim-go/internal/tennis"
)

// Config holds every TENNIS_* setting. CLI flags override these.
type Config struct {
	LogLevel  string `env:"TENNIS_LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"TENNIS_LOG_FORMAT" envDefault:"console"`

	HTTPAddr string `env:"TENNIS_HTTP_ADDR" envDefault:":8080"`
	DBPath   string `env:"TENNIS_DB_PATH" envDefault:"tennis.db"`

	Workers       int    `env:"TENNIS_WORKERS" envDefault:"0"`
	DefaultTrials int    `env:"TENNIS_DEFAULT_TRIALS" envDefault:"1000"`
	MaxTrials     int    `env:"TENNIS_MAX_TRIALS" envDefault:"1000000"`
	TimeoutMs     int    `env:"TENNIS_TIMEOUT_MS" envDefault:"30000"`
	Format        string `env:"TENNIS_FORMAT" envDefault:"classic"`
	Model         string `env:"TENNIS_MODEL" envDefault:"tight"`
	TiePolicy     string `env:"TENNIS_TIE_POLICY" envDefault:"player_two"`

	ServerSeed string `env:"TENNIS_SERVER_SEED"`
	ClientSeed string `env:"TENNIS_CLIENT_SEED"`
}

// Load reads the given .env files (or ./.env when none are named, ignoring
// its absence) and then parses the environment.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		_ = godotenv.Load()
	} else if err := godotenv.Load(files...); err != nil {
		return Config{}, fmt.Errorf("load env files: %w", err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks numeric bounds and preset names.
func (c Config) Validate() error {
	var errs []error
	if c.DefaultTrials < 1 {
		errs = append(errs, fmt.Errorf("TENNIS_DEFAULT_TRIALS must be >= 1, got %d", c.DefaultTrials))
	}
	if c.MaxTrials < c.DefaultTrials {
		errs = append(errs, fmt.Errorf("TENNIS_MAX_TRIALS (%d) below TENNIS_DEFAULT_TRIALS (%d)", c.MaxTrials, c.DefaultTrials))
	}
	if c.Workers < 0 {
		errs = append(errs, fmt.Errorf("TENNIS_WORKERS must be >= 0, got %d", c.Workers))
	}
	if c.TimeoutMs < 0 {
		errs = append(errs, fmt.Errorf("TENNIS_TIMEOUT_MS must be >= 0, got %d", c.TimeoutMs))
	}
	if _, err := tennis.ScoringPreset(c.Format); err != nil {
		errs = append(errs, fmt.Errorf("TENNIS_FORMAT: %w", err))
	}
	if _, err := tennis.PointModelPreset(c.Model); err != nil {
		errs = append(errs, fmt.Errorf("TENNIS_MODEL: %w", err))
	}
	if _, err := tennis.ParseTiePolicy(c.TiePolicy); err != nil {
		errs = append(errs, fmt.Errorf("TENNIS_TIE_POLICY: %w", err))
	}
	return errors.Join(errs...)
}

// Seeds returns the configured seed pair; it is the zero value when unset.
func (c Config) Seeds() engine.Seeds {
	return engine.Seeds{Server: c.ServerSeed, Client: c.ClientSeed}
}
