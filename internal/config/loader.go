package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env
// vars. Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if FASTBREAK_CONFIG is set
//  3. env (prefix FASTBREAK_)
func Load() (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("FASTBREAK_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
		}
	}

	// Environment variables: FASTBREAK_ADDR, FASTBREAK_STORE_BACKEND, ...
	// Keys keep their underscores to match the koanf tags on the struct.
	envProvider := env.Provider("FASTBREAK_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "fastbreak_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	switch c.StoreBackend {
	case "file", "sqlite", "memory":
	default:
		return fmt.Errorf("%w: unknown store_backend %q", ErrInvalidConfig, c.StoreBackend)
	}
	switch c.ProjectionMode {
	case "deterministic", "stochastic":
	default:
		return fmt.Errorf("%w: unknown projection_mode %q", ErrInvalidConfig, c.ProjectionMode)
	}
	if c.Budget <= 0 || c.TeamSize <= 0 || c.SampleSize <= 0 || c.SeasonGames <= 0 {
		return fmt.Errorf("%w: budget, team_size, sample_size, and season_games must be positive", ErrInvalidConfig)
	}
	if c.PregenerateHour < 0 || c.PregenerateHour > 23 {
		return fmt.Errorf("%w: pregenerate_hour must be within 0-23", ErrInvalidConfig)
	}
	return nil
}
