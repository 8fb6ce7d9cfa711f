// Package config loads envsecrets settings from ENVSECRETS_* environment variables.
//
// Precedence (highest to lowest):
//  1. CLI flags
//  2. Environment variables
//  3. Built-in defaults
//
// Flags are applied by the command layer on top of the [Config] returned by [Load].
package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Report formats accepted for dry-run output.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Config holds the tool settings.
type Config struct {
	EnvFile        string `env:"ENVSECRETS_FILE"            envDefault:".env"`
	Profile        string `env:"ENVSECRETS_PROFILE"         envDefault:"supabase"`
	RulesFile      string `env:"ENVSECRETS_RULES"`
	OverridePrefix string `env:"ENVSECRETS_OVERRIDE_PREFIX" envDefault:"GENERATE_"`
	Format         string `env:"ENVSECRETS_FORMAT"          envDefault:"text"`
	Verbose        bool   `env:"ENVSECRETS_VERBOSE"`
}

// Load parses configuration from environ. A nil map reads the process environment.
func Load(environ map[string]string) (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: environ}); err != nil {
		return Config{}, fmt.Errorf("config.Load: %w", err)
	}
	cfg.Format = strings.ToLower(strings.TrimSpace(cfg.Format))
	return cfg, nil
}

// ValidFormat reports whether f is a supported report format.
func ValidFormat(f string) bool {
	switch f {
	case FormatText, FormatJSON:
		return true
	}
	return false
}
