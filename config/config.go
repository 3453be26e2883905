// Package config loads run settings from defaults, an optional YAML file and
// environment variables, in that order of precedence.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// EventsConfig holds event delivery settings.
type EventsConfig struct {
	Endpoint   string        `yaml:"endpoint"`    // empty disables delivery
	APIKey     string        `yaml:"api_key"`
	MaxRetries int           `yaml:"max_retries"` // attempts per event
	BaseDelay  time.Duration `yaml:"base_delay"`  // doubles per attempt
	SetID      string        `yaml:"set_id"`
}

// LoggerConfig holds logger settings.
type LoggerConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
}

// RunnerConfig holds parallel run settings.
type RunnerConfig struct {
	MaxConcurrentRuns int           `yaml:"max_concurrent_runs"`
	DrainTimeout      time.Duration `yaml:"drain_timeout"`
}

// Config is the top-level configuration.
type Config struct {
	MaxTurns int          `yaml:"max_turns"`
	Verbose  bool         `yaml:"verbose"`
	Debug    bool         `yaml:"debug"`
	CacheKey string       `yaml:"cache_key"`
	Events   EventsConfig `yaml:"events"`
	Logger   LoggerConfig `yaml:"logger"`
	Runner   RunnerConfig `yaml:"runner"`
}

// Defaults returns the built-in configuration.
func Defaults() *Config {
	return &Config{
		MaxTurns: 10,
		Events: EventsConfig{
			MaxRetries: 3,
			BaseDelay:  500 * time.Millisecond,
			SetID:      "default",
		},
		Logger: LoggerConfig{
			Level:  "info",
			Format: "text",
		},
		Runner: RunnerConfig{
			MaxConcurrentRuns: 10,
			DrainTimeout:      30 * time.Second,
		},
	}
}

// Load reads path over the defaults, applies environment overrides and
// validates the result. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
		case os.IsNotExist(err):
		default:
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	ApplyEnvOverrides(cfg)
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnvOverrides overlays environment variables onto cfg. Malformed
// numeric and boolean values are ignored.
func ApplyEnvOverrides(cfg *Config) {
	if v := os.Getenv("LANGWATCH_ENDPOINT"); v != "" {
		cfg.Events.Endpoint = v
	}
	if v := os.Getenv("LANGWATCH_API_KEY"); v != "" {
		cfg.Events.APIKey = v
	}
	if v := os.Getenv("SCENARIO_MAX_TURNS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxTurns = n
		}
	}
	if v := os.Getenv("SCENARIO_VERBOSE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Verbose = b
		}
	}
	if v := os.Getenv("SCENARIO_DEBUG"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Debug = b
		}
	}
	if v := os.Getenv("SCENARIO_CACHE_KEY"); v != "" {
		cfg.CacheKey = v
	}
	if v := os.Getenv("SCENARIO_EVENTS_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Events.MaxRetries = n
		}
	}
	if v := os.Getenv("SCENARIO_SET_ID"); v != "" {
		cfg.Events.SetID = v
	}
	if v := os.Getenv("SCENARIO_LOG_LEVEL"); v != "" {
		cfg.Logger.Level = v
	}
	if v := os.Getenv("SCENARIO_MAX_CONCURRENT_RUNS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Runner.MaxConcurrentRuns = n
		}
	}
}
