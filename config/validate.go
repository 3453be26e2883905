package config

import (
	"fmt"
	"net/url"
	"strings"
)

// ValidationError accumulates config validation errors.
type ValidationError struct {
	Errors []string
}

func (v *ValidationError) Error() string {
	return "config validation failed:\n  - " + strings.Join(v.Errors, "\n  - ")
}

// HasErrors reports whether any validation errors have been recorded.
func (v *ValidationError) HasErrors() bool {
	return len(v.Errors) > 0
}

// Add records a formatted validation error.
func (v *ValidationError) Add(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}

// Validate checks cfg for structural correctness. It returns a
// *ValidationError listing every problem found.
func Validate(cfg *Config) error {
	ve := &ValidationError{}

	if cfg.MaxTurns <= 0 {
		ve.Add("max_turns must be positive, got %d", cfg.MaxTurns)
	}
	validateEvents(cfg, ve)
	validateLogger(cfg, ve)
	validateRunner(cfg, ve)

	if ve.HasErrors() {
		return ve
	}
	return nil
}

func validateEvents(cfg *Config, ve *ValidationError) {
	ev := cfg.Events
	if ev.Endpoint != "" {
		u, err := url.Parse(ev.Endpoint)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			ve.Add("events.endpoint must be an http(s) URL, got %q", ev.Endpoint)
		}
	}
	if ev.MaxRetries <= 0 {
		ve.Add("events.max_retries must be positive, got %d", ev.MaxRetries)
	}
	if ev.BaseDelay < 0 {
		ve.Add("events.base_delay must not be negative")
	}
	if ev.SetID == "" {
		ve.Add("events.set_id is required")
	}
}

func validateLogger(cfg *Config, ve *ValidationError) {
	switch strings.ToLower(cfg.Logger.Level) {
	case "debug", "info", "warn", "error":
	default:
		ve.Add("logger.level %q is not one of debug, info, warn, error", cfg.Logger.Level)
	}
	switch cfg.Logger.Format {
	case "text", "json":
	default:
		ve.Add("logger.format %q is not one of text, json", cfg.Logger.Format)
	}
}

func validateRunner(cfg *Config, ve *ValidationError) {
	if cfg.Runner.MaxConcurrentRuns <= 0 {
		ve.Add("runner.max_concurrent_runs must be positive, got %d", cfg.Runner.MaxConcurrentRuns)
	}
	if cfg.Runner.DrainTimeout <= 0 {
		ve.Add("runner.drain_timeout must be positive")
	}
}
