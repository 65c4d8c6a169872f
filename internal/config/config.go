// Package config loads the process-lifetime settings for the rectopt
// service from environment variables, with defaults that match a small,
// single-tenant deployment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Settings holds every tunable the HTTP service reads at boot. It is
// immutable once loaded; internal/engine never reads it directly — callers
// pass the two engine-relevant defaults (MaxInstances, DefaultUnitScale)
// to engine.Optimize as explicit arguments instead.
type Settings struct {
	Port               int
	LogLevel           string
	MaxBodyBytes       int64
	MaxInstances       int
	DefaultTimeLimitMS int
	DefaultRestarts    int
	MaxConcurrentJobs  int
	DefaultUnitScale   int
}

// Default returns the settings a bare `go run` gets with no environment
// overrides, matching spec.md's Configuration table.
func Default() Settings {
	return Settings{
		Port:               8080,
		LogLevel:           "info",
		MaxBodyBytes:       5 * 1024 * 1024,
		MaxInstances:       5000,
		DefaultTimeLimitMS: 800,
		DefaultRestarts:    5,
		MaxConcurrentJobs:  1,
		DefaultUnitScale:   100,
	}
}

// Load returns Default() with every field overridden by its matching
// environment variable, when present and parseable. A malformed override
// is reported as an error rather than silently ignored.
func Load() (Settings, error) {
	s := Default()

	if v, ok := lookup("PORT"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return s, fmt.Errorf("config: PORT: %w", err)
		}
		s.Port = n
	}
	if v, ok := lookup("LOG_LEVEL"); ok {
		s.LogLevel = strings.ToLower(v)
	}
	if v, ok := lookup("MAX_BODY_BYTES"); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return s, fmt.Errorf("config: MAX_BODY_BYTES: %w", err)
		}
		s.MaxBodyBytes = n
	}
	if v, ok := lookup("MAX_INSTANCES"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return s, fmt.Errorf("config: MAX_INSTANCES: %w", err)
		}
		s.MaxInstances = n
	}
	if v, ok := lookup("DEFAULT_TIME_LIMIT_MS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return s, fmt.Errorf("config: DEFAULT_TIME_LIMIT_MS: %w", err)
		}
		s.DefaultTimeLimitMS = n
	}
	if v, ok := lookup("DEFAULT_RESTARTS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return s, fmt.Errorf("config: DEFAULT_RESTARTS: %w", err)
		}
		s.DefaultRestarts = n
	}
	if v, ok := lookup("MAX_CONCURRENT_JOBS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return s, fmt.Errorf("config: MAX_CONCURRENT_JOBS: %w", err)
		}
		s.MaxConcurrentJobs = n
	}
	if v, ok := lookup("DEFAULT_UNIT_SCALE"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return s, fmt.Errorf("config: DEFAULT_UNIT_SCALE: %w", err)
		}
		s.DefaultUnitScale = n
	}

	if err := s.Validate(); err != nil {
		return s, err
	}
	return s, nil
}

// Validate rejects settings combinations that would make the service
// unable to ever accept a request.
func (s Settings) Validate() error {
	if s.Port <= 0 || s.Port > 65535 {
		return fmt.Errorf("config: PORT out of range: %d", s.Port)
	}
	if s.MaxBodyBytes <= 0 {
		return fmt.Errorf("config: MAX_BODY_BYTES must be > 0")
	}
	if s.MaxInstances <= 0 {
		return fmt.Errorf("config: MAX_INSTANCES must be > 0")
	}
	if s.DefaultTimeLimitMS < 50 {
		return fmt.Errorf("config: DEFAULT_TIME_LIMIT_MS must be >= 50")
	}
	if s.DefaultRestarts < 1 {
		return fmt.Errorf("config: DEFAULT_RESTARTS must be >= 1")
	}
	if s.MaxConcurrentJobs < 1 {
		return fmt.Errorf("config: MAX_CONCURRENT_JOBS must be >= 1")
	}
	if s.DefaultUnitScale <= 0 {
		return fmt.Errorf("config: DEFAULT_UNIT_SCALE must be > 0")
	}
	return nil
}

func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}
