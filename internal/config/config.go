// Package config loads process configuration from the environment.
// Everything is read once at startup; a missing API key is fatal.
package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/joeshaw/envdecode"

	"github.com/hunter-mcp/hunter-mcp-go/internal/retry"
)

// Config is the process configuration. Delay values are in milliseconds,
// matching the documented environment contract.
type Config struct {
	// APIKey authenticates every outbound Hunter call. ENV: HUNTER_API_KEY
	APIKey string `env:"HUNTER_API_KEY,required"`
	// BaseURL overrides the Hunter API root, mainly for tests and proxies.
	BaseURL string `env:"HUNTER_BASE_URL,default=https://api.hunter.io/v2"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `env:"HUNTER_LOG_LEVEL,default=info"`

	RetryMaxAttempts    int     `env:"HUNTER_RETRY_MAX_ATTEMPTS,default=3"`
	RetryInitialDelayMS int64   `env:"HUNTER_RETRY_INITIAL_DELAY,default=1000"`
	RetryMaxDelayMS     int64   `env:"HUNTER_RETRY_MAX_DELAY,default=10000"`
	RetryBackoffFactor  float64 `env:"HUNTER_RETRY_BACKOFF_FACTOR,default=2"`
}

// Load populates a Config via envdecode and validates it.
func Load() (*Config, error) {
	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	if err := cfg.RetryPolicy().Validate(); err != nil {
		return nil, err
	}
	if _, err := cfg.SlogLevel(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// RetryPolicy converts the millisecond knobs into a retry.Policy.
func (c *Config) RetryPolicy() retry.Policy {
	return retry.Policy{
		MaxAttempts:   c.RetryMaxAttempts,
		InitialDelay:  time.Duration(c.RetryInitialDelayMS) * time.Millisecond,
		MaxDelay:      time.Duration(c.RetryMaxDelayMS) * time.Millisecond,
		BackoffFactor: c.RetryBackoffFactor,
	}
}

// SlogLevel parses the configured log level.
func (c *Config) SlogLevel() (slog.Level, error) {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", c.LogLevel)
	}
}
