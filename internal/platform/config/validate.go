package config

import (
	"errors"
	"fmt"
	"slices"
)

// Validate checks that all required fields are set and values are valid.
func (c *Config) Validate() error {
	if !slices.Contains([]string{"debug", "info", "warn", "error"}, c.Log.Level) {
		return fmt.Errorf("log.level must be debug, info, warn or error, got %q", c.Log.Level)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}

	if c.Upstream.MalformedPolicy != "retry" && c.Upstream.MalformedPolicy != "skip" {
		return fmt.Errorf("upstream.malformed_policy must be retry or skip, got %q", c.Upstream.MalformedPolicy)
	}
	if c.Upstream.RateLimit < 0 {
		return errors.New("upstream.rate_limit must be >= 0")
	}

	if c.Ingest.Concurrency < 1 {
		return errors.New("ingest.concurrency must be >= 1")
	}
	if c.Ingest.PendingWrites < 1 {
		return errors.New("ingest.pending_writes must be >= 1")
	}
	if c.Ingest.Interval < 0 {
		return errors.New("ingest.interval must be >= 0")
	}

	if c.Retry.Strategy != "fixed" && c.Retry.Strategy != "exponential" {
		return fmt.Errorf("retry.strategy must be fixed or exponential, got %q", c.Retry.Strategy)
	}
	if c.Retry.Delay < 0 || c.Retry.MaxDelay < 0 || c.Retry.MaxElapsed < 0 {
		return errors.New("retry delays must be >= 0")
	}
	if c.Retry.MaxAttempts != nil && *c.Retry.MaxAttempts < 0 {
		return errors.New("retry.max_attempts must be >= 0")
	}

	if err := c.Database.validate("database"); err != nil {
		return err
	}

	if c.Redis.Enabled && c.Redis.Host == "" {
		return errors.New("redis.host is required when redis is enabled")
	}
	return nil
}

func (db *DatabaseConfig) validate(prefix string) error {
	switch db.Driver {
	case "sqlite":
		if db.Path == "" {
			return fmt.Errorf("%s.path is required for sqlite", prefix)
		}
	case "postgres":
		if db.Host == "" {
			return fmt.Errorf("%s.host is required", prefix)
		}
		if db.Name == "" {
			return fmt.Errorf("%s.name is required", prefix)
		}
		if db.User == "" {
			return fmt.Errorf("%s.user is required", prefix)
		}
		if db.Port < 1 || db.Port > 65535 {
			return fmt.Errorf("%s.port must be between 1 and 65535, got %d", prefix, db.Port)
		}
	default:
		return fmt.Errorf("%s.driver must be postgres or sqlite, got %q", prefix, db.Driver)
	}
	if db.MaxOpenConns < 1 {
		return fmt.Errorf("%s.max_open_conns must be >= 1", prefix)
	}
	return nil
}
