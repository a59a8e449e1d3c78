// Package config loads the YAML configuration shared by the ingest and server commands.
package config

import "time"

// Config is the root of the configuration file.
type Config struct {
	Log      LogConfig      `yaml:"log"`
	Upstream UpstreamConfig `yaml:"upstream"`
	Ingest   IngestConfig   `yaml:"ingest"`
	Retry    RetryConfig    `yaml:"retry"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Catalog  CatalogConfig  `yaml:"catalog"`
	Server   ServerConfig   `yaml:"server"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
}

// UpstreamConfig configures the quote source client.
type UpstreamConfig struct {
	BaseURL         string        `yaml:"base_url"`
	Timeout         time.Duration `yaml:"timeout"`
	UserAgent       string        `yaml:"user_agent"`
	MalformedPolicy string        `yaml:"malformed_policy"` // retry or skip
	RateLimit       int           `yaml:"rate_limit"`       // requests per rate_interval across all securities; 0 = unlimited
	RateInterval    time.Duration `yaml:"rate_interval"`
}

type IngestConfig struct {
	Concurrency   int           `yaml:"concurrency"`
	PendingWrites int           `yaml:"pending_writes"`
	Interval      time.Duration `yaml:"interval"` // 0 = run the catalog once and exit
}

// RetryConfig is the per-page fetch retry policy.
// MaxAttempts is a pointer so that an explicit 0 (unbounded) survives applyDefaults.
type RetryConfig struct {
	Strategy    string        `yaml:"strategy"` // fixed or exponential
	Delay       time.Duration `yaml:"delay"`
	MaxDelay    time.Duration `yaml:"max_delay"`
	MaxAttempts *int          `yaml:"max_attempts"`
	MaxElapsed  time.Duration `yaml:"max_elapsed"`
}

type DatabaseConfig struct {
	Driver          string        `yaml:"driver"` // postgres or sqlite
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	Name            string        `yaml:"name"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	SSLMode         string        `yaml:"ssl_mode"`
	Path            string        `yaml:"path"` // sqlite file
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnectTimeout  time.Duration `yaml:"connect_timeout"`
	Migrate         bool          `yaml:"migrate"`
	UniqueTimeIndex bool          `yaml:"unique_time_index"`
}

type RedisConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Host     string        `yaml:"host"`
	Port     int           `yaml:"port"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"` // 0 = until the next Frankfurt trading-day rollover
}

type CatalogConfig struct {
	Files       []string `yaml:"files"`
	UseDatabase bool     `yaml:"use_database"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
	Path    string `yaml:"path"`
}
