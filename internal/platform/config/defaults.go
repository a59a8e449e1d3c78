package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultLogLevel        = "info"
	DefaultLogFormat       = "text"
	DefaultBaseURL         = "https://www.tradegate.de"
	DefaultUpstreamTimeout = 10 * time.Second
	DefaultMalformedPolicy = "retry"
	DefaultRateInterval    = time.Second
	DefaultConcurrency     = 4
	DefaultPendingWrites   = 4
	DefaultRetryStrategy   = "fixed"
	DefaultRetryDelay      = 3 * time.Second
	DefaultRetryMaxDelay   = time.Minute
	DefaultMaxAttempts     = 10
	DefaultDBDriver        = "postgres"
	DefaultDBPort          = 5432
	DefaultDBSSLMode       = "disable"
	DefaultSQLitePath      = "ticks.db"
	DefaultMaxOpenConns    = 10
	DefaultMaxIdleConns    = 5
	DefaultConnectTimeout  = 60 * time.Second
	DefaultRedisPort       = 6379
	DefaultServerAddr      = ":8080"
	DefaultMetricsAddr     = ":9090"
	DefaultMetricsPath     = "/metrics"
)

func (c *Config) applyDefaults() {
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = DefaultLogFormat
	}

	// Upstream defaults
	if c.Upstream.BaseURL == "" {
		c.Upstream.BaseURL = DefaultBaseURL
	}
	if c.Upstream.Timeout == 0 {
		c.Upstream.Timeout = DefaultUpstreamTimeout
	}
	if c.Upstream.MalformedPolicy == "" {
		c.Upstream.MalformedPolicy = DefaultMalformedPolicy
	}
	if c.Upstream.RateInterval == 0 {
		c.Upstream.RateInterval = DefaultRateInterval
	}

	// Ingest defaults
	if c.Ingest.Concurrency == 0 {
		c.Ingest.Concurrency = DefaultConcurrency
	}
	if c.Ingest.PendingWrites == 0 {
		c.Ingest.PendingWrites = DefaultPendingWrites
	}

	// Retry defaults
	if c.Retry.Strategy == "" {
		c.Retry.Strategy = DefaultRetryStrategy
	}
	if c.Retry.Delay == 0 {
		c.Retry.Delay = DefaultRetryDelay
	}
	if c.Retry.MaxDelay == 0 {
		c.Retry.MaxDelay = DefaultRetryMaxDelay
	}
	if c.Retry.MaxAttempts == nil {
		n := DefaultMaxAttempts
		c.Retry.MaxAttempts = &n
	}

	// Database defaults
	if c.Database.Driver == "" {
		c.Database.Driver = DefaultDBDriver
	}
	if c.Database.Port == 0 {
		c.Database.Port = DefaultDBPort
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = DefaultDBSSLMode
	}
	if c.Database.Path == "" {
		c.Database.Path = DefaultSQLitePath
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = DefaultMaxOpenConns
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = DefaultMaxIdleConns
	}
	if c.Database.ConnectTimeout == 0 {
		c.Database.ConnectTimeout = DefaultConnectTimeout
	}

	if c.Redis.Port == 0 {
		c.Redis.Port = DefaultRedisPort
	}
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultServerAddr
	}
	if c.Metrics.Addr == "" {
		c.Metrics.Addr = DefaultMetricsAddr
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = DefaultMetricsPath
	}
}
