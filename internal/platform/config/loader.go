package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Load reads a YAML config file and expands environment variables.
// With an empty path the configuration is built from environment variables only.
func Load(path string) (*Config, error) {
	if path == "" {
		return FromEnv(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	// Expand ${VAR} environment variables
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config yaml: %w", err)
	}
	// LOG_LEVEL はファイルの設定より優先する
	if lvl := os.Getenv("LOG_LEVEL"); lvl != "" {
		cfg.Log.Level = lvl
	}
	return &cfg, nil
}

// LoadAndValidate loads config, applies defaults, and validates.
func LoadAndValidate(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// FromEnv は環境変数から設定を組み立てます。未設定の項目は applyDefaults で補完されます。
func FromEnv() *Config {
	cfg := &Config{
		Log: LogConfig{
			Level:  os.Getenv("LOG_LEVEL"),
			Format: os.Getenv("LOG_FORMAT"),
		},
		Upstream: UpstreamConfig{
			BaseURL:         os.Getenv("UPSTREAM_BASE_URL"),
			Timeout:         envDuration("UPSTREAM_TIMEOUT"),
			MalformedPolicy: os.Getenv("UPSTREAM_MALFORMED_POLICY"),
			RateLimit:       envInt("UPSTREAM_RATE_LIMIT"),
			RateInterval:    envDuration("UPSTREAM_RATE_INTERVAL"),
		},
		Ingest: IngestConfig{
			Concurrency:   envInt("INGEST_CONCURRENCY"),
			PendingWrites: envInt("INGEST_PENDING_WRITES"),
			Interval:      envDuration("INGEST_INTERVAL"),
		},
		Retry: RetryConfig{
			Strategy:   os.Getenv("RETRY_STRATEGY"),
			Delay:      envDuration("RETRY_DELAY"),
			MaxDelay:   envDuration("RETRY_MAX_DELAY"),
			MaxElapsed: envDuration("RETRY_MAX_ELAPSED"),
		},
		Database: DatabaseConfig{
			Driver:          os.Getenv("DB_DRIVER"),
			Host:            os.Getenv("DB_HOST"),
			Port:            envInt("DB_PORT"),
			Name:            os.Getenv("DB_NAME"),
			User:            os.Getenv("DB_USER"),
			Password:        os.Getenv("DB_PASSWORD"),
			SSLMode:         os.Getenv("DB_SSL_MODE"),
			Path:            os.Getenv("DB_PATH"),
			Migrate:         os.Getenv("RUN_MIGRATIONS") == "true",
			UniqueTimeIndex: os.Getenv("DB_UNIQUE_TIME_INDEX") == "true",
		},
		Redis: RedisConfig{
			Enabled:  os.Getenv("REDIS_HOST") != "",
			Host:     os.Getenv("REDIS_HOST"),
			Port:     envInt("REDIS_PORT"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       envInt("REDIS_DB"),
			TTL:      envDuration("REDIS_TTL"),
		},
		Catalog: CatalogConfig{
			UseDatabase: os.Getenv("CATALOG_USE_DATABASE") == "true",
		},
		Server:  ServerConfig{Addr: os.Getenv("SERVER_ADDR")},
		Metrics: MetricsConfig{Enabled: os.Getenv("METRICS_ADDR") != "", Addr: os.Getenv("METRICS_ADDR")},
	}
	if v, ok := os.LookupEnv("RETRY_MAX_ATTEMPTS"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Retry.MaxAttempts = &n
		}
	}
	if files := os.Getenv("CATALOG_FILES"); files != "" {
		for _, f := range strings.Split(files, ",") {
			if f = strings.TrimSpace(f); f != "" {
				cfg.Catalog.Files = append(cfg.Catalog.Files, f)
			}
		}
	}
	return cfg
}

func envInt(key string) int {
	n, _ := strconv.Atoi(os.Getenv(key))
	return n
}

func envDuration(key string) time.Duration {
	d, _ := time.ParseDuration(os.Getenv(key))
	return d
}
