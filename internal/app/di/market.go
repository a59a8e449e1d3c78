// Package di provides dependency injection factories for creating application components.
package di

import (
	"log/slog"

	"tick_backend/internal/feature/ticks/usecase"
	"tick_backend/internal/platform/config"
	"tick_backend/internal/platform/externalapi/tradegate"
	infrahttp "tick_backend/internal/platform/http"
	"tick_backend/internal/shared/ratelimiter"
)

// NewMarket creates a fully configured TradegateMarket with HTTP client and a shared rate limiter.
func NewMarket(cfg *config.Config, logger *slog.Logger) *tradegate.TradegateMarket {
	httpClient := infrahttp.NewHTTPClient(cfg.Upstream.Timeout, cfg.Ingest.Concurrency)
	limiter := ratelimiter.NewRateLimiter(cfg.Upstream.RateLimit, cfg.Upstream.RateInterval)

	return tradegate.NewTradegateMarket(TradegateConfig(cfg), httpClient,
		tradegate.WithLogger(logger),
		tradegate.WithRateLimiter(limiter),
	)
}

// TradegateConfig maps the upstream section onto the client configuration.
func TradegateConfig(cfg *config.Config) tradegate.Config {
	return tradegate.Config{
		BaseURL:         cfg.Upstream.BaseURL,
		Timeout:         cfg.Upstream.Timeout,
		UserAgent:       cfg.Upstream.UserAgent,
		MalformedPolicy: tradegate.MalformedPolicy(cfg.Upstream.MalformedPolicy),
	}
}

// IngestConfig maps the ingest and retry sections onto the scheduler configuration.
func IngestConfig(cfg *config.Config) usecase.IngestConfig {
	retry := usecase.RetryConfig{
		Strategy:   usecase.BackoffStrategy(cfg.Retry.Strategy),
		Delay:      cfg.Retry.Delay,
		MaxDelay:   cfg.Retry.MaxDelay,
		MaxElapsed: cfg.Retry.MaxElapsed,
	}
	if cfg.Retry.MaxAttempts != nil {
		retry.MaxAttempts = *cfg.Retry.MaxAttempts
	}
	return usecase.IngestConfig{
		Concurrency:   cfg.Ingest.Concurrency,
		PendingWrites: cfg.Ingest.PendingWrites,
		Retry:         retry,
	}
}
