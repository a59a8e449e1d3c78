package usecase

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"time"
)

// BackoffStrategy selects how the delay between fetch attempts grows.
type BackoffStrategy string

const (
	// BackoffFixed waits RetryConfig.Delay between every attempt.
	BackoffFixed BackoffStrategy = "fixed"
	// BackoffExponential doubles the delay per consecutive failure, with jitter, up to MaxDelay.
	BackoffExponential BackoffStrategy = "exponential"
)

// RetryConfig holds the retry policy applied to each page fetch.
type RetryConfig struct {
	Strategy    BackoffStrategy
	Delay       time.Duration // fixed delay, or base delay for exponential
	MaxDelay    time.Duration // cap for exponential backoff
	MaxAttempts int           // consecutive attempts per page; 0 = unbounded
	MaxElapsed  time.Duration // time spent on one page; 0 = unbounded
}

// DefaultRetryConfig returns a fixed 3s backoff giving up after 10 attempts.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		Strategy:    BackoffFixed,
		Delay:       3 * time.Second,
		MaxDelay:    time.Minute,
		MaxAttempts: 10,
	}
}

// retrier wraps the page fetches of exactly one security.
// It is not safe for concurrent use; each ingestion loop owns its own.
type retrier struct {
	isin     string
	cfg      RetryConfig
	logger   *slog.Logger
	recorder Recorder
	sleep    func(ctx context.Context, d time.Duration) error

	failures int // consecutive failed attempts, reset on success
	total    int // failed attempts over the lifetime of the loop
}

func newRetrier(isin string, cfg RetryConfig, logger *slog.Logger, recorder Recorder) *retrier {
	return &retrier{
		isin:     isin,
		cfg:      cfg,
		logger:   logger,
		recorder: recorder,
		sleep:    sleepContext,
	}
}

// Do runs op until it succeeds, the retry ceiling is reached or ctx is done.
// On exhaustion it returns a *RetryExhaustedError wrapping the last failure.
func (r *retrier) Do(ctx context.Context, op func(ctx context.Context) error) error {
	start := time.Now()
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := op(ctx)
		if err == nil {
			if r.failures > 0 {
				r.logger.Info("fetch recovered", "isin", r.isin, "failures", r.failures)
			}
			r.failures = 0
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		r.failures++
		r.total++
		r.recorder.FetchFailed(r.isin)

		elapsed := time.Since(start)
		if (r.cfg.MaxAttempts > 0 && r.failures >= r.cfg.MaxAttempts) ||
			(r.cfg.MaxElapsed > 0 && elapsed >= r.cfg.MaxElapsed) {
			r.logger.Error("fetch retries exhausted", "isin", r.isin, "attempt", r.failures, "error", err)
			return &RetryExhaustedError{ISIN: r.isin, Attempts: r.failures, Elapsed: elapsed, Err: err}
		}

		delay := r.backoff()
		r.logger.Warn("fetch failed, retrying", "isin", r.isin, "attempt", r.failures, "delay", delay, "error", err)
		if err := r.sleep(ctx, delay); err != nil {
			return err
		}
	}
}

// backoff returns the delay before the next attempt.
func (r *retrier) backoff() time.Duration {
	if r.cfg.Strategy != BackoffExponential || r.cfg.Delay <= 0 {
		return r.cfg.Delay
	}

	d := r.cfg.Delay
	for i := 1; i < r.failures && (r.cfg.MaxDelay <= 0 || d < r.cfg.MaxDelay); i++ {
		d *= 2
	}
	// jitter: d * (0.5 to 1.5)
	d = d/2 + time.Duration(rand.Int64N(int64(d)))
	if r.cfg.MaxDelay > 0 && d > r.cfg.MaxDelay {
		d = r.cfg.MaxDelay
	}
	return d
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
