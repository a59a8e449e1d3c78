package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errUpstream = errors.New("upstream unavailable")

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestRetrier returns a retrier whose sleeps are recorded instead of performed.
func newTestRetrier(cfg RetryConfig) (*retrier, *[]time.Duration) {
	var slept []time.Duration
	r := newRetrier("DE0007100000", cfg, discardLogger(), nopRecorder{})
	r.sleep = func(ctx context.Context, d time.Duration) error {
		slept = append(slept, d)
		return ctx.Err()
	}
	return r, &slept
}

// failing returns an operation that fails n times before succeeding.
func failing(n int, calls *int) func(context.Context) error {
	return func(context.Context) error {
		*calls++
		if *calls <= n {
			return errUpstream
		}
		return nil
	}
}

func TestRetrier_SucceedsFirstTry(t *testing.T) {
	t.Parallel()

	r, slept := newTestRetrier(DefaultRetryConfig())
	calls := 0

	require.NoError(t, r.Do(context.Background(), failing(0, &calls)))
	assert.Equal(t, 1, calls)
	assert.Empty(t, *slept)
	assert.Equal(t, 0, r.failures)
}

func TestRetrier_RecoversAndResetsCounter(t *testing.T) {
	t.Parallel()

	r, slept := newTestRetrier(RetryConfig{Strategy: BackoffFixed, Delay: 3 * time.Second})
	calls := 0

	require.NoError(t, r.Do(context.Background(), failing(3, &calls)))
	assert.Equal(t, 4, calls)
	assert.Equal(t, []time.Duration{3 * time.Second, 3 * time.Second, 3 * time.Second}, *slept)
	assert.Equal(t, 0, r.failures, "consecutive failures must reset on success")
	assert.Equal(t, 3, r.total)

	// the next page starts from a clean counter
	calls = 0
	require.NoError(t, r.Do(context.Background(), failing(1, &calls)))
	assert.Equal(t, 4, r.total)
}

func TestRetrier_ExhaustsAfterMaxAttempts(t *testing.T) {
	t.Parallel()

	r, slept := newTestRetrier(RetryConfig{Strategy: BackoffFixed, Delay: time.Second, MaxAttempts: 3})
	calls := 0

	err := r.Do(context.Background(), failing(100, &calls))

	var exhausted *RetryExhaustedError
	require.ErrorAs(t, err, &exhausted)
	assert.Equal(t, 3, exhausted.Attempts)
	assert.Equal(t, "DE0007100000", exhausted.ISIN)
	assert.ErrorIs(t, err, errUpstream)
	assert.Equal(t, 3, calls)
	assert.Len(t, *slept, 2)
}

func TestRetrier_ExhaustsAfterMaxElapsed(t *testing.T) {
	t.Parallel()

	r := newRetrier("DE0007100000", RetryConfig{Strategy: BackoffFixed, Delay: 5 * time.Millisecond, MaxElapsed: 30 * time.Millisecond}, discardLogger(), nopRecorder{})
	calls := 0

	err := r.Do(context.Background(), failing(1000, &calls))

	var exhausted *RetryExhaustedError
	require.ErrorAs(t, err, &exhausted)
	assert.GreaterOrEqual(t, exhausted.Elapsed, 30*time.Millisecond)
	assert.Greater(t, calls, 1)
}

func TestRetrier_UnboundedKeepsRetrying(t *testing.T) {
	t.Parallel()

	r, slept := newTestRetrier(RetryConfig{Strategy: BackoffFixed, Delay: time.Second})
	calls := 0

	require.NoError(t, r.Do(context.Background(), failing(50, &calls)))
	assert.Equal(t, 51, calls)
	assert.Len(t, *slept, 50)
}

func TestRetrier_ContextCancelledDuringSleep(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	r := newRetrier("DE0007100000", RetryConfig{Strategy: BackoffFixed, Delay: time.Hour}, discardLogger(), nopRecorder{})
	calls := 0

	done := make(chan error, 1)
	go func() { done <- r.Do(ctx, failing(100, &calls)) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("retrier did not honor cancellation while sleeping")
	}
}

func TestRetrier_ExponentialBackoff(t *testing.T) {
	t.Parallel()

	cfg := RetryConfig{Strategy: BackoffExponential, Delay: 100 * time.Millisecond, MaxDelay: time.Second}
	r, slept := newTestRetrier(cfg)
	calls := 0

	require.NoError(t, r.Do(context.Background(), failing(8, &calls)))
	require.Len(t, *slept, 8)

	for i, d := range *slept {
		base := cfg.Delay << i
		if base > cfg.MaxDelay {
			base = cfg.MaxDelay
		}
		assert.GreaterOrEqual(t, d, base/2, "attempt %d", i+1)
		assert.LessOrEqual(t, d, cfg.MaxDelay, "attempt %d", i+1)
	}
}
