package database

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"
)

const (
	defaultRetryAttempts = 3
	defaultRetryBaseWait = 1 * time.Second
	retryJitterFraction  = 0.25
)

// retryBackoff returns 1s, 2s, 4s, ... for attempt 0, 1, 2 with ±25% jitter.
func retryBackoff(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	base := defaultRetryBaseWait << attempt
	jitter := time.Duration(float64(base) * retryJitterFraction * (2*rand.Float64() - 1)) // #nosec G404 -- non-cryptographic jitter
	return base + jitter
}

// retrier runs a startup step until it succeeds, the context ends, or the
// attempts run out. retryable decides which failures are worth another try.
type retrier struct {
	attempts  int
	backoff   func(int) time.Duration
	retryable func(error) bool
	logger    *slog.Logger
}

func newRetrier(logger *slog.Logger) retrier {
	return retrier{
		attempts:  defaultRetryAttempts,
		backoff:   retryBackoff,
		retryable: func(error) bool { return true },
		logger:    logger,
	}
}

func (r retrier) do(ctx context.Context, what string, fn func(context.Context) error) error {
	var lastErr error
	for attempt := 0; attempt < r.attempts; attempt++ {
		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}
		if !r.retryable(lastErr) {
			return lastErr
		}
		if attempt == r.attempts-1 {
			break
		}

		wait := r.backoff(attempt)
		if r.logger != nil {
			r.logger.Warn(what+" failed, retrying",
				slog.Int("attempt", attempt+1),
				slog.Int("max_attempts", r.attempts),
				slog.Duration("backoff", wait),
				slog.String("error", lastErr.Error()),
			)
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("%s: context canceled during retry: %w", what, ctx.Err())
		case <-time.After(wait):
		}
	}
	return fmt.Errorf("%s after %d attempts: %w", what, r.attempts, lastErr)
}

// IsConnectionError reports whether err looks like a transient network
// problem rather than a statement or constraint error.
func IsConnectionError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	for _, p := range []string{
		"connection refused",
		"connection reset",
		"broken pipe",
		"no such host",
		"i/o timeout",
		"dial tcp",
		"EOF",
		"connection timed out",
		"server closed the connection unexpectedly",
		"could not connect",
		"server selection error",
	} {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}
