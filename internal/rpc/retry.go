package rpc

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"net"
	"strings"
	"syscall"
	"time"

	"github.com/goran-ethernal/DealIndexor/pkg/config"
)

// jitterFraction spreads backoff waits by +/-25%.
const jitterFraction = 0.25

// transientMarkers are error texts of failures that clear up on their own:
// dropped connections, timeouts, rate limits and overloaded gateways.
var transientMarkers = []string{
	"connection refused",
	"connection reset",
	"unexpected eof",
	"timeout",
	"deadline exceeded",
	"429",
	"too many requests",
	"rate limit",
	"502",
	"503",
	"504",
	"bad gateway",
	"service unavailable",
	"connection pool",
	"no available connection",
}

// retryableError reports whether err is a transient endpoint failure.
func retryableError(err error) bool {
	if err == nil {
		return false
	}

	var connErr *ConnectivityError
	var netErr net.Error
	if errors.As(err, &connErr) || errors.As(err, &netErr) {
		return true
	}

	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) || errors.Is(err, syscall.EPIPE) {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, marker := range transientMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}

	return false
}

// calculateBackoff returns the wait before the given attempt. The first attempt never
// waits; later ones grow by BackoffMultiplier from InitialBackoff, capped at MaxBackoff.
func calculateBackoff(attempt int, cfg *config.RetryConfig) time.Duration {
	if attempt <= 1 {
		return 0
	}

	wait := float64(cfg.InitialBackoff.Duration) * math.Pow(cfg.BackoffMultiplier, float64(attempt-2))
	wait = math.Min(wait, float64(cfg.MaxBackoff.Duration))
	wait += wait * jitterFraction * (2*rand.Float64() - 1)

	return time.Duration(math.Max(wait, 0))
}

// sleep waits for d or until ctx is done, whichever comes first.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// retryWithBackoff runs fn up to cfg.MaxAttempts times while it fails with a retryable
// error. A nil cfg runs fn once.
func retryWithBackoff(ctx context.Context, cfg *config.RetryConfig, operation string, fn func() error) error {
	if cfg == nil {
		return fn()
	}

	started := time.Now()
	var lastErr error

	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		if attempt > 1 {
			if err := sleep(ctx, calculateBackoff(attempt, cfg)); err != nil {
				return fmt.Errorf("%s cancelled during backoff (attempt %d/%d): %w", operation, attempt, cfg.MaxAttempts, err)
			}
			RPCRetryInc(operation)
		} else if err := ctx.Err(); err != nil {
			return fmt.Errorf("%s cancelled before first attempt: %w", operation, err)
		}

		lastErr = fn()
		if lastErr == nil {
			return nil
		}

		if !retryableError(lastErr) {
			return fmt.Errorf("non-retryable error on attempt %d/%d: %w", attempt, cfg.MaxAttempts, lastErr)
		}
	}

	return fmt.Errorf("all %d attempts failed after %v (last error: %w)", cfg.MaxAttempts, time.Since(started), lastErr)
}

// RetryUntilCancelled keeps calling fn while it fails with a retryable error, backing off
// between attempts up to cfg.MaxBackoff. It returns nil on success, the first non-retryable
// error, or the context error once ctx is done.
func RetryUntilCancelled(
	ctx context.Context,
	cfg *config.RetryConfig,
	operation string,
	onRetry func(attempt int, err error),
	fn func() error,
) error {
	if cfg == nil {
		cfg = &config.RetryConfig{}
		cfg.ApplyDefaults()
	}

	for attempt := 1; ; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		if !retryableError(err) {
			return err
		}

		if onRetry != nil {
			onRetry(attempt, err)
		}
		RPCRetryInc(operation)

		// attempt+1 so the first wait is InitialBackoff
		if serr := sleep(ctx, calculateBackoff(attempt+1, cfg)); serr != nil {
			return fmt.Errorf("%s: %w (last error: %v)", operation, serr, err)
		}
	}
}
