// Package retry wraps a single remote call with bounded exponential
// backoff. Only rate-limit signals are retried; every other failure
// propagates immediately and unchanged.
package retry

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/hunter-mcp/hunter-mcp-go/internal/hunter"
)

// Policy holds the retry knobs, loaded once at startup and immutable for
// the process lifetime.
type Policy struct {
	MaxAttempts   int
	InitialDelay  time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64
}

// DefaultPolicy mirrors the documented environment defaults.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts:   3,
		InitialDelay:  time.Second,
		MaxDelay:      10 * time.Second,
		BackoffFactor: 2,
	}
}

// Validate rejects policies that would loop forever or sleep negatively.
func (p Policy) Validate() error {
	if p.MaxAttempts < 1 {
		return fmt.Errorf("retry max attempts must be at least 1, got %d", p.MaxAttempts)
	}
	if p.InitialDelay < 0 {
		return fmt.Errorf("retry initial delay must not be negative, got %s", p.InitialDelay)
	}
	if p.MaxDelay < p.InitialDelay {
		return fmt.Errorf("retry max delay %s must not be below initial delay %s", p.MaxDelay, p.InitialDelay)
	}
	if p.BackoffFactor < 1 {
		return fmt.Errorf("retry backoff factor must be at least 1, got %g", p.BackoffFactor)
	}
	return nil
}

// Delay returns the backoff before retry attempt+1, where attempt counts
// from 1: min(InitialDelay * BackoffFactor^(attempt-1), MaxDelay).
func (p Policy) Delay(attempt int) time.Duration {
	d := time.Duration(float64(p.InitialDelay) * math.Pow(p.BackoffFactor, float64(attempt-1)))
	if d > p.MaxDelay || d < 0 {
		return p.MaxDelay
	}
	return d
}

// sleep waits for d or context cancellation. A package variable so tests
// can observe the exact delays Do schedules.
var sleep = func(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

// Do runs fn, retrying on rate-limit signals until the attempt ceiling is
// reached. The backoff sleep honors ctx, so a canceled session aborts an
// in-flight retry sequence.
func Do(ctx context.Context, log *slog.Logger, policy Policy, label string, fn func(ctx context.Context) error) error {
	for attempt := 1; ; attempt++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		if !hunter.IsRateLimited(err) || attempt >= policy.MaxAttempts {
			return err
		}

		delay := policy.Delay(attempt)
		log.WarnContext(ctx, "rate limited, backing off",
			slog.String("operation", label),
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", policy.MaxAttempts),
			slog.Duration("delay", delay),
		)

		if err := sleep(ctx, delay); err != nil {
			return err
		}
	}
}
