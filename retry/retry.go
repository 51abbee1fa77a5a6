// Package retry provides bounded retry with exponential backoff for
// transient collaborator failures, used by the funds re-check. It respects
// context cancellation and uses generics for type-safe results.
package retry

import (
	"context"
	"fmt"
	"time"
)

// Config holds retry parameters.
type Config struct {
	// MaxAttempts is the total number of attempts, including the first.
	MaxAttempts int

	// InitialDelay is the wait before the second attempt.
	InitialDelay time.Duration

	// MaxDelay caps the backoff.
	MaxDelay time.Duration

	// Multiplier grows the delay between attempts.
	Multiplier float64
}

// DefaultConfig is tuned for a balance re-check the user is actively
// waiting on: one quick retry, nothing more.
var DefaultConfig = Config{
	MaxAttempts:  2,
	InitialDelay: 250 * time.Millisecond,
	MaxDelay:     2 * time.Second,
	Multiplier:   2.0,
}

// Retryable decides whether an error is worth another attempt.
type Retryable func(error) bool

// Do runs fn until it succeeds, the attempts are exhausted, the error is
// not retryable, or the context ends.
func Do[T any](ctx context.Context, cfg Config, retryable Retryable, fn func() (T, error)) (T, error) {
	var zero T
	var lastErr error

	delay := cfg.InitialDelay
	for attempt := 0; attempt < cfg.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, fmt.Errorf("context ended: %w", err)
		}

		result, err := fn()
		if err == nil {
			return result, nil
		}
		lastErr = err

		if !retryable(err) {
			return zero, err
		}

		if attempt < cfg.MaxAttempts-1 {
			select {
			case <-time.After(delay):
				delay = time.Duration(float64(delay) * cfg.Multiplier)
				if delay > cfg.MaxDelay {
					delay = cfg.MaxDelay
				}
			case <-ctx.Done():
				return zero, ctx.Err()
			}
		}
	}

	return zero, fmt.Errorf("attempts exhausted: %w", lastErr)
}
