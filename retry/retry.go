package retry

import (
	"context"
	"time"
)

// Do executes the given function with retry logic.
// It respects context cancellation during backoff waits.
// Returns the result on success, or the last error if all attempts fail.
//
// Only errors classified as transient by IsTransient are retried; any other
// error is returned immediately.
func Do[T any](ctx context.Context, cfg Config, fn func(attempt int) (T, error)) (T, error) {
	var zero T
	var lastErr error

	for attempt := 0; attempt < cfg.MaxAttempts; attempt++ {
		result, err := fn(attempt + 1)
		if err == nil {
			return result, nil
		}

		lastErr = err

		if !IsTransient(err) {
			return zero, err
		}

		// Don't sleep after the last attempt
		if attempt < cfg.MaxAttempts-1 {
			delay := cfg.Delay(attempt)
			if suggested := retryAfterOf(err); suggested > 0 && suggested < cfg.MaxDelay {
				delay = suggested
			}

			// Respect context cancellation during sleep
			select {
			case <-ctx.Done():
				return zero, ctx.Err()
			case <-time.After(delay):
				// Continue to next attempt
			}
		}
	}

	return zero, lastErr
}
