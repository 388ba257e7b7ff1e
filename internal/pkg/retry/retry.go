package retry

import (
	"context"
	"fmt"
	"time"
)

// Policy bounds retries of a single idempotent operation. The delay before
// attempt n is n*BaseDelay, so backoff grows linearly.
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
}

// Do runs op until it succeeds, the policy is exhausted, or ctx is cancelled.
// The last error is returned wrapped with the attempt count.
func Do(ctx context.Context, p Policy, op func(context.Context) error) error {
	attempts := p.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = op(ctx)
		if lastErr == nil {
			return nil
		}
		if attempt == attempts {
			break
		}

		delay := time.Duration(attempt) * p.BaseDelay
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	return fmt.Errorf("failed after %d attempts: %w", attempts, lastErr)
}
