// Package retry is the one retry-with-backoff policy used for every outbound
// call. Call sites configure a Policy instead of growing their own loops.
package retry

import (
	"context"
	"fmt"
	"time"
)

// A Policy describes how often and after what delay an operation is retried.
type Policy struct {
	// MaxAttempts is the total number of tries, including the first.
	MaxAttempts int

	// Backoff returns how long to sleep before retrying after the given
	// 1-based attempt failed with err. A nil Backoff retries immediately.
	Backoff func(attempt int, err error) time.Duration

	// Retryable reports whether err is worth another attempt. A nil
	// Retryable treats every error as retryable.
	Retryable func(err error) bool
}

// Do runs f until it succeeds, the policy's attempts run out, the error is
// not retryable, or ctx is canceled. It returns nil on success and the last
// error otherwise.
func (p Policy) Do(ctx context.Context, f func() error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var last error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		last = f()
		if last == nil {
			return nil
		}
		if p.Retryable != nil && !p.Retryable(last) {
			return last
		}
		if attempt == attempts {
			break
		}

		var wait time.Duration
		if p.Backoff != nil {
			wait = p.Backoff(attempt, last)
		}
		if wait > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}
	}

	return fmt.Errorf("gave up after %d attempts: %w", attempts, last)
}
