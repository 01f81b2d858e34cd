package retry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/purplemusic/channels/retry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoSucceedsAfterFailures(t *testing.T) {
	calls := 0
	p := retry.Policy{MaxAttempts: 3}
	err := p.Do(context.Background(), func() error {
		calls++
		if calls < 3 {
			return errors.New("boom")
		}
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDoExhaustsAttempts(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	p := retry.Policy{MaxAttempts: 3}
	err := p.Do(context.Background(), func() error {
		calls++
		return boom
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 3, calls)
}

func TestDoStopsOnPermanentError(t *testing.T) {
	boom := errors.New("permanent")
	calls := 0
	p := retry.Policy{
		MaxAttempts: 5,
		Retryable:   func(err error) bool { return false },
	}
	err := p.Do(context.Background(), func() error {
		calls++
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
}

func TestDoBackoffGrowsWithAttempt(t *testing.T) {
	var waits []int
	p := retry.Policy{
		MaxAttempts: 3,
		Backoff: func(attempt int, err error) time.Duration {
			waits = append(waits, attempt)
			return 0
		},
	}
	_ = p.Do(context.Background(), func() error { return errors.New("boom") })

	// backoff is consulted between attempts, never after the last
	assert.Equal(t, []int{1, 2}, waits)
}

func TestDoHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := retry.Policy{
		MaxAttempts: 10,
		Backoff:     func(int, error) time.Duration { return time.Hour },
	}
	start := time.Now()
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()
	err := p.Do(ctx, func() error { return errors.New("boom") })
	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), time.Second)
}
