package highlight

import (
	"context"
	"time"
)

// RetryConfig bounds the highlight retry. Attempts include the first try.
type RetryConfig struct {
	MaxAttempts int
	Delay       time.Duration
}

// DefaultMaxAttempts is the initial attempt plus one retry
const DefaultMaxAttempts = 2

// retryUntilFound calls fn until it reports found, an attempt budget is
// spent, or ctx is done. The delay between attempts is fixed. It returns
// the last result and the number of attempts made. An error from a
// non-final attempt is treated as an empty result.
func retryUntilFound[T any](ctx context.Context, cfg RetryConfig, fn func() (T, bool, error)) (T, int, error) {
	var zero T
	maxAttempts := cfg.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	for attempt := 1; ; attempt++ {
		result, found, err := fn()
		if err == nil && found {
			return result, attempt, nil
		}

		if attempt >= maxAttempts {
			return result, attempt, err
		}

		if ctx.Err() != nil {
			return zero, attempt, ctx.Err()
		}

		select {
		case <-ctx.Done():
			return zero, attempt, ctx.Err()
		case <-time.After(cfg.Delay):
		}
	}
}
