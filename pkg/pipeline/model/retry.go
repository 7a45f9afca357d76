package model

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

// RetryPolicy bounds how often a failing action is attempted. The delay
// between attempts is constant: the targets here are local, single-tenant
// processes, so exponential backoff and jitter buy nothing.
type RetryPolicy struct {
	// Attempts is the total number of attempts, including the first one.
	Attempts int
	// Delay is the pause between two attempts.
	Delay time.Duration
}

// DefaultRetry runs an action exactly once.
var DefaultRetry = RetryPolicy{Attempts: 1}

// Do runs fn until it succeeds, the attempts are exhausted or the context is
// cancelled. It returns the error of the last attempt.
func (rp RetryPolicy) Do(ctx context.Context, fn func(context.Context) error) error {
	attempts := rp.Attempts
	if attempts < 1 {
		attempts = 1
	}

	var last error

	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return errors.Wrap(err, "retry aborted")
		}

		last = fn(ctx)
		if last == nil {
			return nil
		}

		if attempt == attempts {
			break
		}

		select {
		case <-ctx.Done():
			return errors.Wrap(ctx.Err(), "retry aborted")
		case <-time.After(rp.Delay):
		}
	}

	return last
}
