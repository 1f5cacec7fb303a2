// Package turn runs the full request cycle for one player action:
// prompt assembly, the completion call with retry, response parsing,
// state migration and the optional scene illustration.
package turn

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/valmeida/aetria/internal/services"
)

// RetryPolicy governs how the completion call is repeated on transient
// failure. Backoff doubles per attempt.
type RetryPolicy struct {
	MaxAttempts    int
	InitialBackoff time.Duration

	// Retryable decides which errors are worth another attempt.
	Retryable func(error) bool

	// sleep is swapped in tests to avoid real waits.
	sleep func(ctx context.Context, d time.Duration) error
}

// DefaultRetryPolicy retries only transient overload failures. Quota
// exhaustion and safety blocks would fail identically on a retry, so
// they surface immediately.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:    3,
		InitialBackoff: 2 * time.Second,
		Retryable: func(err error) bool {
			return errors.Is(err, services.ErrOverloaded)
		},
	}
}

// Do runs fn up to MaxAttempts times, sleeping between attempts. It
// returns fn's first success, or the last error once attempts are
// exhausted or the error is not retryable.
func (p RetryPolicy) Do(ctx context.Context, fn func(context.Context) (string, error)) (string, error) {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	sleep := p.sleep
	if sleep == nil {
		sleep = sleepContext
	}

	backoff := p.InitialBackoff
	var lastErr error
	for i := 0; i < attempts; i++ {
		if i > 0 {
			if err := sleep(ctx, backoff); err != nil {
				return "", err
			}
			backoff *= 2
		}

		out, err := fn(ctx)
		if err == nil {
			return out, nil
		}
		lastErr = err

		if p.Retryable == nil || !p.Retryable(err) {
			return "", err
		}
	}
	return "", fmt.Errorf("gave up after %d attempts: %w", attempts, lastErr)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
