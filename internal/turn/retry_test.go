package turn

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valmeida/aetria/internal/services"
)

func instantPolicy() RetryPolicy {
	p := DefaultRetryPolicy()
	p.sleep = func(ctx context.Context, d time.Duration) error { return nil }
	return p
}

func TestRetryPolicy_SucceedsFirstTry(t *testing.T) {
	p := instantPolicy()
	calls := 0
	out, err := p.Do(context.Background(), func(ctx context.Context) (string, error) {
		calls++
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", out)
	assert.Equal(t, 1, calls)
}

func TestRetryPolicy_RetriesOverloaded(t *testing.T) {
	p := instantPolicy()
	calls := 0
	out, err := p.Do(context.Background(), func(ctx context.Context) (string, error) {
		calls++
		if calls < 3 {
			return "", services.ErrOverloaded
		}
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", out)
	assert.Equal(t, 3, calls)
}

func TestRetryPolicy_ExhaustsAttempts(t *testing.T) {
	p := instantPolicy()
	calls := 0
	_, err := p.Do(context.Background(), func(ctx context.Context) (string, error) {
		calls++
		return "", services.ErrOverloaded
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, services.ErrOverloaded)
	assert.Equal(t, p.MaxAttempts, calls)
}

func TestRetryPolicy_TerminalErrorsNotRetried(t *testing.T) {
	for _, terminal := range []error{
		services.ErrQuotaExhausted,
		services.ErrContentBlocked,
		services.ErrEmptyResponse,
		errors.New("something else"),
	} {
		t.Run(terminal.Error(), func(t *testing.T) {
			p := instantPolicy()
			calls := 0
			_, err := p.Do(context.Background(), func(ctx context.Context) (string, error) {
				calls++
				return "", terminal
			})
			require.Error(t, err)
			assert.ErrorIs(t, err, terminal)
			assert.Equal(t, 1, calls)
		})
	}
}

func TestRetryPolicy_BackoffDoubles(t *testing.T) {
	p := DefaultRetryPolicy()
	var waits []time.Duration
	p.sleep = func(ctx context.Context, d time.Duration) error {
		waits = append(waits, d)
		return nil
	}

	_, err := p.Do(context.Background(), func(ctx context.Context) (string, error) {
		return "", services.ErrOverloaded
	})
	require.Error(t, err)
	assert.Equal(t, []time.Duration{2 * time.Second, 4 * time.Second}, waits)
}

func TestRetryPolicy_ContextCancelStopsWait(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := DefaultRetryPolicy()
	calls := 0
	_, err := p.Do(ctx, func(ctx context.Context) (string, error) {
		calls++
		return "", services.ErrOverloaded
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}
