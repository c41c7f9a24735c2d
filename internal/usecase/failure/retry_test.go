package failure

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"formwalker/internal/application/port/output"
	"formwalker/internal/domain/entity"
)

type nopLogger struct{}

func (nopLogger) Debug(string, ...any)                          {}
func (nopLogger) Info(string, ...any)                           {}
func (nopLogger) Warn(string, ...any)                           {}
func (nopLogger) Error(string, ...any)                          {}
func (l nopLogger) WithField(string, any) output.LoggerPort     { return l }
func (l nopLogger) WithFields(map[string]any) output.LoggerPort { return l }
func (nopLogger) Close() error                                  { return nil }

func testPolicy(sleeps *[]time.Duration) *Policy {
	p := NewPolicy(nopLogger{})
	p.sleep = func(ctx context.Context, d time.Duration) {
		*sleeps = append(*sleeps, d)
	}
	return p
}

func TestDo_SucceedsFirstTry(t *testing.T) {
	var sleeps []time.Duration
	p := testPolicy(&sleeps)

	outcome := p.Do(context.Background(), "fill:email", true, func(ctx context.Context, attempt int) error {
		return nil
	})

	assert.True(t, outcome.Success)
	assert.Equal(t, 0, outcome.Retries)
	assert.Nil(t, outcome.Record)
	assert.Empty(t, sleeps)
}

func TestDo_ExponentialBackoffThenSuccess(t *testing.T) {
	var sleeps []time.Duration
	p := testPolicy(&sleeps)

	calls := 0
	outcome := p.Do(context.Background(), "navigate", true, func(ctx context.Context, attempt int) error {
		calls++
		if calls < 3 {
			return errors.New("navigation timed out")
		}
		return nil
	})

	assert.True(t, outcome.Success)
	assert.Equal(t, 2, outcome.Retries)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []time.Duration{1 * time.Second, 2 * time.Second}, sleeps)
}

func TestDo_TransientExhaustsAttempts(t *testing.T) {
	var sleeps []time.Duration
	p := testPolicy(&sleeps)

	calls := 0
	outcome := p.Do(context.Background(), "click", true, func(ctx context.Context, attempt int) error {
		calls++
		return fmt.Errorf("element not found: %w", ErrElementNotFound)
	})

	assert.False(t, outcome.Success)
	assert.False(t, outcome.Skipped)
	assert.Equal(t, p.MaxAttempts, calls)
	require.NotNil(t, outcome.Record)
	assert.Equal(t, entity.FailureElementNotFound, outcome.Record.Category)
	assert.Equal(t, "click", outcome.Record.Operation)
}

func TestDo_MissingConfigurationNeverRetries(t *testing.T) {
	var sleeps []time.Duration
	p := testPolicy(&sleeps)

	calls := 0
	outcome := p.Do(context.Background(), "attach", true, func(ctx context.Context, attempt int) error {
		calls++
		return fmt.Errorf("RESUME_PATH: %w", ErrMissingConfiguration)
	})

	assert.False(t, outcome.Success)
	assert.Equal(t, 1, calls)
	assert.Empty(t, sleeps)
	require.NotNil(t, outcome.Record)
	assert.Equal(t, entity.FailureMissingConfiguration, outcome.Record.Category)
}

func TestDo_AlreadyExistsDegradesToSuccess(t *testing.T) {
	var sleeps []time.Duration
	p := testPolicy(&sleeps)

	outcome := p.Do(context.Background(), "register", true, func(ctx context.Context, attempt int) error {
		return fmt.Errorf("account: %w", ErrAlreadyExists)
	})

	assert.True(t, outcome.Success)
	assert.Empty(t, sleeps)
	require.NotNil(t, outcome.Record)
	assert.Equal(t, entity.FailureAlreadyExists, outcome.Record.Category)
}

func TestDo_ValidationGetsOneRetry(t *testing.T) {
	var sleeps []time.Duration
	p := testPolicy(&sleeps)

	calls := 0
	outcome := p.Do(context.Background(), "fill:phone", true, func(ctx context.Context, attempt int) error {
		calls++
		return fmt.Errorf("value rejected: %w", ErrValidation)
	})

	assert.False(t, outcome.Success)
	assert.False(t, outcome.Skipped)
	assert.Equal(t, 2, calls)
	assert.Len(t, sleeps, 1)
}

func TestDo_NonCriticalValidationIsSkipped(t *testing.T) {
	var sleeps []time.Duration
	p := testPolicy(&sleeps)

	outcome := p.Do(context.Background(), "fill:middleName", false, func(ctx context.Context, attempt int) error {
		return fmt.Errorf("value rejected: %w", ErrValidation)
	})

	assert.False(t, outcome.Success)
	assert.True(t, outcome.Skipped)
	require.NotNil(t, outcome.Record)
}

func TestDo_UnknownFailsImmediately(t *testing.T) {
	var sleeps []time.Duration
	p := testPolicy(&sleeps)

	calls := 0
	outcome := p.Do(context.Background(), "fill:x", true, func(ctx context.Context, attempt int) error {
		calls++
		return errors.New("boom")
	})

	assert.False(t, outcome.Success)
	assert.Equal(t, 1, calls)
	assert.Empty(t, sleeps)
}

func TestDo_AttemptIndexIsPassed(t *testing.T) {
	var sleeps []time.Duration
	p := testPolicy(&sleeps)

	var seen []int
	p.Do(context.Background(), "click", true, func(ctx context.Context, attempt int) error {
		seen = append(seen, attempt)
		return errors.New("navigation timed out")
	})

	assert.Equal(t, []int{0, 1, 2}, seen)
}

func TestDo_CancelledContextStops(t *testing.T) {
	var sleeps []time.Duration
	p := testPolicy(&sleeps)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	outcome := p.Do(ctx, "click", true, func(ctx context.Context, attempt int) error {
		calls++
		return nil
	})

	assert.False(t, outcome.Success)
	assert.Equal(t, 0, calls)
	require.NotNil(t, outcome.Record)
	assert.Equal(t, entity.FailureNetworkOrTimeout, outcome.Record.Category)
}
