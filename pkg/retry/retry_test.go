package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func fastConfig(retries int) *Config {
	return &Config{
		MaxRetries:      retries,
		InitialInterval: time.Millisecond,
		MaxInterval:     5 * time.Millisecond,
		Multiplier:      2,
	}
}

func TestNew_FillsZeroValues(t *testing.T) {
	r := New(&Config{MaxRetries: 2, JitterFactor: 3})
	assert.Equal(t, 200*time.Millisecond, r.config.InitialInterval)
	assert.Equal(t, 5*time.Second, r.config.MaxInterval)
	assert.Equal(t, 2.0, r.config.Multiplier)
	assert.Equal(t, 1.0, r.config.JitterFactor)

	assert.Equal(t, 3, New(nil).config.MaxRetries)
}

func TestDo_SuccessFirstAttempt(t *testing.T) {
	res := Do(context.Background(), fastConfig(3), func(ctx context.Context) error { return nil })
	assert.NoError(t, res.Err)
	assert.Equal(t, 1, res.Attempts)
}

func TestDo_SuccessAfterRetries(t *testing.T) {
	calls := 0
	res := Do(context.Background(), fastConfig(3), func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})
	assert.NoError(t, res.Err)
	assert.Equal(t, 3, res.Attempts)
	assert.Nil(t, res.LastError)
}

func TestDo_MaxRetriesExceeded(t *testing.T) {
	boom := errors.New("boom")
	res := Do(context.Background(), fastConfig(2), func(ctx context.Context) error { return boom })
	assert.ErrorIs(t, res.Err, ErrMaxRetriesExceeded)
	assert.Equal(t, 3, res.Attempts)
	assert.Equal(t, boom, res.LastError)
}

func TestDo_PermanentStopsImmediately(t *testing.T) {
	bad := errors.New("bad input")
	calls := 0
	res := Do(context.Background(), fastConfig(5), func(ctx context.Context) error {
		calls++
		return Permanent(bad)
	})
	assert.Equal(t, bad, res.Err)
	assert.Equal(t, 1, calls)
}

func TestDo_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res := Do(ctx, fastConfig(3), func(ctx context.Context) error { return nil })
	assert.ErrorIs(t, res.Err, ErrContextCanceled)
	assert.Equal(t, 0, res.Attempts)
}

func TestRetrier_Callback(t *testing.T) {
	var attempts []int
	r := New(fastConfig(2))
	r.Do(context.Background(), func(ctx context.Context) error {
		return errors.New("again")
	}, func(attempt int, err error, next time.Duration) {
		attempts = append(attempts, attempt)
		assert.LessOrEqual(t, next, 5*time.Millisecond)
	})
	assert.Equal(t, []int{1, 2}, attempts)
}

func TestInterval_ExponentialAndCapped(t *testing.T) {
	r := New(&Config{InitialInterval: 10 * time.Millisecond, MaxInterval: 50 * time.Millisecond, Multiplier: 2})
	assert.Equal(t, 10*time.Millisecond, r.interval(0))
	assert.Equal(t, 20*time.Millisecond, r.interval(1))
	assert.Equal(t, 40*time.Millisecond, r.interval(2))
	assert.Equal(t, 50*time.Millisecond, r.interval(3))
}

func TestPermanent_Nil(t *testing.T) {
	assert.Nil(t, Permanent(nil))
}
