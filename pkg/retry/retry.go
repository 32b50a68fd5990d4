package retry

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"time"
)

var (
	ErrMaxRetriesExceeded = errors.New("max retries exceeded")
	ErrContextCanceled    = errors.New("context canceled during retry")
)

// Config contains retry configuration
type Config struct {
	// MaxRetries is the number of retries after the first attempt
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
	Multiplier      float64
	// JitterFactor in [0,1]; 0.1 means ±10%
	JitterFactor float64
}

// DefaultConfig returns default retry configuration: 200ms, 400ms, 800ms
func DefaultConfig() *Config {
	return &Config{
		MaxRetries:      3,
		InitialInterval: 200 * time.Millisecond,
		MaxInterval:     5 * time.Second,
		Multiplier:      2.0,
		JitterFactor:    0.1,
	}
}

// Operation is the function to be retried
type Operation func(ctx context.Context) error

// PermanentError stops the retry loop immediately
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string { return e.Err.Error() }
func (e *PermanentError) Unwrap() error { return e.Err }

// Permanent marks an error as not retryable
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &PermanentError{Err: err}
}

// Result contains the outcome of a retried operation
type Result struct {
	// Err is nil on success, ErrMaxRetriesExceeded, ErrContextCanceled or the
	// unwrapped permanent error
	Err       error
	Attempts  int
	LastError error
}

// Callback is invoked before each wait
type Callback func(attempt int, err error, next time.Duration)

// Retrier handles retry logic with exponential backoff
type Retrier struct {
	config *Config
}

// New creates a Retrier, filling zero values from DefaultConfig
func New(config *Config) *Retrier {
	def := DefaultConfig()
	if config == nil {
		config = def
	}
	cfg := *config
	if cfg.InitialInterval <= 0 {
		cfg.InitialInterval = def.InitialInterval
	}
	if cfg.MaxInterval <= 0 {
		cfg.MaxInterval = def.MaxInterval
	}
	if cfg.Multiplier <= 0 {
		cfg.Multiplier = def.Multiplier
	}
	cfg.JitterFactor = math.Max(0, math.Min(1, cfg.JitterFactor))
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	return &Retrier{config: &cfg}
}

// Do executes op until it succeeds, fails permanently, or retries run out
func (r *Retrier) Do(ctx context.Context, op Operation, callback Callback) *Result {
	result := &Result{}

	for attempt := 0; attempt <= r.config.MaxRetries; attempt++ {
		if ctx.Err() != nil {
			result.Err = ErrContextCanceled
			return result
		}

		result.Attempts = attempt + 1
		err := op(ctx)
		if err == nil {
			result.LastError = nil
			return result
		}
		result.LastError = err

		var permErr *PermanentError
		if errors.As(err, &permErr) {
			result.Err = permErr.Err
			result.LastError = permErr.Err
			return result
		}

		if attempt == r.config.MaxRetries {
			break
		}

		wait := r.interval(attempt)
		if callback != nil {
			callback(attempt+1, err, wait)
		}

		select {
		case <-ctx.Done():
			result.Err = ErrContextCanceled
			return result
		case <-time.After(wait):
		}
	}

	result.Err = ErrMaxRetriesExceeded
	return result
}

// interval returns initial * multiplier^attempt with jitter, capped at MaxInterval
func (r *Retrier) interval(attempt int) time.Duration {
	d := float64(r.config.InitialInterval) * math.Pow(r.config.Multiplier, float64(attempt))

	if r.config.JitterFactor > 0 {
		jitter := d * r.config.JitterFactor
		d += (rand.Float64()*2 - 1) * jitter
	}
	if d > float64(r.config.MaxInterval) {
		d = float64(r.config.MaxInterval)
	}
	if d < 0 {
		d = float64(r.config.InitialInterval)
	}
	return time.Duration(d)
}

// Do is a convenience wrapper around New(config).Do
func Do(ctx context.Context, config *Config, op Operation) *Result {
	return New(config).Do(ctx, op, nil)
}
