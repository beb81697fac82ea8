// Package retry repeats transient operations with exponential backoff.
package retry

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"time"
)

// Config contains retry configuration
type Config struct {
	// MaxRetries is the number of attempts after the first; 0 disables retrying
	MaxRetries int
	// InitialInterval is the wait before the first retry
	InitialInterval time.Duration
	// MaxInterval caps the wait between attempts
	MaxInterval time.Duration
	// Multiplier grows the wait after each retry
	Multiplier float64
	// JitterFactor adds up to ±JitterFactor of the wait at random (0-1)
	JitterFactor float64
}

// DefaultConfig returns the backoff used for storefront reads:
// 200ms, 400ms, capped at 2s
func DefaultConfig() Config {
	return Config{
		MaxRetries:      2,
		InitialInterval: 200 * time.Millisecond,
		MaxInterval:     2 * time.Second,
		Multiplier:      2.0,
		JitterFactor:    0.1,
	}
}

// Operation is the function to be retried
type Operation func(ctx context.Context) error

// PermanentError stops retrying and surfaces the wrapped error
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string {
	return e.Err.Error()
}

func (e *PermanentError) Unwrap() error {
	return e.Err
}

// Permanent marks an error as not retryable
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &PermanentError{Err: err}
}

// Result describes a finished Do
type Result struct {
	// Err is the error of the last attempt, nil on success. A permanent
	// error is unwrapped; a cancelled wait yields the last attempt's
	// error, or the context error when there was none.
	Err error
	// Attempts counts every call of the operation
	Attempts int
}

// RetryCallback is called before each wait
type RetryCallback func(attempt int, err error, wait time.Duration)

// Retrier runs operations under one backoff configuration
type Retrier struct {
	config Config
}

// New creates a Retrier, filling unset intervals from DefaultConfig
func New(config Config) *Retrier {
	def := DefaultConfig()
	if config.MaxRetries < 0 {
		config.MaxRetries = 0
	}
	if config.InitialInterval <= 0 {
		config.InitialInterval = def.InitialInterval
	}
	if config.MaxInterval <= 0 {
		config.MaxInterval = def.MaxInterval
	}
	if config.Multiplier <= 0 {
		config.Multiplier = def.Multiplier
	}
	if config.JitterFactor < 0 {
		config.JitterFactor = 0
	}
	if config.JitterFactor > 1 {
		config.JitterFactor = 1
	}
	return &Retrier{config: config}
}

// MaxRetries returns the configured retry count
func (r *Retrier) MaxRetries() int {
	return r.config.MaxRetries
}

// Do runs op until it succeeds, returns a permanent error, or the retries
// are spent. onRetry may be nil.
func (r *Retrier) Do(ctx context.Context, op Operation, onRetry RetryCallback) Result {
	var res Result
	for attempt := 0; ; attempt++ {
		res.Attempts = attempt + 1

		err := op(ctx)
		if err == nil {
			res.Err = nil
			return res
		}

		var perm *PermanentError
		if errors.As(err, &perm) {
			res.Err = perm.Err
			return res
		}
		res.Err = err

		if attempt >= r.config.MaxRetries {
			return res
		}

		wait := r.interval(attempt)
		if onRetry != nil {
			onRetry(attempt+1, err, wait)
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return res
		case <-timer.C:
		}
	}
}

// interval is InitialInterval * Multiplier^attempt with jitter, capped
func (r *Retrier) interval(attempt int) time.Duration {
	d := float64(r.config.InitialInterval) * math.Pow(r.config.Multiplier, float64(attempt))
	if r.config.JitterFactor > 0 {
		jitter := d * r.config.JitterFactor
		d += (rand.Float64()*2 - 1) * jitter
	}
	if d > float64(r.config.MaxInterval) {
		d = float64(r.config.MaxInterval)
	}
	if d <= 0 {
		d = float64(r.config.InitialInterval)
	}
	return time.Duration(d)
}
