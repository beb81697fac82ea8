package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var errTransient = errors.New("connection refused")

func fast(retries int) Config {
	return Config{
		MaxRetries:      retries,
		InitialInterval: time.Millisecond,
		MaxInterval:     5 * time.Millisecond,
		Multiplier:      2.0,
	}
}

func TestNew_FillsDefaults(t *testing.T) {
	r := New(Config{MaxRetries: -1, JitterFactor: 3})

	def := DefaultConfig()
	assert.Equal(t, 0, r.MaxRetries())
	assert.Equal(t, def.InitialInterval, r.config.InitialInterval)
	assert.Equal(t, def.MaxInterval, r.config.MaxInterval)
	assert.Equal(t, def.Multiplier, r.config.Multiplier)
	assert.Equal(t, 1.0, r.config.JitterFactor)
}

func TestDo_Success(t *testing.T) {
	calls := 0
	res := New(fast(3)).Do(context.Background(), func(ctx context.Context) error {
		calls++
		return nil
	}, nil)

	assert.NoError(t, res.Err)
	assert.Equal(t, 1, res.Attempts)
	assert.Equal(t, 1, calls)
}

func TestDo_SuccessAfterRetries(t *testing.T) {
	calls := 0
	var retried []int
	res := New(fast(3)).Do(context.Background(), func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return errTransient
		}
		return nil
	}, func(attempt int, err error, wait time.Duration) {
		retried = append(retried, attempt)
		assert.ErrorIs(t, err, errTransient)
	})

	assert.NoError(t, res.Err)
	assert.Equal(t, 3, res.Attempts)
	assert.Equal(t, []int{1, 2}, retried)
}

func TestDo_RetriesSpent(t *testing.T) {
	res := New(fast(2)).Do(context.Background(), func(ctx context.Context) error {
		return errTransient
	}, nil)

	assert.ErrorIs(t, res.Err, errTransient)
	assert.Equal(t, 3, res.Attempts)
}

func TestDo_NoRetries(t *testing.T) {
	res := New(fast(0)).Do(context.Background(), func(ctx context.Context) error {
		return errTransient
	}, nil)

	assert.ErrorIs(t, res.Err, errTransient)
	assert.Equal(t, 1, res.Attempts)
}

func TestDo_PermanentStops(t *testing.T) {
	rejected := errors.New("bad request")
	res := New(fast(5)).Do(context.Background(), func(ctx context.Context) error {
		return Permanent(rejected)
	}, nil)

	assert.Equal(t, rejected, res.Err)
	assert.Equal(t, 1, res.Attempts)
}

func TestDo_ContextCancelledDuringWait(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := fast(5)
	cfg.InitialInterval = time.Hour
	cfg.MaxInterval = time.Hour

	res := New(cfg).Do(ctx, func(ctx context.Context) error {
		cancel()
		return errTransient
	}, nil)

	assert.ErrorIs(t, res.Err, errTransient)
	assert.Equal(t, 1, res.Attempts)
}

func TestInterval_Exponential(t *testing.T) {
	r := New(Config{InitialInterval: 100 * time.Millisecond, MaxInterval: time.Second, Multiplier: 2})

	assert.Equal(t, 100*time.Millisecond, r.interval(0))
	assert.Equal(t, 200*time.Millisecond, r.interval(1))
	assert.Equal(t, 400*time.Millisecond, r.interval(2))
	assert.Equal(t, time.Second, r.interval(5))
}

func TestInterval_JitterBounds(t *testing.T) {
	r := New(Config{InitialInterval: 100 * time.Millisecond, MaxInterval: time.Second, Multiplier: 2, JitterFactor: 0.1})

	for i := 0; i < 50; i++ {
		d := r.interval(0)
		assert.GreaterOrEqual(t, d, 90*time.Millisecond)
		assert.LessOrEqual(t, d, 110*time.Millisecond)
	}
}

func TestPermanent_Nil(t *testing.T) {
	assert.NoError(t, Permanent(nil))
}
