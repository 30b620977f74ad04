package resilience

import (
	"context"
	"errors"
	"time"
)

// ErrPollExhausted is returned by Poll when every attempt reported not done.
var ErrPollExhausted = errors.New("poll attempts exhausted")

// SleepFunc waits for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Sleep is the timer-backed SleepFunc.
func Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// PollConfig configures Poll.
type PollConfig struct {
	Backoff BackoffConfig
	// Sleep replaces the timer, mainly for tests. Defaults to Sleep.
	Sleep SleepFunc
	// OnWait is called before each wait with the attempt just made.
	OnWait func(attempt int, delay time.Duration)
}

// Poll calls fn until it reports done, fails, or the attempt budget runs
// out. The context is checked before every attempt and interrupts waits.
// The returned error is ctx.Err() on cancellation and ErrPollExhausted when
// the budget is spent.
func Poll[T any](ctx context.Context, cfg PollConfig, fn func(ctx context.Context, attempt int) (T, bool, error)) (T, error) {
	var zero T
	sleep := cfg.Sleep
	if sleep == nil {
		sleep = Sleep
	}
	b := NewBackoff(cfg.Backoff)

	for {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		result, done, err := fn(ctx, b.Attempts()+1)
		if err != nil {
			return zero, err
		}
		if done {
			return result, nil
		}

		delay, ok := b.Attempt()
		if !ok {
			return zero, ErrPollExhausted
		}
		if cfg.OnWait != nil {
			cfg.OnWait(b.Attempts(), delay)
		}
		if err := sleep(ctx, delay); err != nil {
			return zero, err
		}
	}
}
