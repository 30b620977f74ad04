package resilience

import (
	"math"
	"time"
)

// BackoffConfig configures an exponential backoff schedule.
type BackoffConfig struct {
	// InitialDelay is the wait after the first attempt.
	InitialDelay time.Duration `mapstructure:"initial_delay"`
	// MaxDelay caps every wait.
	MaxDelay time.Duration `mapstructure:"max_delay"`
	// Factor multiplies the delay after each attempt.
	Factor float64 `mapstructure:"factor"`
	// MaxAttempts is the total number of attempts, including the first.
	MaxAttempts int `mapstructure:"max_attempts"`
}

// DefaultBackoffConfig returns the long-running operation poll schedule:
// 1s doubling to a 10s cap, 60 attempts.
func DefaultBackoffConfig() BackoffConfig {
	return BackoffConfig{
		InitialDelay: time.Second,
		MaxDelay:     10 * time.Second,
		Factor:       2.0,
		MaxAttempts:  60,
	}
}

// ApplyDefaults fills zero-valued fields from DefaultBackoffConfig.
func (c *BackoffConfig) ApplyDefaults() {
	d := DefaultBackoffConfig()
	if c.InitialDelay <= 0 {
		c.InitialDelay = d.InitialDelay
	}
	if c.MaxDelay <= 0 {
		c.MaxDelay = d.MaxDelay
	}
	if c.MaxDelay < c.InitialDelay {
		c.MaxDelay = c.InitialDelay
	}
	if c.Factor < 1 {
		c.Factor = d.Factor
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = d.MaxAttempts
	}
}

// Backoff is an attempt-counting state machine. It is not safe for
// concurrent use; each polling loop owns its own Backoff.
type Backoff struct {
	cfg      BackoffConfig
	attempts int
	next     time.Duration
}

// NewBackoff creates a Backoff positioned before the first attempt.
func NewBackoff(cfg BackoffConfig) *Backoff {
	cfg.ApplyDefaults()
	return &Backoff{cfg: cfg, next: cfg.InitialDelay}
}

// Attempt records one attempt and returns the delay to wait before the
// next one. ok is false once MaxAttempts attempts have been recorded.
func (b *Backoff) Attempt() (delay time.Duration, ok bool) {
	b.attempts++
	if b.attempts >= b.cfg.MaxAttempts {
		return 0, false
	}
	delay = b.next
	b.next = calculateBackoff(b.attempts+1, b.cfg)
	return delay, true
}

// Attempts returns how many attempts have been recorded.
func (b *Backoff) Attempts() int { return b.attempts }

// Remaining returns how many attempts are left.
func (b *Backoff) Remaining() int { return b.cfg.MaxAttempts - b.attempts }

// Reset rewinds to the state before the first attempt.
func (b *Backoff) Reset() {
	b.attempts = 0
	b.next = b.cfg.InitialDelay
}

// calculateBackoff returns initial * factor^(attempt-1), capped at MaxDelay.
func calculateBackoff(attempt int, cfg BackoffConfig) time.Duration {
	d := float64(cfg.InitialDelay) * math.Pow(cfg.Factor, float64(attempt-1))
	if d > float64(cfg.MaxDelay) || math.IsInf(d, 0) {
		return cfg.MaxDelay
	}
	return time.Duration(d)
}
