package httpclient

import (
	"errors"
	"time"
)

const (
	defaultTimeout        = 120 * time.Second
	defaultConnectTimeout = 30 * time.Second
)

// Config configures a Client. Provider packages build one per engine; it
// is not read from the config file directly.
type Config struct {
	// BaseURL is joined with each Request.Path that is not absolute.
	BaseURL string
	// Timeout bounds one exchange including the body read (default 120s).
	// Long-running recognitions rely on Request.Timeout instead.
	Timeout time.Duration
	// ConnectTimeout bounds dialing (default 30s).
	ConnectTimeout time.Duration
	// Auth applies to every request unless Request.Auth is set.
	Auth *AuthConfig
	// Headers are sent on every request; request headers win.
	Headers   map[string]string
	UserAgent string
}

// ApplyDefaults fills zero durations.
func (c *Config) ApplyDefaults() {
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	if c.ConnectTimeout <= 0 {
		c.ConnectTimeout = defaultConnectTimeout
	}
}

// Validate rejects non-positive durations.
func (c *Config) Validate() error {
	switch {
	case c.Timeout <= 0:
		return errors.New("httpclient: timeout must be positive")
	case c.ConnectTimeout <= 0:
		return errors.New("httpclient: connect_timeout must be positive")
	}
	return nil
}
