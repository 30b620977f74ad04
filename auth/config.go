package auth

import (
	"fmt"
	"time"
)

const (
	// DefaultTokenURL is the Google OAuth2 token endpoint.
	DefaultTokenURL = "https://oauth2.googleapis.com/token"
	// DefaultScope grants access to Cloud Speech-to-Text.
	DefaultScope = "https://www.googleapis.com/auth/cloud-platform"
	// DefaultRefreshSkew is how long before expiry a token stops being reused.
	DefaultRefreshSkew = 60 * time.Second
	// DefaultAssertionTTL is the lifetime written into signed assertions.
	DefaultAssertionTTL = time.Hour

	grantTypeJWTBearer = "urn:ietf:params:oauth:grant-type:jwt-bearer"
)

// Config configures the service-account token provider.
type Config struct {
	// ServiceAccountFile is the path of the service-account JSON key.
	ServiceAccountFile string `mapstructure:"service_account_file"`
	// TokenURL overrides the token endpoint from the key file.
	TokenURL string `mapstructure:"token_url"`
	// Scope is the requested OAuth2 scope.
	Scope string `mapstructure:"scope"`
	// RefreshSkew is subtracted from the expiry when deciding reuse.
	RefreshSkew time.Duration `mapstructure:"refresh_skew"`
	// AssertionTTL is the assertion lifetime (exp - iat).
	AssertionTTL time.Duration `mapstructure:"assertion_ttl"`
	// Timeout bounds one token exchange.
	Timeout time.Duration `mapstructure:"timeout"`
}

// ApplyDefaults fills zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.Scope == "" {
		c.Scope = DefaultScope
	}
	if c.RefreshSkew <= 0 {
		c.RefreshSkew = DefaultRefreshSkew
	}
	if c.AssertionTTL <= 0 {
		c.AssertionTTL = DefaultAssertionTTL
	}
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.RefreshSkew >= c.AssertionTTL {
		return fmt.Errorf("auth.refresh_skew (%s) must be shorter than auth.assertion_ttl (%s)", c.RefreshSkew, c.AssertionTTL)
	}
	return nil
}

// Enabled reports whether a service account is configured.
func (c *Config) Enabled() bool { return c.ServiceAccountFile != "" }
