package config

import (
	"fmt"

	"github.com/2mushr00m/dialLog/auth"
	"github.com/2mushr00m/dialLog/cache"
	"github.com/2mushr00m/dialLog/langdetect"
	"github.com/2mushr00m/dialLog/logger"
	"github.com/2mushr00m/dialLog/observability"
	"github.com/2mushr00m/dialLog/redis"
	"github.com/2mushr00m/dialLog/router"
	"github.com/2mushr00m/dialLog/transcription/clova"
	"github.com/2mushr00m/dialLog/transcription/google"
	"github.com/2mushr00m/dialLog/validation"
)

// Config aggregates every section of the diallog configuration.
type Config struct {
	Logging       logger.Config        `yaml:"logging" mapstructure:"logging"`
	Auth          auth.Config          `yaml:"auth" mapstructure:"auth"`
	Clova         clova.Config         `yaml:"clova" mapstructure:"clova"`
	Google        google.Config        `yaml:"google" mapstructure:"google"`
	Router        router.Config        `yaml:"router" mapstructure:"router"`
	Detector      langdetect.Config    `yaml:"detector" mapstructure:"detector"`
	Cache         cache.Config         `yaml:"cache" mapstructure:"cache"`
	Redis         redis.Config         `yaml:"redis" mapstructure:"redis"`
	Observability observability.Config `yaml:"observability" mapstructure:"observability"`
}

// ApplyDefaults applies defaults to every section.
func (c *Config) ApplyDefaults() {
	c.Logging.ApplyDefaults()
	c.Auth.ApplyDefaults()
	c.Clova.ApplyDefaults()
	c.Google.ApplyDefaults()
	c.Router.ApplyDefaults()
	c.Detector.ApplyDefaults()
	c.Detector.LocalPrefix = c.Router.LocalLanguagePrefix
	c.Cache.ApplyDefaults()
	c.Redis.ApplyDefaults()
	c.Observability.ApplyDefaults()
}

// Validate runs struct tag validation and then each section's checks.
func (c *Config) Validate() error {
	if err := validation.Validate(c); err != nil {
		return err
	}
	type check struct {
		name string
		fn   func() error
	}
	checks := []check{
		{"logging", c.Logging.Validate},
		{"auth", c.Auth.Validate},
		{"clova", c.Clova.Validate},
		{"router", c.Router.Validate},
		{"detector", c.Detector.Validate},
		{"cache", c.Cache.Validate},
		{"observability", c.Observability.Validate},
	}
	if c.Cache.Enabled && c.Cache.Backend == cache.BackendRedis {
		checks = append(checks, check{"redis", c.Redis.Validate})
	}
	for _, check := range checks {
		if err := check.fn(); err != nil {
			return fmt.Errorf("config.%s: %w", check.name, err)
		}
	}
	return nil
}

// RoutingEnabled reports whether the routed pipeline can run. It needs the
// cloud engine, so a missing service account turns routing off.
func (c *Config) RoutingEnabled() bool {
	return c.Router.Mode == router.ModeOn && c.Auth.ServiceAccountFile != ""
}
