package router

import (
	"fmt"
	"time"

	"github.com/2mushr00m/dialLog/langdetect"
	"github.com/2mushr00m/dialLog/media"
	"github.com/2mushr00m/dialLog/resilience"
	"github.com/2mushr00m/dialLog/transcription"
)

// Mode selects between the routed pipeline and a fixed engine.
type Mode string

const (
	// ModeOn runs probe, detect and route.
	ModeOn Mode = "on"
	// ModeOff uses Config.Engine directly.
	ModeOff Mode = "off"
)

// Config configures the router.
type Config struct {
	Mode Mode `mapstructure:"mode" validate:"omitempty,oneof=on off"`
	// Engine is the fixed engine used when Mode is off.
	Engine string `mapstructure:"engine" validate:"omitempty,oneof=clova google static"`
	// ProbeLanguage is the language code of the QUICK probe.
	ProbeLanguage string `mapstructure:"probe_language"`
	// ProbeDuration bounds the probe head.
	ProbeDuration time.Duration `mapstructure:"probe_duration"`
	// FallbackLanguage is used when no detected tag maps to a code.
	FallbackLanguage string `mapstructure:"fallback_language"`
	// LocalLanguagePrefix is the base language served by the local engine.
	LocalLanguagePrefix string `mapstructure:"local_language_prefix"`
	// LanguageCodes maps detected tags to cloud language codes.
	LanguageCodes map[string]string `mapstructure:"language_codes"`
	// Breaker guards the local engine.
	Breaker resilience.CircuitBreakerConfig `mapstructure:"breaker"`
}

// ApplyDefaults fills zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.Mode == "" {
		c.Mode = ModeOn
	}
	if c.Engine == "" {
		c.Engine = transcription.EngineClova
	}
	if c.ProbeLanguage == "" {
		c.ProbeLanguage = langdetect.DefaultFallbackCode
	}
	if c.ProbeDuration <= 0 {
		c.ProbeDuration = media.DefaultProbeDuration
	}
	if c.FallbackLanguage == "" {
		c.FallbackLanguage = langdetect.DefaultFallbackCode
	}
	if c.LocalLanguagePrefix == "" {
		c.LocalLanguagePrefix = langdetect.DefaultLocalPrefix
	}
	if c.Breaker.Name == "" {
		c.Breaker.Name = transcription.EngineClova
	}
	c.Breaker.ApplyDefaults()
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	switch c.Mode {
	case "", ModeOn, ModeOff:
	default:
		return fmt.Errorf("router.mode must be on or off, got %q", c.Mode)
	}
	if c.ProbeDuration < 0 {
		return fmt.Errorf("router.probe_duration must not be negative")
	}
	return nil
}
