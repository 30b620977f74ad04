package langdetect

import "fmt"

// Policy defaults.
const (
	DefaultMinConfidence     = 0.5
	DefaultMinMargin         = 0.1
	DefaultScriptRatio       = 0.35
	DefaultShortSnippetRunes = 4
	DefaultLocalPrefix       = "ko"
)

// Config tunes the detection policy.
type Config struct {
	// MinConfidence is the lowest top-candidate confidence accepted.
	MinConfidence float64 `mapstructure:"min_confidence" validate:"gte=0,lte=1"`
	// MinMargin is the smallest top-vs-second gap accepted.
	MinMargin float64 `mapstructure:"min_margin" validate:"gte=0,lte=1"`
	// ScriptRatio is the Hangul share of letters/digits that short-circuits to KO.
	ScriptRatio float64 `mapstructure:"script_ratio" validate:"gte=0,lte=1"`
	// ShortSnippetRunes is the length up to which any Hangul means KO.
	ShortSnippetRunes int `mapstructure:"short_snippet_runes" validate:"gte=0"`
	// LocalPrefix is the tag prefix classified as KO.
	LocalPrefix string `mapstructure:"local_prefix"`
}

// ApplyDefaults fills zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.MinConfidence == 0 {
		c.MinConfidence = DefaultMinConfidence
	}
	if c.MinMargin == 0 {
		c.MinMargin = DefaultMinMargin
	}
	if c.ScriptRatio == 0 {
		c.ScriptRatio = DefaultScriptRatio
	}
	if c.ShortSnippetRunes == 0 {
		c.ShortSnippetRunes = DefaultShortSnippetRunes
	}
	if c.LocalPrefix == "" {
		c.LocalPrefix = DefaultLocalPrefix
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.MinConfidence < 0 || c.MinConfidence > 1 {
		return fmt.Errorf("detector.min_confidence must be within [0,1], got %v", c.MinConfidence)
	}
	if c.MinMargin < 0 || c.MinMargin > 1 {
		return fmt.Errorf("detector.min_margin must be within [0,1], got %v", c.MinMargin)
	}
	return nil
}
