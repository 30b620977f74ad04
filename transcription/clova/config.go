package clova

import (
	"fmt"
	"time"
)

const (
	defaultLanguage = "ko-KR"
	defaultTimeout  = 120 * time.Second

	// APIKeyHeader carries the static secret.
	APIKeyHeader = "X-CLOVASPEECH-API-KEY"
	uploadPath   = "recognizer/upload"
)

// Config holds configuration for the CLOVA Speech engine.
type Config struct {
	// BaseURL is the invoke URL of the CLOVA Speech domain.
	BaseURL string `mapstructure:"base_url"`
	// APIKey is the domain secret key.
	APIKey string `mapstructure:"api_key"`
	// Language is sent when no explicit code is requested.
	Language string `mapstructure:"language"`
	// Timeout bounds one upload and recognition.
	Timeout time.Duration `mapstructure:"timeout"`
	// WordAlignment requests per-word timing.
	WordAlignment bool `mapstructure:"word_alignment"`
}

// ApplyDefaults fills zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.Language == "" {
		c.Language = defaultLanguage
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.APIKey != "" && c.BaseURL == "" {
		return fmt.Errorf("clova.base_url is required when clova.api_key is set")
	}
	return nil
}
