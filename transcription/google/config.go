package google

import (
	"time"

	"github.com/2mushr00m/dialLog/resilience"
)

// Defaults for the Cloud Speech engine.
const (
	DefaultBaseURL      = "https://speech.googleapis.com"
	DefaultLanguage     = "en-US"
	DefaultModel        = "latest_long"
	DefaultQuickTimeout = 10 * time.Second
	DefaultTimeout      = 60 * time.Second
	DefaultSampleRate   = 16000
)

// DefaultAlternativeLanguages are sent with every QUICK probe.
var DefaultAlternativeLanguages = []string{"ko-KR", "ja-JP", "zh-CN"}

// Config holds configuration for the Cloud Speech engine.
type Config struct {
	BaseURL string `mapstructure:"base_url"`
	// DefaultLanguage is used by Transcribe.
	DefaultLanguage string `mapstructure:"default_language"`
	// AlternativeLanguages accompany QUICK requests.
	AlternativeLanguages []string `mapstructure:"alternative_languages"`
	Model                string   `mapstructure:"model"`
	// QuickTimeout bounds one QUICK recognize call.
	QuickTimeout time.Duration `mapstructure:"quick_timeout"`
	// Timeout bounds each FULL start and poll request.
	Timeout time.Duration `mapstructure:"timeout"`
	// Poll is the long-running operation schedule.
	Poll resilience.BackoffConfig `mapstructure:"poll"`
}

// ApplyDefaults fills zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.DefaultLanguage == "" {
		c.DefaultLanguage = DefaultLanguage
	}
	if c.AlternativeLanguages == nil {
		c.AlternativeLanguages = append([]string(nil), DefaultAlternativeLanguages...)
	}
	if c.Model == "" {
		c.Model = DefaultModel
	}
	if c.QuickTimeout <= 0 {
		c.QuickTimeout = DefaultQuickTimeout
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	c.Poll.ApplyDefaults()
}
