package logger

import (
	"fmt"
	"slices"
)

// Config contains logging configuration.
type Config struct {
	// Level is one of trace, debug, info, warn, error, fatal, disabled.
	Level string `yaml:"level" mapstructure:"level"`
	// Format is console (human readable, colored) or json.
	Format string `yaml:"format" mapstructure:"format"`
	// Output is stderr or stdout. Transcripts go to stdout, so logs default
	// to stderr.
	Output    string `yaml:"output" mapstructure:"output"`
	NoColor   bool   `yaml:"no_color" mapstructure:"no_color"`
	Timestamp bool   `yaml:"timestamp" mapstructure:"timestamp"`
	Caller    bool   `yaml:"caller" mapstructure:"caller"`
}

var allowed = []struct {
	key    string
	values []string
	get    func(*Config) string
}{
	{"logging.level", []string{"trace", "debug", "info", "warn", "error", "fatal", "disabled"}, func(c *Config) string { return c.Level }},
	{"logging.format", []string{"json", "console"}, func(c *Config) string { return c.Format }},
	{"logging.output", []string{"stdout", "stderr"}, func(c *Config) string { return c.Output }},
}

// ApplyDefaults fills empty fields: info, console, stderr.
func (c *Config) ApplyDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
	if c.Format == "" {
		c.Format = "console"
	}
	if c.Output == "" {
		c.Output = "stderr"
	}
	c.Timestamp = true
}

// Validate rejects unknown levels, formats and outputs.
func (c *Config) Validate() error {
	for _, a := range allowed {
		if v := a.get(c); !slices.Contains(a.values, v) {
			return fmt.Errorf("%s must be one of %v (got: %s)", a.key, a.values, v)
		}
	}
	return nil
}
