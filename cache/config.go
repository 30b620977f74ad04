package cache

import "fmt"

// Backend names.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
)

const (
	// DefaultMaxEntries is the default entry ceiling.
	DefaultMaxEntries = 256
	// MinEntries is the smallest ceiling honored.
	MinEntries = 16
	// DefaultDir is the file backend directory.
	DefaultDir = "transcripts"
)

// Config configures the result cache.
type Config struct {
	Enabled       bool   `mapstructure:"enabled"`
	Backend       string `mapstructure:"backend" validate:"omitempty,oneof=file redis"`
	Dir           string `mapstructure:"dir"`
	MaxEntries    int    `mapstructure:"max_entries" validate:"gte=0"`
	EncryptionKey string `mapstructure:"encryption_key"`
}

// ApplyDefaults fills zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.Backend == "" {
		c.Backend = BackendFile
	}
	if c.Dir == "" {
		c.Dir = DefaultDir
	}
	if c.MaxEntries == 0 {
		c.MaxEntries = DefaultMaxEntries
	}
	if c.MaxEntries < MinEntries {
		c.MaxEntries = MinEntries
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendFile, BackendRedis:
	default:
		return fmt.Errorf("cache.backend must be %q or %q, got %q", BackendFile, BackendRedis, c.Backend)
	}
	return nil
}
