package cache

import (
	"github.com/spf13/afero"

	"github.com/2mushr00m/dialLog/encryption"
	"github.com/2mushr00m/dialLog/errors"
	"github.com/2mushr00m/dialLog/logger"
	"github.com/2mushr00m/dialLog/observability"
	"github.com/2mushr00m/dialLog/redis"
)

// Deps are the collaborators Open may need.
type Deps struct {
	Fs      afero.Fs
	Redis   *redis.Client
	Log     *logger.Logger
	Metrics *observability.Metrics
}

// Open builds the ResultCache described by cfg.
func Open(cfg Config, deps Deps) (*ResultCache, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, errors.InvalidInput("cache.backend", err.Error())
	}

	var store Store
	switch cfg.Backend {
	case BackendRedis:
		if deps.Redis == nil {
			return nil, errors.InvalidInput("redis", "is required for the redis cache backend")
		}
		store = NewRedisStore(deps.Redis, cfg.MaxEntries, nil)
	default:
		fs := deps.Fs
		if fs == nil {
			fs = afero.NewOsFs()
		}
		fileStore, err := NewFileStore(fs, cfg.Dir, cfg.MaxEntries)
		if err != nil {
			return nil, errors.Cache("open", err).WithDetail("dir", cfg.Dir)
		}
		store = fileStore
	}

	opts := []Option{WithLogger(deps.Log), WithMetrics(deps.Metrics)}
	if cfg.EncryptionKey != "" {
		sealer, err := encryption.New(cfg.EncryptionKey)
		if err != nil {
			return nil, errors.InvalidInput("cache.encryption_key", err.Error())
		}
		opts = append(opts, WithCodec(NewSealedCodec(sealer)))
	}
	return NewResultCache(store, opts...), nil
}
