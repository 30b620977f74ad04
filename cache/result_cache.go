package cache

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/2mushr00m/dialLog/errors"
	"github.com/2mushr00m/dialLog/logger"
	"github.com/2mushr00m/dialLog/observability"
	"github.com/2mushr00m/dialLog/transcription"
)

// Stats are cumulative counters since construction.
type Stats struct {
	Hits      int64 `json:"hits"`
	Misses    int64 `json:"misses"`
	Puts      int64 `json:"puts"`
	Evictions int64 `json:"evictions"`
}

// ResultCache maps identity keys to segment lists. Writes are serialized;
// reads run concurrently.
type ResultCache struct {
	store   Store
	codec   Codec
	log     *logger.Logger
	metrics *observability.Metrics

	mu        sync.RWMutex
	hits      atomic.Int64
	misses    atomic.Int64
	puts      atomic.Int64
	evictions atomic.Int64
}

// Option configures a ResultCache.
type Option func(*ResultCache)

// WithCodec replaces the JSON codec.
func WithCodec(c Codec) Option {
	return func(rc *ResultCache) { rc.codec = c }
}

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option {
	return func(rc *ResultCache) { rc.log = l }
}

// WithMetrics sets the OpenTelemetry counters.
func WithMetrics(m *observability.Metrics) Option {
	return func(rc *ResultCache) { rc.metrics = m }
}

// NewResultCache creates a cache over store.
func NewResultCache(store Store, opts ...Option) *ResultCache {
	rc := &ResultCache{store: store, codec: JSONCodec{}}
	for _, opt := range opts {
		opt(rc)
	}
	rc.log = logger.OrNop(rc.log).WithComponent("cache")
	return rc
}

// Get returns the cached segments for key. A present entry that cannot be
// decoded is reported as a CACHE_ERROR.
func (c *ResultCache) Get(ctx context.Context, key string) ([]transcription.Segment, bool, error) {
	c.mu.RLock()
	payload, ok, err := c.store.Get(ctx, key)
	c.mu.RUnlock()

	if err != nil && !ok {
		c.miss(ctx, key)
		return nil, false, errors.Cache("get", err).WithDetail("key", key)
	}
	if !ok {
		c.miss(ctx, key)
		return nil, false, nil
	}
	if err != nil {
		c.log.Warn("cache recency refresh failed", logger.Fields(logger.FieldCacheKey, key, logger.FieldError, err))
	}

	segments, err := c.codec.Decode(key, payload)
	if err != nil {
		c.miss(ctx, key)
		return nil, false, errors.Cache("decode", err).WithDetail("key", key)
	}

	c.hits.Add(1)
	c.metrics.CacheHit(ctx)
	c.log.Debug("cache hit", logger.Fields(logger.FieldCacheKey, key, logger.FieldSegments, len(segments)))
	return segments, true, nil
}

func (c *ResultCache) miss(ctx context.Context, key string) {
	c.misses.Add(1)
	c.metrics.CacheMiss(ctx)
	c.log.Debug("cache miss", logger.Fields(logger.FieldCacheKey, key))
}

// Put stores segments under key and evicts beyond the ceiling.
func (c *ResultCache) Put(ctx context.Context, key string, segments []transcription.Segment) error {
	payload, err := c.codec.Encode(key, segments)
	if err != nil {
		return errors.Cache("encode", err).WithDetail("key", key)
	}

	c.mu.Lock()
	evicted, err := c.store.Put(ctx, key, payload)
	c.mu.Unlock()
	if err != nil {
		return errors.Cache("put", err).WithDetail("key", key)
	}

	c.puts.Add(1)
	c.log.Debug("cache put", logger.Fields(logger.FieldCacheKey, key, "bytes", len(payload)))
	if evicted > 0 {
		c.evictions.Add(int64(evicted))
		c.metrics.CacheEvicted(ctx, evicted)
		c.log.Debug("cache evicted", logger.Fields("count", evicted))
	}
	return nil
}

// Has reports whether key is cached.
func (c *ResultCache) Has(ctx context.Context, key string) (bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ok, err := c.store.Has(ctx, key)
	if err != nil {
		return false, errors.Cache("has", err).WithDetail("key", key)
	}
	return ok, nil
}

// Clear removes every entry.
func (c *ResultCache) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.store.Clear(ctx); err != nil {
		return errors.Cache("clear", err)
	}
	c.log.Info("cache cleared")
	return nil
}

// Len returns the number of stored entries.
func (c *ResultCache) Len(ctx context.Context) (int, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	n, err := c.store.Len(ctx)
	if err != nil {
		return 0, errors.Cache("len", err)
	}
	return n, nil
}

// Stats returns a snapshot of the counters.
func (c *ResultCache) Stats() Stats {
	return Stats{
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Puts:      c.puts.Load(),
		Evictions: c.evictions.Load(),
	}
}
