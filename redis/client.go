package redis

import (
	"context"
	stderrors "errors"
	"fmt"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/2mushr00m/dialLog/logger"
)

// Client wraps a go-redis client with diallog logging.
type Client struct {
	rdb    *goredis.Client
	log    *logger.Logger
	prefix string
	closed bool
	mu     sync.Mutex
}

// New creates a new Redis client with the given configuration and logger.
func New(cfg Config, log *logger.Logger) (*Client, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("redis config: %w", err)
	}

	dialTimeout, _ := time.ParseDuration(cfg.DialTimeout)
	readTimeout, _ := time.ParseDuration(cfg.ReadTimeout)
	writeTimeout, _ := time.ParseDuration(cfg.WriteTimeout)

	rdb := goredis.NewClient(&goredis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MaxRetries:   cfg.MaxRetries,
		DialTimeout:  dialTimeout,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	})

	log = logger.OrNop(log).WithComponent("redis")
	log.Info("redis client created", logger.Fields("addr", cfg.Addr, "db", cfg.DB))
	return &Client{rdb: rdb, log: log, prefix: cfg.KeyPrefix}, nil
}

// Wrap adopts an existing go-redis client.
func Wrap(rdb *goredis.Client, prefix string, log *logger.Logger) *Client {
	return &Client{rdb: rdb, log: logger.OrNop(log).WithComponent("redis"), prefix: prefix}
}

// Key prefixes parts with the configured namespace, joined by ':'.
func (c *Client) Key(parts ...string) string {
	k := c.prefix
	for _, p := range parts {
		if k == "" {
			k = p
			continue
		}
		k += ":" + p
	}
	return k
}

// Ping verifies the Redis connection is alive.
func (c *Client) Ping(ctx context.Context) error {
	pong, err := c.rdb.Ping(ctx).Result()
	if err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	if pong != "PONG" {
		return fmt.Errorf("unexpected redis ping response: %s", pong)
	}
	return nil
}

// Get retrieves a value by key. A missing key returns ok=false.
func (c *Client) Get(ctx context.Context, key string) (value []byte, ok bool, err error) {
	value, err = c.rdb.Get(ctx, key).Bytes()
	if stderrors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

// Exists reports whether key exists.
func (c *Client) Exists(ctx context.Context, key string) (bool, error) {
	n, err := c.rdb.Exists(ctx, key).Result()
	return n > 0, err
}

// SetIndexed stores value under key and records member in the sorted set
// index with score, in one transaction.
func (c *Client) SetIndexed(ctx context.Context, key string, value []byte, index, member string, score float64) error {
	_, err := c.rdb.TxPipelined(ctx, func(p goredis.Pipeliner) error {
		p.Set(ctx, key, value, 0)
		p.ZAdd(ctx, index, goredis.Z{Score: score, Member: member})
		return nil
	})
	return err
}

// Touch updates member's score in index.
func (c *Client) Touch(ctx context.Context, index, member string, score float64) error {
	return c.rdb.ZAdd(ctx, index, goredis.Z{Score: score, Member: member}).Err()
}

// Count returns the number of members in index.
func (c *Client) Count(ctx context.Context, index string) (int64, error) {
	return c.rdb.ZCard(ctx, index).Result()
}

// Oldest returns up to n members of index with the lowest scores.
func (c *Client) Oldest(ctx context.Context, index string, n int64) ([]string, error) {
	if n <= 0 {
		return nil, nil
	}
	return c.rdb.ZRange(ctx, index, 0, n-1).Result()
}

// Members returns every member of index.
func (c *Client) Members(ctx context.Context, index string) ([]string, error) {
	return c.rdb.ZRange(ctx, index, 0, -1).Result()
}

// RemoveIndexed deletes keys and drops members from index.
func (c *Client) RemoveIndexed(ctx context.Context, index string, keys, members []string) error {
	if len(keys) == 0 && len(members) == 0 {
		return nil
	}
	_, err := c.rdb.TxPipelined(ctx, func(p goredis.Pipeliner) error {
		if len(keys) > 0 {
			p.Del(ctx, keys...)
		}
		if len(members) > 0 {
			args := make([]interface{}, len(members))
			for i, m := range members {
				args[i] = m
			}
			p.ZRem(ctx, index, args...)
		}
		return nil
	})
	return err
}

// Del deletes one or more keys.
func (c *Client) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return c.rdb.Del(ctx, keys...).Err()
}

// Close closes the Redis connection. Safe to call multiple times.
func (c *Client) Close() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.log.Info("closing redis connection")
	c.closed = true
	return c.rdb.Close()
}

// Unwrap returns the underlying go-redis client for advanced operations.
func (c *Client) Unwrap() *goredis.Client {
	return c.rdb
}
