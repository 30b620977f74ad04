package cache

import (
	"context"
	"time"

	"github.com/2mushr00m/dialLog/redis"
)

// RedisStore keeps entries as Redis strings and their access times in a
// sorted set scored by Unix milliseconds.
type RedisStore struct {
	client     *redis.Client
	index      string
	maxEntries int
	now        func() time.Time
}

// NewRedisStore creates a store namespaced under the client's prefix.
func NewRedisStore(client *redis.Client, maxEntries int, now func() time.Time) *RedisStore {
	if maxEntries < MinEntries {
		maxEntries = MinEntries
	}
	if now == nil {
		now = time.Now
	}
	return &RedisStore{
		client:     client,
		index:      client.Key("transcripts", "lru"),
		maxEntries: maxEntries,
		now:        now,
	}
}

func (s *RedisStore) key(k string) string { return s.client.Key("transcript", k) }

func (s *RedisStore) score() float64 { return float64(s.now().UnixMilli()) }

// Get implements Store.
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, ok, err := s.client.Get(ctx, s.key(key))
	if err != nil || !ok {
		return nil, false, err
	}
	if err := s.client.Touch(ctx, s.index, key, s.score()); err != nil {
		return data, true, err
	}
	return data, true, nil
}

// Put implements Store.
func (s *RedisStore) Put(ctx context.Context, key string, payload []byte) (int, error) {
	if err := s.client.SetIndexed(ctx, s.key(key), payload, s.index, key, s.score()); err != nil {
		return 0, err
	}
	n, err := s.client.Count(ctx, s.index)
	if err != nil {
		return 0, err
	}
	over := n - int64(s.maxEntries)
	if over <= 0 {
		return 0, nil
	}
	victims, err := s.client.Oldest(ctx, s.index, over)
	if err != nil {
		return 0, err
	}
	keys := make([]string, len(victims))
	for i, v := range victims {
		keys[i] = s.key(v)
	}
	if err := s.client.RemoveIndexed(ctx, s.index, keys, victims); err != nil {
		return 0, err
	}
	return len(victims), nil
}

// Has implements Store.
func (s *RedisStore) Has(ctx context.Context, key string) (bool, error) {
	return s.client.Exists(ctx, s.key(key))
}

// Clear implements Store.
func (s *RedisStore) Clear(ctx context.Context) error {
	members, err := s.client.Members(ctx, s.index)
	if err != nil {
		return err
	}
	keys := make([]string, 0, len(members)+1)
	for _, m := range members {
		keys = append(keys, s.key(m))
	}
	keys = append(keys, s.index)
	return s.client.Del(ctx, keys...)
}

// Len implements Store.
func (s *RedisStore) Len(ctx context.Context) (int, error) {
	n, err := s.client.Count(ctx, s.index)
	return int(n), err
}
