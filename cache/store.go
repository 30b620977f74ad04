package cache

import "context"

// Store persists opaque payloads by key and bounds its size by evicting
// the least recently accessed entries.
type Store interface {
	// Get returns the payload and refreshes its recency.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Put writes the payload and returns how many entries were evicted.
	Put(ctx context.Context, key string, payload []byte) (int, error)
	// Has reports presence without touching recency.
	Has(ctx context.Context, key string) (bool, error)
	// Clear removes every entry.
	Clear(ctx context.Context) error
	// Len returns the entry count.
	Len(ctx context.Context) (int, error)
}
