// Package testutil starts in-memory Redis servers for tests.
package testutil

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"

	"github.com/2mushr00m/dialLog/logger"
	"github.com/2mushr00m/dialLog/redis"
)

// NewClient starts a miniredis server and returns a Client connected to
// it. Both are closed when the test ends.
func NewClient(tb testing.TB, prefix string) (*redis.Client, *miniredis.Miniredis) {
	tb.Helper()
	mini, err := miniredis.Run()
	if err != nil {
		tb.Fatalf("start miniredis: %v", err)
	}
	rdb := goredis.NewClient(&goredis.Options{Addr: mini.Addr()})
	client := redis.Wrap(rdb, prefix, logger.Nop())
	tb.Cleanup(func() {
		_ = client.Close()
		mini.Close()
	})
	return client, mini
}
