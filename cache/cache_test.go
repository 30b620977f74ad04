package cache

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/spf13/afero"

	"github.com/2mushr00m/dialLog/encryption"
	"github.com/2mushr00m/dialLog/errors"
	redistest "github.com/2mushr00m/dialLog/redis/testutil"
	"github.com/2mushr00m/dialLog/transcription"
)

type stepClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

func segs(text string) []transcription.Segment {
	conf := 0.9
	return []transcription.Segment{
		{Text: text, StartMs: 0, EndMs: 1500, Confidence: &conf, Speaker: "1"},
		{Text: text + " again", StartMs: 1500, EndMs: 3000},
	}
}

func newStores(t *testing.T) map[string]Store {
	t.Helper()
	clock := &stepClock{now: time.Unix(1_700_000_000, 0)}
	fileStore, err := NewFileStore(afero.NewMemMapFs(), "/cache", MinEntries, WithFileClock(clock.Now))
	if err != nil {
		t.Fatalf("file store: %v", err)
	}
	client, _ := redistest.NewClient(t, "test")
	return map[string]Store{
		"file":  fileStore,
		"redis": NewRedisStore(client, MinEntries, clock.Now),
	}
}

func TestResultCache_RoundTrip(t *testing.T) {
	for name, store := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			rc := NewResultCache(store)

			if _, ok, err := rc.Get(ctx, "k1"); ok || err != nil {
				t.Fatalf("expected clean miss, got ok=%v err=%v", ok, err)
			}
			want := segs("hello")
			if err := rc.Put(ctx, "k1", want); err != nil {
				t.Fatalf("put: %v", err)
			}
			got, ok, err := rc.Get(ctx, "k1")
			if err != nil || !ok {
				t.Fatalf("expected hit, got ok=%v err=%v", ok, err)
			}
			if len(got) != 2 || got[0].Text != "hello" || got[0].EndMs != 1500 || *got[0].Confidence != 0.9 || got[0].Speaker != "1" {
				t.Errorf("unexpected segments %+v", got)
			}
			if got[1].Confidence != nil {
				t.Error("absent confidence must stay absent")
			}
			if ok, _ := rc.Has(ctx, "k1"); !ok {
				t.Error("expected Has to report the entry")
			}

			stats := rc.Stats()
			if stats.Hits != 1 || stats.Misses != 1 || stats.Puts != 1 {
				t.Errorf("unexpected stats %+v", stats)
			}

			if err := rc.Clear(ctx); err != nil {
				t.Fatalf("clear: %v", err)
			}
			if n, _ := rc.Len(ctx); n != 0 {
				t.Errorf("expected empty store after clear, got %d", n)
			}
		})
	}
}

func TestResultCache_EvictsLeastRecentlyUsed(t *testing.T) {
	for name, store := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			rc := NewResultCache(store)

			for i := 0; i < MinEntries; i++ {
				if err := rc.Put(ctx, fmt.Sprintf("k%02d", i), segs("x")); err != nil {
					t.Fatalf("put: %v", err)
				}
			}
			// Touch the oldest so k01 becomes the eviction victim.
			if _, ok, _ := rc.Get(ctx, "k00"); !ok {
				t.Fatal("expected k00 hit")
			}
			if err := rc.Put(ctx, "new", segs("y")); err != nil {
				t.Fatalf("put: %v", err)
			}

			if n, _ := rc.Len(ctx); n != MinEntries {
				t.Errorf("expected %d entries, got %d", MinEntries, n)
			}
			if ok, _ := rc.Has(ctx, "k01"); ok {
				t.Error("expected k01 to be evicted")
			}
			if ok, _ := rc.Has(ctx, "k00"); !ok {
				t.Error("recently read k00 must survive")
			}
			if rc.Stats().Evictions != 1 {
				t.Errorf("expected 1 eviction, got %d", rc.Stats().Evictions)
			}
		})
	}
}

func TestResultCache_ConcurrentPutGet(t *testing.T) {
	const workers, perWorker = 8, 5
	for name, store := range newStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			rc := NewResultCache(store)

			var wg sync.WaitGroup
			for w := 0; w < workers; w++ {
				wg.Add(1)
				go func(w int) {
					defer wg.Done()
					for i := 0; i < perWorker; i++ {
						key := fmt.Sprintf("w%d-%d", w, i)
						if err := rc.Put(ctx, key, segs(key)); err != nil {
							t.Errorf("put %s: %v", key, err)
							return
						}
						got, ok, err := rc.Get(ctx, key)
						if err != nil {
							t.Errorf("get %s: %v", key, err)
							return
						}
						if ok && (len(got) != 2 || got[0].Text != key) {
							t.Errorf("get %s returned %+v", key, got)
						}
					}
				}(w)
			}
			wg.Wait()

			n, err := rc.Len(ctx)
			if err != nil {
				t.Fatalf("len: %v", err)
			}
			if n != MinEntries {
				t.Errorf("expected %d entries, got %d", MinEntries, n)
			}
			stats := rc.Stats()
			if stats.Puts != workers*perWorker {
				t.Errorf("expected %d puts, got %d", workers*perWorker, stats.Puts)
			}
			if stats.Evictions != int64(workers*perWorker-n) {
				t.Errorf("expected %d evictions, got %d", workers*perWorker-n, stats.Evictions)
			}
			if stats.Hits+stats.Misses != workers*perWorker {
				t.Errorf("expected %d lookups, got %+v", workers*perWorker, stats)
			}
		})
	}
}

func TestResultCache_CorruptPayloadIsCacheError(t *testing.T) {
	fs := afero.NewMemMapFs()
	store, _ := NewFileStore(fs, "/cache", 0)
	_ = afero.WriteFile(fs, "/cache/bad.json", []byte("{not json"), 0o644)

	rc := NewResultCache(store)
	_, ok, err := rc.Get(context.Background(), "bad")
	if ok || !errors.IsCache(err) {
		t.Fatalf("expected CACHE_ERROR miss, got ok=%v err=%v", ok, err)
	}
}

func TestSealedCodec(t *testing.T) {
	sealer, err := encryption.New("secret")
	if err != nil {
		t.Fatalf("sealer: %v", err)
	}
	fs := afero.NewMemMapFs()
	store, _ := NewFileStore(fs, "/cache", 0)
	rc := NewResultCache(store, WithCodec(NewSealedCodec(sealer)))
	ctx := context.Background()

	if err := rc.Put(ctx, "k", segs("비밀")); err != nil {
		t.Fatalf("put: %v", err)
	}
	raw, _ := afero.ReadFile(fs, "/cache/k.json")
	if len(raw) == 0 || raw[0] == '[' {
		t.Errorf("expected sealed envelope on disk, got %q", raw)
	}
	got, ok, err := rc.Get(ctx, "k")
	if err != nil || !ok || got[0].Text != "비밀" {
		t.Fatalf("unexpected get: %+v %v %v", got, ok, err)
	}

	// An envelope moved to another key must not open.
	_ = afero.WriteFile(fs, "/cache/other.json", raw, 0o644)
	if _, ok, err := rc.Get(ctx, "other"); ok || !errors.IsCache(err) {
		t.Errorf("expected CACHE_ERROR for relocated envelope, got ok=%v err=%v", ok, err)
	}
}

func TestFileStore_MinEntriesFloor(t *testing.T) {
	store, _ := NewFileStore(afero.NewMemMapFs(), "/c", 2)
	if store.maxEntries != MinEntries {
		t.Errorf("expected floor %d, got %d", MinEntries, store.maxEntries)
	}
}

func TestConfig(t *testing.T) {
	cfg := Config{MaxEntries: 4}
	cfg.ApplyDefaults()
	if cfg.Backend != BackendFile || cfg.MaxEntries != MinEntries || cfg.Dir != DefaultDir {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	cfg.Backend = "memcached"
	if cfg.Validate() == nil {
		t.Error("expected error for unknown backend")
	}
}

func TestOpen(t *testing.T) {
	rc, err := Open(Config{EncryptionKey: "k", Dir: "/c"}, Deps{Fs: afero.NewMemMapFs()})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, ok := rc.codec.(*SealedCodec); !ok {
		t.Errorf("expected sealed codec, got %T", rc.codec)
	}
	if _, err := Open(Config{Backend: BackendRedis}, Deps{}); err == nil {
		t.Error("expected error without a redis client")
	}
}
