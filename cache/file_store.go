package cache

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/afero"
)

const fileExt = ".json"

// FileStore keeps one "<key>.json" file per entry in Dir. The file mtime is
// the access time: refreshed on hit, used for eviction order.
type FileStore struct {
	fs         afero.Fs
	dir        string
	maxEntries int
	now        func() time.Time
}

// FileStoreOption configures a FileStore.
type FileStoreOption func(*FileStore)

// WithFileClock replaces time.Now for mtime bookkeeping.
func WithFileClock(now func() time.Time) FileStoreOption {
	return func(s *FileStore) { s.now = now }
}

// NewFileStore creates the directory if needed.
func NewFileStore(fs afero.Fs, dir string, maxEntries int, opts ...FileStoreOption) (*FileStore, error) {
	if maxEntries < MinEntries {
		maxEntries = MinEntries
	}
	s := &FileStore{fs: fs, dir: dir, maxEntries: maxEntries, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, key+fileExt)
}

// Get implements Store.
func (s *FileStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	data, err := afero.ReadFile(s.fs, s.path(key))
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	now := s.now()
	if err := s.fs.Chtimes(s.path(key), now, now); err != nil {
		return data, true, err
	}
	return data, true, nil
}

// Put implements Store.
func (s *FileStore) Put(_ context.Context, key string, payload []byte) (int, error) {
	p := s.path(key)
	tmp := p + ".tmp"
	if err := afero.WriteFile(s.fs, tmp, payload, 0o644); err != nil {
		return 0, err
	}
	if err := s.fs.Rename(tmp, p); err != nil {
		_ = s.fs.Remove(tmp)
		return 0, err
	}
	now := s.now()
	if err := s.fs.Chtimes(p, now, now); err != nil {
		return 0, err
	}
	return s.evict()
}

// Has implements Store.
func (s *FileStore) Has(_ context.Context, key string) (bool, error) {
	return afero.Exists(s.fs, s.path(key))
}

// Clear implements Store.
func (s *FileStore) Clear(_ context.Context) error {
	entries, err := s.entries()
	if err != nil {
		return err
	}
	for _, e := range entries {
		if err := s.fs.Remove(filepath.Join(s.dir, e.Name())); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}

// Len implements Store.
func (s *FileStore) Len(_ context.Context) (int, error) {
	entries, err := s.entries()
	return len(entries), err
}

func (s *FileStore) entries() ([]os.FileInfo, error) {
	infos, err := afero.ReadDir(s.fs, s.dir)
	if err != nil {
		return nil, err
	}
	out := infos[:0]
	for _, fi := range infos {
		if !fi.IsDir() && strings.HasSuffix(fi.Name(), fileExt) {
			out = append(out, fi)
		}
	}
	return out, nil
}

// evict removes the oldest files beyond maxEntries.
func (s *FileStore) evict() (int, error) {
	entries, err := s.entries()
	if err != nil {
		return 0, err
	}
	over := len(entries) - s.maxEntries
	if over <= 0 {
		return 0, nil
	}
	sort.SliceStable(entries, func(i, j int) bool {
		mi, mj := entries[i].ModTime(), entries[j].ModTime()
		if mi.Equal(mj) {
			return entries[i].Name() < entries[j].Name()
		}
		return mi.Before(mj)
	})
	evicted := 0
	for _, fi := range entries[:over] {
		if err := s.fs.Remove(filepath.Join(s.dir, fi.Name())); err != nil && !os.IsNotExist(err) {
			return evicted, err
		}
		evicted++
	}
	return evicted, nil
}
