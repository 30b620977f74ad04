package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/spf13/afero"
)

// THelper wraps testing.T with fixtures that register their own cleanup.
type THelper struct {
	t *testing.T
}

// T wraps a testing.T.
func T(t *testing.T) *THelper {
	return &THelper{t: t}
}

// MemFs returns a fresh in-memory filesystem.
func (h *THelper) MemFs() afero.Fs {
	return afero.NewMemMapFs()
}

// WriteFile writes data to path on fs, creating parent directories.
func (h *THelper) WriteFile(fs afero.Fs, path string, data []byte) {
	h.t.Helper()
	if err := fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		h.t.Fatalf("mkdir %s: %v", path, err)
	}
	if err := afero.WriteFile(fs, path, data, 0o644); err != nil {
		h.t.Fatalf("write %s: %v", path, err)
	}
}

// ServiceAccountFile writes a service-account key for tokenURL to fs and
// returns its path.
func (h *THelper) ServiceAccountFile(fs afero.Fs, tokenURL string) string {
	h.t.Helper()
	k, err := RSAKey()
	if err != nil {
		h.t.Fatalf("generate key: %v", err)
	}
	data, err := ServiceAccountJSON(k, tokenURL)
	if err != nil {
		h.t.Fatalf("service account json: %v", err)
	}
	path := "/secrets/service-account.json"
	h.WriteFile(fs, path, data)
	return path
}

// TempDir returns a directory removed after the test.
func (h *THelper) TempDir() string {
	h.t.Helper()
	dir, err := os.MkdirTemp("", "diallog-test-*")
	if err != nil {
		h.t.Fatalf("temp dir: %v", err)
	}
	h.t.Cleanup(func() { _ = os.RemoveAll(dir) })
	return dir
}

// TokenServerConfig configures a fake OAuth2 token endpoint.
type TokenServerConfig struct {
	// Status overrides the response status (default 200).
	Status int
	// Body overrides the response body.
	Body string
	// ExpiresIn is the returned lifetime in seconds (default 3600).
	ExpiresIn int64
}

// TokenServer is a fake token endpoint that counts exchanges and records
// the last submitted form.
type TokenServer struct {
	*httptest.Server

	mu       sync.Mutex
	cfg      TokenServerConfig
	count    atomic.Int64
	lastForm map[string]string
}

// TokenServer starts a fake token endpoint closed at test end.
func (h *THelper) TokenServer(cfg TokenServerConfig) *TokenServer {
	ts := &TokenServer{cfg: cfg}
	ts.Server = httptest.NewServer(http.HandlerFunc(ts.handle))
	h.t.Cleanup(ts.Close)
	return ts
}

// Exchanges returns the number of requests served.
func (s *TokenServer) Exchanges() int64 { return s.count.Load() }

// LastForm returns the last posted form fields.
func (s *TokenServer) LastForm() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastForm
}

// Set replaces the response configuration.
func (s *TokenServer) Set(cfg TokenServerConfig) {
	s.mu.Lock()
	s.cfg = cfg
	s.mu.Unlock()
}

func (s *TokenServer) handle(w http.ResponseWriter, r *http.Request) {
	n := s.count.Add(1)
	_ = r.ParseForm()

	s.mu.Lock()
	s.lastForm = map[string]string{
		"grant_type": r.PostForm.Get("grant_type"),
		"assertion":  r.PostForm.Get("assertion"),
	}
	cfg := s.cfg
	s.mu.Unlock()

	status := cfg.Status
	if status == 0 {
		status = http.StatusOK
	}
	if cfg.Body != "" {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(cfg.Body))
		return
	}
	expiresIn := cfg.ExpiresIn
	if expiresIn == 0 {
		expiresIn = 3600
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"access_token": "token-" + strconv.FormatInt(n, 10),
		"expires_in":   expiresIn,
		"token_type":   "Bearer",
	})
}
