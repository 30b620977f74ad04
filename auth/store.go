package auth

import (
	"sync"
	"time"
)

// Token is a bearer token and its absolute expiry.
type Token struct {
	Value  string
	Expiry time.Time
}

// Usable reports whether the token may be sent at now: now < expiry - skew.
func (t Token) Usable(now time.Time, skew time.Duration) bool {
	return t.Value != "" && now.Before(t.Expiry.Add(-skew))
}

// TokenStore holds at most one token. It is safe for concurrent use.
type TokenStore struct {
	mu    sync.Mutex
	token Token
}

// Get returns the stored token, if any.
func (s *TokenStore) Get() (Token, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, s.token.Value != ""
}

// Put replaces the stored token.
func (s *TokenStore) Put(t Token) {
	s.mu.Lock()
	s.token = t
	s.mu.Unlock()
}

// Invalidate clears the stored token unconditionally.
func (s *TokenStore) Invalidate() {
	s.mu.Lock()
	s.token = Token{}
	s.mu.Unlock()
}
