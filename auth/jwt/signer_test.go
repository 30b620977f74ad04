package jwt

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/json"
	"encoding/pem"
	"strings"
	"testing"
	"time"
)

func newKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	return key
}

func testClaims(now time.Time) AssertionClaims {
	return AssertionClaims{
		Issuer:   "svc@example.iam.gserviceaccount.com",
		Scope:    "https://www.googleapis.com/auth/cloud-platform",
		Audience: "https://oauth2.googleapis.com/token",
		IssuedAt: now,
		TTL:      time.Hour,
	}
}

func TestSigner_SignHeaderAndClaims(t *testing.T) {
	key := newKey(t)
	s, err := NewSigner(Config{PrivateKey: key, KeyID: "key-1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	now := time.Unix(1_700_000_000, 0)
	token, err := s.Sign(testClaims(now))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("expected three parts, got %d", len(parts))
	}
	if strings.ContainsRune(token, '=') {
		t.Error("segments must be unpadded base64url")
	}
	headerJSON, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		t.Fatalf("decode header: %v", err)
	}
	var header map[string]string
	_ = json.Unmarshal(headerJSON, &header)
	if header["alg"] != "RS256" || header["typ"] != "JWT" || header["kid"] != "key-1" {
		t.Errorf("unexpected header %v", header)
	}

	claims, err := s.Verify(token, now.Add(time.Minute))
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims["aud"] != "https://oauth2.googleapis.com/token" {
		t.Errorf("aud must be a single string, got %#v", claims["aud"])
	}
	if claims["scope"] != "https://www.googleapis.com/auth/cloud-platform" {
		t.Errorf("unexpected scope %v", claims["scope"])
	}
	if iat, exp := claims["iat"].(float64), claims["exp"].(float64); exp-iat != 3600 || int64(iat) != now.Unix() {
		t.Errorf("unexpected iat/exp %v/%v", iat, exp)
	}
}

func TestSigner_VerifyRejectsExpired(t *testing.T) {
	s, _ := NewSigner(Config{PrivateKey: newKey(t)})
	now := time.Unix(1_700_000_000, 0)
	token, _ := s.Sign(testClaims(now))
	if _, err := s.Verify(token, now.Add(2*time.Hour)); err == nil {
		t.Error("expected expired assertion to fail")
	}
}

func TestSigner_VerifyRejectsOtherKey(t *testing.T) {
	a, _ := NewSigner(Config{PrivateKey: newKey(t)})
	b, _ := NewSigner(Config{PrivateKey: newKey(t)})
	now := time.Now()
	token, _ := a.Sign(testClaims(now))
	if _, err := b.Verify(token, now); err == nil {
		t.Error("expected signature mismatch")
	}
}

func TestSigner_SignValidatesClaims(t *testing.T) {
	s, _ := NewSigner(Config{PrivateKey: newKey(t)})
	c := testClaims(time.Now())
	c.Audience = ""
	if _, err := s.Sign(c); err == nil {
		t.Error("expected missing audience error")
	}
	c = testClaims(time.Now())
	c.TTL = 0
	if _, err := s.Sign(c); err == nil {
		t.Error("expected ttl error")
	}
}

func TestNewSigner_Validation(t *testing.T) {
	if _, err := NewSigner(Config{}); err == nil {
		t.Error("expected missing key error")
	}
	if _, err := NewSigner(Config{PrivateKey: newKey(t), Method: "HS256"}); err == nil {
		t.Error("expected unsupported method error")
	}
}

func TestParseRSAPrivateKey_PKCS8(t *testing.T) {
	key := newKey(t)
	der, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	pemData := pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der})
	parsed, err := ParseRSAPrivateKey(pemData)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if parsed.N.Cmp(key.N) != 0 {
		t.Error("parsed key differs")
	}
	if _, err := ParseRSAPrivateKey([]byte("not pem")); err == nil {
		t.Error("expected parse error")
	}
}
