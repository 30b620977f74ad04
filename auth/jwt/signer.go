// Package jwt signs the self-issued assertions used by the OAuth2
// JWT-bearer grant.
//
//	signer, err := jwt.NewSigner(jwt.Config{PrivateKey: key})
//	assertion, err := signer.Sign(jwt.AssertionClaims{
//	    Issuer:   "svc@project.iam.gserviceaccount.com",
//	    Scope:    "https://www.googleapis.com/auth/cloud-platform",
//	    Audience: "https://oauth2.googleapis.com/token",
//	    IssuedAt: now,
//	    TTL:      time.Hour,
//	})
package jwt

import (
	"errors"
	"fmt"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

// AssertionClaims is the claim set of a JWT-bearer assertion.
type AssertionClaims struct {
	Issuer   string
	Scope    string
	Audience string
	// Subject is optional; set it for domain-wide delegation.
	Subject  string
	IssuedAt time.Time
	TTL      time.Duration
}

// mapClaims renders the claim set with a single-string "aud", which token
// endpoints expect instead of the array form.
func (c AssertionClaims) mapClaims() gojwt.MapClaims {
	claims := gojwt.MapClaims{
		"iss":   c.Issuer,
		"scope": c.Scope,
		"aud":   c.Audience,
		"iat":   c.IssuedAt.Unix(),
		"exp":   c.IssuedAt.Add(c.TTL).Unix(),
	}
	if c.Subject != "" {
		claims["sub"] = c.Subject
	}
	return claims
}

// Signer produces signed assertions with one RSA key.
type Signer struct {
	cfg    Config
	method gojwt.SigningMethod
}

// NewSigner creates a Signer.
func NewSigner(cfg Config) (*Signer, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Signer{cfg: cfg, method: cfg.signingMethod()}, nil
}

// Sign returns the compact three-part JWT for claims.
func (s *Signer) Sign(claims AssertionClaims) (string, error) {
	if claims.Issuer == "" || claims.Audience == "" {
		return "", errors.New("jwt: issuer and audience are required")
	}
	if claims.TTL <= 0 {
		return "", errors.New("jwt: ttl must be positive")
	}
	token := gojwt.NewWithClaims(s.method, claims.mapClaims())
	if s.cfg.KeyID != "" {
		token.Header["kid"] = s.cfg.KeyID
	}
	signed, err := token.SignedString(s.cfg.PrivateKey)
	if err != nil {
		return "", fmt.Errorf("jwt: sign assertion: %w", err)
	}
	return signed, nil
}

// Verify checks an assertion against the signer's public key and returns
// its claims. Expiry is validated at now.
func (s *Signer) Verify(assertion string, now time.Time) (gojwt.MapClaims, error) {
	claims := gojwt.MapClaims{}
	_, err := gojwt.ParseWithClaims(assertion, claims, func(t *gojwt.Token) (interface{}, error) {
		if t.Method.Alg() != s.method.Alg() {
			return nil, fmt.Errorf("unexpected signing method %s", t.Method.Alg())
		}
		return &s.cfg.PrivateKey.PublicKey, nil
	}, gojwt.WithTimeFunc(func() time.Time { return now }), gojwt.WithIssuedAt())
	if err != nil {
		return nil, fmt.Errorf("jwt: verify assertion: %w", err)
	}
	return claims, nil
}
