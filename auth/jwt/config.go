package jwt

import (
	"crypto/rsa"
	"errors"
	"fmt"

	gojwt "github.com/golang-jwt/jwt/v5"
)

// SigningMethod defines supported assertion signing algorithms.
type SigningMethod string

const (
	RS256 SigningMethod = "RS256"
	RS384 SigningMethod = "RS384"
	RS512 SigningMethod = "RS512"
)

// Config configures a Signer.
type Config struct {
	// PrivateKey signs assertions.
	PrivateKey *rsa.PrivateKey

	// KeyID is written to the "kid" header when set.
	KeyID string

	// Method is the signing algorithm (default: RS256).
	Method SigningMethod
}

// ApplyDefaults fills in zero-value fields.
func (c *Config) ApplyDefaults() {
	if c.Method == "" {
		c.Method = RS256
	}
}

// Validate checks required fields.
func (c *Config) Validate() error {
	if c.PrivateKey == nil {
		return errors.New("jwt: private key is required")
	}
	if c.signingMethod() == nil {
		return fmt.Errorf("jwt: unsupported signing method %q", c.Method)
	}
	return nil
}

func (c *Config) signingMethod() gojwt.SigningMethod {
	switch c.Method {
	case RS256:
		return gojwt.SigningMethodRS256
	case RS384:
		return gojwt.SigningMethodRS384
	case RS512:
		return gojwt.SigningMethodRS512
	default:
		return nil
	}
}

// ParseRSAPrivateKey decodes a PEM block holding a PKCS#1 or PKCS#8 RSA key.
func ParseRSAPrivateKey(pemData []byte) (*rsa.PrivateKey, error) {
	key, err := gojwt.ParseRSAPrivateKeyFromPEM(pemData)
	if err != nil {
		return nil, fmt.Errorf("jwt: parse private key: %w", err)
	}
	return key, nil
}
