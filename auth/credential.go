package auth

import (
	"crypto/rsa"
	"encoding/json"
	"fmt"

	"github.com/spf13/afero"

	"github.com/2mushr00m/dialLog/auth/jwt"
	"github.com/2mushr00m/dialLog/errors"
)

// ServiceAccountCredential is the immutable identity used to sign assertions.
type ServiceAccountCredential struct {
	Email        string
	PrivateKeyID string
	PrivateKey   *rsa.PrivateKey
	TokenURL     string
}

type serviceAccountFile struct {
	Type         string `json:"type"`
	ClientEmail  string `json:"client_email"`
	PrivateKeyID string `json:"private_key_id"`
	PrivateKey   string `json:"private_key"`
	TokenURI     string `json:"token_uri"`
}

// ParseServiceAccount decodes a service-account JSON key. tokenURL, when
// non-empty, overrides the key's token_uri; DefaultTokenURL is the fallback.
func ParseServiceAccount(data []byte, tokenURL string) (*ServiceAccountCredential, error) {
	var f serviceAccountFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, errors.AuthCause("malformed service account key", err)
	}
	if f.Type != "" && f.Type != "service_account" {
		return nil, errors.AuthCause(fmt.Sprintf("unsupported credential type %q", f.Type), nil)
	}
	if f.ClientEmail == "" || f.PrivateKey == "" {
		return nil, errors.AuthCause("service account key lacks client_email or private_key", nil)
	}

	key, err := jwt.ParseRSAPrivateKey([]byte(f.PrivateKey))
	if err != nil {
		return nil, errors.AuthCause("invalid service account private key", err)
	}

	endpoint := tokenURL
	if endpoint == "" {
		endpoint = f.TokenURI
	}
	if endpoint == "" {
		endpoint = DefaultTokenURL
	}

	return &ServiceAccountCredential{
		Email:        f.ClientEmail,
		PrivateKeyID: f.PrivateKeyID,
		PrivateKey:   key,
		TokenURL:     endpoint,
	}, nil
}

// LoadServiceAccount reads and parses a key file from fs.
func LoadServiceAccount(fs afero.Fs, path, tokenURL string) (*ServiceAccountCredential, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errors.AuthCause(fmt.Sprintf("read service account key %s", path), err)
	}
	return ParseServiceAccount(data, tokenURL)
}
