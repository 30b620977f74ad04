package testutil

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"sync"
)

// ServiceAccountEmail is the client_email written by ServiceAccountJSON.
const ServiceAccountEmail = "diallog-test@diallog-test.iam.gserviceaccount.com"

var (
	keyOnce sync.Once
	key     *rsa.PrivateKey
	keyErr  error
)

// RSAKey returns a process-wide 2048-bit test key.
func RSAKey() (*rsa.PrivateKey, error) {
	keyOnce.Do(func() {
		key, keyErr = rsa.GenerateKey(rand.Reader, 2048)
	})
	return key, keyErr
}

// PrivateKeyPEM encodes k as a PKCS#8 "PRIVATE KEY" block, the format
// used in service-account key files.
func PrivateKeyPEM(k *rsa.PrivateKey) ([]byte, error) {
	der, err := x509.MarshalPKCS8PrivateKey(k)
	if err != nil {
		return nil, err
	}
	return pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der}), nil
}

// ServiceAccountJSON renders a service-account key file for k.
func ServiceAccountJSON(k *rsa.PrivateKey, tokenURL string) ([]byte, error) {
	pemData, err := PrivateKeyPEM(k)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(map[string]string{
		"type":           "service_account",
		"project_id":     "diallog-test",
		"private_key_id": "test-key-id",
		"private_key":    string(pemData),
		"client_email":   ServiceAccountEmail,
		"token_uri":      tokenURL,
	}, "", "  ")
}
