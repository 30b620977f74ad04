package encryption

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/chacha20poly1305"
)

// ErrEmptyKey is returned when no passphrase is given.
var ErrEmptyKey = errors.New("encryption: key is required")

// AEAD seals payloads into base64(nonce || ciphertext) envelopes.
type AEAD struct {
	algorithm Algorithm
	aead      cipher.AEAD
}

func newAEAD(key string, alg Algorithm) (*AEAD, error) {
	if key == "" {
		return nil, ErrEmptyKey
	}
	sum := sha256.Sum256([]byte(key))

	var (
		a   cipher.AEAD
		err error
	)
	switch alg {
	case AlgorithmChaCha20:
		a, err = chacha20poly1305.New(sum[:])
	case AlgorithmAESGCM:
		var block cipher.Block
		if block, err = aes.NewCipher(sum[:]); err == nil {
			a, err = cipher.NewGCM(block)
		}
	default:
		return nil, fmt.Errorf("encryption: unsupported algorithm %q", alg)
	}
	if err != nil {
		return nil, fmt.Errorf("encryption: create %s: %w", alg, err)
	}
	return &AEAD{algorithm: alg, aead: a}, nil
}

// Algorithm returns the cipher in use.
func (s *AEAD) Algorithm() Algorithm { return s.algorithm }

// Seal encrypts plaintext bound to associatedData.
func (s *AEAD) Seal(plaintext, associatedData []byte) ([]byte, error) {
	nonce := make([]byte, s.aead.NonceSize(), s.aead.NonceSize()+len(plaintext)+s.aead.Overhead())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}
	sealed := s.aead.Seal(nonce, nonce, plaintext, associatedData)
	out := make([]byte, base64.StdEncoding.EncodedLen(len(sealed)))
	base64.StdEncoding.Encode(out, sealed)
	return out, nil
}

// Open decrypts an envelope produced by Seal with the same associatedData.
func (s *AEAD) Open(envelope, associatedData []byte) ([]byte, error) {
	data := make([]byte, base64.StdEncoding.DecodedLen(len(envelope)))
	n, err := base64.StdEncoding.Decode(data, envelope)
	if err != nil {
		return nil, fmt.Errorf("decode base64: %w", err)
	}
	data = data[:n]

	nonceSize := s.aead.NonceSize()
	if len(data) < nonceSize+s.aead.Overhead() {
		return nil, fmt.Errorf("ciphertext too short")
	}
	nonce, ciphertext := data[:nonceSize], data[nonceSize:]
	plaintext, err := s.aead.Open(nil, nonce, ciphertext, associatedData)
	if err != nil {
		return nil, fmt.Errorf("decrypt: %w", err)
	}
	return plaintext, nil
}
