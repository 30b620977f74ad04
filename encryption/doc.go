// Package encryption seals byte payloads with an AEAD cipher keyed from a
// passphrase.
//
// ChaCha20-Poly1305 is the default; AES-256-GCM is available for hosts with
// AES hardware. Sealed envelopes are base64(nonce || ciphertext) and may be
// bound to associated data, such as the cache key they are stored under, so
// an envelope copied to another key fails to open.
//
// # Usage
//
//	s, err := encryption.New("passphrase")
//	env, err := s.Seal(payload, []byte(key))
//	payload, err = s.Open(env, []byte(key))
package encryption
