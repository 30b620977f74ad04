package cache

import (
	"encoding/json"

	"github.com/2mushr00m/dialLog/encryption"
	"github.com/2mushr00m/dialLog/transcription"
)

// Codec converts segment lists to persisted payloads. The key is passed so
// sealing codecs can bind a payload to the entry it belongs to.
type Codec interface {
	Encode(key string, segments []transcription.Segment) ([]byte, error)
	Decode(key string, payload []byte) ([]transcription.Segment, error)
}

// JSONCodec stores a JSON array of segments.
type JSONCodec struct{}

// Encode implements Codec.
func (JSONCodec) Encode(_ string, segments []transcription.Segment) ([]byte, error) {
	if segments == nil {
		segments = []transcription.Segment{}
	}
	return json.Marshal(segments)
}

// Decode implements Codec.
func (JSONCodec) Decode(_ string, payload []byte) ([]transcription.Segment, error) {
	var segments []transcription.Segment
	if err := json.Unmarshal(payload, &segments); err != nil {
		return nil, err
	}
	return segments, nil
}

// SealedCodec seals the JSON array with the entry key as associated data.
type SealedCodec struct {
	sealer encryption.Sealer
}

// NewSealedCodec creates a SealedCodec over sealer.
func NewSealedCodec(sealer encryption.Sealer) *SealedCodec {
	return &SealedCodec{sealer: sealer}
}

// Encode implements Codec.
func (c *SealedCodec) Encode(key string, segments []transcription.Segment) ([]byte, error) {
	plain, err := JSONCodec{}.Encode(key, segments)
	if err != nil {
		return nil, err
	}
	return c.sealer.Seal(plain, []byte(key))
}

// Decode implements Codec.
func (c *SealedCodec) Decode(key string, payload []byte) ([]transcription.Segment, error) {
	plain, err := c.sealer.Open(payload, []byte(key))
	if err != nil {
		return nil, err
	}
	return JSONCodec{}.Decode(key, plain)
}
