package media

import (
	"encoding/binary"
	"fmt"
	"io"
)

// WAVE format tags.
const (
	wavFormatPCM        = 1
	wavFormatExtensible = 0xFFFE

	// maxFmtChunk bounds the fmt chunk; WAVE_FORMAT_EXTENSIBLE needs 40.
	maxFmtChunk = 1 << 10
)

// WAVHeader is the parsed "fmt " chunk plus the location of "data".
type WAVHeader struct {
	AudioFormat   uint16
	Channels      int
	SampleRate    int
	BitsPerSample int
	DataOffset    int64
	DataSize      int64
}

// IsPCM16 reports whether samples are 16-bit integer PCM.
func (h WAVHeader) IsPCM16() bool {
	return (h.AudioFormat == wavFormatPCM || h.AudioFormat == wavFormatExtensible) && h.BitsPerSample == 16
}

// BytesPerSecond is the data rate of the payload.
func (h WAVHeader) BytesPerSecond() int64 {
	return int64(h.SampleRate) * int64(h.Channels) * int64(h.BitsPerSample/8)
}

// DurationMs derives the duration from the data chunk size.
func (h WAVHeader) DurationMs() int64 {
	bps := h.BytesPerSecond()
	if bps == 0 {
		return 0
	}
	return h.DataSize * 1000 / bps
}

// ParseWAVHeader walks the RIFF chunks of r until the data chunk.
func ParseWAVHeader(r io.ReadSeeker) (WAVHeader, error) {
	var riff [12]byte
	if _, err := io.ReadFull(r, riff[:]); err != nil {
		return WAVHeader{}, fmt.Errorf("read riff header: %w", err)
	}
	if string(riff[0:4]) != "RIFF" || string(riff[8:12]) != "WAVE" {
		return WAVHeader{}, fmt.Errorf("not a RIFF/WAVE file")
	}

	var h WAVHeader
	haveFmt := false
	offset := int64(12)
	for {
		var chunk [8]byte
		if _, err := io.ReadFull(r, chunk[:]); err != nil {
			return WAVHeader{}, fmt.Errorf("data chunk not found: %w", err)
		}
		id := string(chunk[0:4])
		size := int64(binary.LittleEndian.Uint32(chunk[4:8]))
		offset += 8

		switch id {
		case "fmt ":
			if size < 16 {
				return WAVHeader{}, fmt.Errorf("fmt chunk too short: %d", size)
			}
			if size > maxFmtChunk {
				return WAVHeader{}, fmt.Errorf("fmt chunk too large: %d", size)
			}
			var buf [16]byte
			if _, err := io.ReadFull(r, buf[:]); err != nil {
				return WAVHeader{}, fmt.Errorf("read fmt chunk: %w", err)
			}
			h.AudioFormat = binary.LittleEndian.Uint16(buf[0:2])
			h.Channels = int(binary.LittleEndian.Uint16(buf[2:4]))
			h.SampleRate = int(binary.LittleEndian.Uint32(buf[4:8]))
			h.BitsPerSample = int(binary.LittleEndian.Uint16(buf[14:16]))
			haveFmt = true
			if rest := size - 16 + size%2; rest > 0 {
				if _, err := r.Seek(rest, io.SeekCurrent); err != nil {
					return WAVHeader{}, fmt.Errorf("skip fmt extension: %w", err)
				}
			}
			size += size % 2
		case "data":
			if !haveFmt {
				return WAVHeader{}, fmt.Errorf("data chunk before fmt chunk")
			}
			h.DataOffset = offset
			h.DataSize = size
			return h, nil
		default:
			skip := size + size%2
			if _, err := r.Seek(skip, io.SeekCurrent); err != nil {
				return WAVHeader{}, fmt.Errorf("skip chunk %q: %w", id, err)
			}
			size = skip
		}
		offset += size
	}
}
