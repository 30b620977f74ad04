package media

import (
	"context"
	"encoding/binary"
	"io"
	"time"

	"github.com/spf13/afero"

	"github.com/2mushr00m/dialLog/errors"
	"github.com/2mushr00m/dialLog/transcription"
)

// DefaultProbeDuration bounds the probe head.
const DefaultProbeDuration = 20 * time.Second

// PCM is a mono 16-bit little-endian buffer.
type PCM struct {
	Data         []byte
	SampleRateHz int
}

// IsEmpty reports whether the buffer holds no samples.
func (p PCM) IsEmpty() bool { return len(p.Data) == 0 }

// ProbeSource produces the bounded PCM head of a recording.
type ProbeSource interface {
	Probe(ctx context.Context, audio transcription.AudioRef, maxDuration time.Duration) (PCM, error)
}

// WAVProbe reads the head of 16-bit PCM WAV files and downmixes it to mono.
// Other containers are rejected; decoding them is left to other sources.
type WAVProbe struct {
	Fs afero.Fs
}

// NewWAVProbe creates a WAVProbe over fs.
func NewWAVProbe(fs afero.Fs) *WAVProbe {
	return &WAVProbe{Fs: fs}
}

// Probe implements ProbeSource.
func (p *WAVProbe) Probe(ctx context.Context, audio transcription.AudioRef, maxDuration time.Duration) (PCM, error) {
	if err := ctx.Err(); err != nil {
		return PCM{}, errors.Interrupted("probe", err)
	}
	if maxDuration <= 0 {
		maxDuration = DefaultProbeDuration
	}

	f, err := p.Fs.Open(audio.Path)
	if err != nil {
		return PCM{}, errors.NotFound("audio", audio.Path).WithCause(err)
	}
	defer func() { _ = f.Close() }()

	h, err := ParseWAVHeader(f)
	if err != nil {
		return PCM{}, errors.InvalidInput("audio", err.Error())
	}
	if !h.IsPCM16() || h.Channels < 1 {
		return PCM{}, errors.InvalidInput("audio", "probe requires 16-bit PCM WAV")
	}

	frameSize := int64(h.Channels) * 2
	frames := int64(maxDuration.Seconds() * float64(h.SampleRate))
	want := frames * frameSize
	if want > h.DataSize {
		want = h.DataSize - h.DataSize%frameSize
	}

	if _, err := f.Seek(h.DataOffset, io.SeekStart); err != nil {
		return PCM{}, errors.Internal(err)
	}
	raw := make([]byte, want)
	n, err := io.ReadFull(f, raw)
	if err != nil && err != io.ErrUnexpectedEOF {
		return PCM{}, errors.Internal(err)
	}
	raw = raw[:n-n%int(frameSize)]

	return PCM{Data: downmix(raw, h.Channels), SampleRateHz: h.SampleRate}, nil
}

// downmix averages interleaved 16-bit channels into one.
func downmix(raw []byte, channels int) []byte {
	if channels == 1 {
		return raw
	}
	frameSize := channels * 2
	out := make([]byte, len(raw)/channels)
	for i, o := 0, 0; i+frameSize <= len(raw); i, o = i+frameSize, o+2 {
		var sum int32
		for c := 0; c < channels; c++ {
			sum += int32(int16(binary.LittleEndian.Uint16(raw[i+c*2:])))
		}
		binary.LittleEndian.PutUint16(out[o:], uint16(int16(sum/int32(channels))))
	}
	return out
}

// Describe fills an AudioRef for path: mime type from the extension and,
// for WAV files, duration and sample rate from the header.
func Describe(fs afero.Fs, path string) (transcription.AudioRef, error) {
	ref := transcription.AudioRef{Path: path, MimeType: MimeType(path)}
	info, err := fs.Stat(path)
	if err != nil {
		return ref, errors.NotFound("audio", path).WithCause(err)
	}
	if info.IsDir() {
		return ref, errors.InvalidInput("audio.path", "is a directory")
	}
	if !IsWAV(ref.MimeType) {
		return ref, nil
	}

	f, err := fs.Open(path)
	if err != nil {
		return ref, errors.NotFound("audio", path).WithCause(err)
	}
	defer func() { _ = f.Close() }()
	if h, err := ParseWAVHeader(f); err == nil {
		ref.DurationMs = h.DurationMs()
		ref.SampleRateHz = h.SampleRate
	}
	return ref, nil
}
