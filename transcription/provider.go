package transcription

import (
	"context"

	"github.com/2mushr00m/dialLog/provider"
)

// Transcriber turns a recording into a final result.
type Transcriber interface {
	// Transcribe lets the implementation choose the language.
	Transcribe(ctx context.Context, audio AudioRef) (*Result, error)
	// TranscribeLanguage transcribes with an explicit BCP-47 language code.
	TranscribeLanguage(ctx context.Context, audio AudioRef, languageCode string) (*Result, error)
}

// QuickTranscriber transcribes a short inline 16-bit PCM buffer and
// returns an interim result.
type QuickTranscriber interface {
	TranscribeQuick(ctx context.Context, pcm []byte, sampleRateHz int, languageCode string) (*Result, error)
}

// Provider is the interface that transcription engines must implement.
type Provider interface {
	provider.Provider // embeds Name() and IsAvailable()
	Transcriber
}
