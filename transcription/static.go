package transcription

import (
	"context"
	"sync/atomic"

	"github.com/2mushr00m/dialLog/errors"
)

// Static is an engine that returns a fixed transcript without any network
// access. One segment spans the whole recording.
type Static struct {
	name  string
	text  string
	calls atomic.Int64
}

// NewStatic creates a Static engine named EngineStatic.
func NewStatic(text string) *Static {
	return &Static{name: EngineStatic, text: text}
}

// StaticFactory builds Static engines from {"text": "..."}.
func StaticFactory() func(cfg map[string]any) (Provider, error) {
	return func(cfg map[string]any) (Provider, error) {
		text, _ := cfg["text"].(string)
		return NewStatic(text), nil
	}
}

// Name implements provider.Provider.
func (s *Static) Name() string { return s.name }

// IsAvailable implements provider.Provider.
func (s *Static) IsAvailable(context.Context) bool { return true }

// Calls returns how many transcriptions were served.
func (s *Static) Calls() int64 { return s.calls.Load() }

// Transcribe implements Transcriber.
func (s *Static) Transcribe(ctx context.Context, audio AudioRef) (*Result, error) {
	return s.TranscribeLanguage(ctx, audio, "")
}

// TranscribeLanguage implements Transcriber.
func (s *Static) TranscribeLanguage(ctx context.Context, audio AudioRef, languageCode string) (*Result, error) {
	if err := audio.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.Interrupted("static transcribe", err)
	}
	s.calls.Add(1)
	var segments []Segment
	if s.text != "" {
		segments = []Segment{{Text: s.text, StartMs: 0, EndMs: audio.DurationMs}}
	}
	return NewFinal(segments, &Metadata{Provider: s.name, FinalLanguageCode: languageCode}), nil
}
