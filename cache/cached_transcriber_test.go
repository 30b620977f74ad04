package cache

import (
	"context"
	stderrors "errors"
	"sync/atomic"
	"testing"

	"github.com/spf13/afero"

	"github.com/2mushr00m/dialLog/testutil"
	"github.com/2mushr00m/dialLog/transcription"
)

type countingTranscriber struct {
	calls  atomic.Int64
	result *transcription.Result
	err    error
}

func (c *countingTranscriber) Transcribe(ctx context.Context, audio transcription.AudioRef) (*transcription.Result, error) {
	return c.TranscribeLanguage(ctx, audio, "")
}

func (c *countingTranscriber) TranscribeLanguage(context.Context, transcription.AudioRef, string) (*transcription.Result, error) {
	c.calls.Add(1)
	return c.result, c.err
}

func newCached(t *testing.T, next transcription.Transcriber) (*CachedTranscriber, afero.Fs) {
	t.Helper()
	h := testutil.T(t)
	fs := h.MemFs()
	h.WriteFile(fs, "/calls/a.wav", testutil.WAV(16000, 1, 1600))
	store, err := NewFileStore(fs, "/cache", 0)
	if err != nil {
		t.Fatalf("store: %v", err)
	}
	return NewCachedTranscriber(next, NewResultCache(store), fs, nil), fs
}

func TestCachedTranscriber_SecondCallHitsCache(t *testing.T) {
	next := &countingTranscriber{result: transcription.NewFinal(segs("hi"), &transcription.Metadata{Provider: "google"})}
	ct, _ := newCached(t, next)
	audio := transcription.AudioRef{Path: "/calls/a.wav", DurationMs: 100}

	first, err := ct.Transcribe(context.Background(), audio)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.Metadata.Provider != "google" {
		t.Errorf("expected delegate metadata, got %+v", first.Metadata)
	}
	second, err := ct.Transcribe(context.Background(), audio)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if next.calls.Load() != 1 {
		t.Errorf("expected exactly one delegate call, got %d", next.calls.Load())
	}
	if !second.Final || second.Metadata.Provider != transcription.EngineCache || len(second.Segments) != 2 {
		t.Errorf("unexpected cached result %+v", second)
	}
}

func TestCachedTranscriber_LanguageQualifiedKeys(t *testing.T) {
	next := &countingTranscriber{result: transcription.NewFinal(segs("hi"), nil)}
	ct, _ := newCached(t, next)
	audio := transcription.AudioRef{Path: "/calls/a.wav"}

	_, _ = ct.TranscribeLanguage(context.Background(), audio, "ko-KR")
	_, _ = ct.TranscribeLanguage(context.Background(), audio, "en-US")
	_, _ = ct.TranscribeLanguage(context.Background(), audio, "ko-KR")
	if next.calls.Load() != 2 {
		t.Errorf("expected 2 delegate calls, got %d", next.calls.Load())
	}
}

func TestCachedTranscriber_Key(t *testing.T) {
	ct, _ := newCached(t, &countingTranscriber{})

	key, err := ct.Key(transcription.AudioRef{Path: "/calls/a.wav"}, "ko-KR")
	if err != nil || key == "" {
		t.Fatalf("expected key, got %q err=%v", key, err)
	}
	other, _ := ct.Key(transcription.AudioRef{Path: "/calls/a.wav"}, "en-US")
	if other == key {
		t.Error("expected language-qualified keys to differ")
	}
	if key, err := ct.Key(transcription.AudioRef{Path: "/calls/missing.wav"}, ""); err == nil || key != "" {
		t.Errorf("expected stat error for a missing file, got %q err=%v", key, err)
	}
}

func TestCachedTranscriber_SkipsNonFinalAndEmpty(t *testing.T) {
	tests := []struct {
		name   string
		result *transcription.Result
	}{
		{"interim", transcription.NewInterim(segs("probe"))},
		{"empty", transcription.NewFinal(nil, nil)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := &countingTranscriber{result: tt.result}
			ct, _ := newCached(t, next)
			audio := transcription.AudioRef{Path: "/calls/a.wav"}
			_, _ = ct.Transcribe(context.Background(), audio)
			_, _ = ct.Transcribe(context.Background(), audio)
			if next.calls.Load() != 2 {
				t.Errorf("expected no caching, got %d delegate calls", next.calls.Load())
			}
		})
	}
}

func TestCachedTranscriber_DelegateErrorPropagates(t *testing.T) {
	boom := stderrors.New("boom")
	ct, _ := newCached(t, &countingTranscriber{err: boom})
	if _, err := ct.Transcribe(context.Background(), transcription.AudioRef{Path: "/calls/a.wav"}); !stderrors.Is(err, boom) {
		t.Errorf("expected delegate error, got %v", err)
	}
}

func TestCachedTranscriber_CacheFailureIsMiss(t *testing.T) {
	next := &countingTranscriber{result: transcription.NewFinal(segs("hi"), nil)}
	ct, fs := newCached(t, next)
	audio := transcription.AudioRef{Path: "/calls/a.wav"}
	key, err := ct.Key(audio, "")
	if err != nil {
		t.Fatalf("key: %v", err)
	}
	_ = afero.WriteFile(fs, "/cache/"+key+".json", []byte("garbage"), 0o644)

	res, err := ct.Transcribe(context.Background(), audio)
	if err != nil {
		t.Fatalf("cache failure must not surface, got %v", err)
	}
	if next.calls.Load() != 1 || res.Text() != "hi hi again" {
		t.Errorf("expected delegate result, got %+v", res)
	}
	// The successful delegate call rewrote the entry.
	if _, err := ct.Transcribe(context.Background(), audio); err != nil || next.calls.Load() != 1 {
		t.Errorf("expected repaired entry to hit, calls=%d err=%v", next.calls.Load(), err)
	}
}

func TestCachedTranscriber_MissingFileBypassesCache(t *testing.T) {
	next := &countingTranscriber{result: transcription.NewFinal(segs("hi"), nil)}
	ct, _ := newCached(t, next)
	if _, err := ct.Transcribe(context.Background(), transcription.AudioRef{Path: "/calls/missing.wav"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if next.calls.Load() != 1 {
		t.Errorf("expected delegate call, got %d", next.calls.Load())
	}
}
