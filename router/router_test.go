package router

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/2mushr00m/dialLog/errors"
	"github.com/2mushr00m/dialLog/langdetect"
	"github.com/2mushr00m/dialLog/media"
	"github.com/2mushr00m/dialLog/resilience"
	"github.com/2mushr00m/dialLog/transcription"
)

type fakeLocal struct {
	calls    atomic.Int64
	err      error
	language string
}

func (f *fakeLocal) Name() string { return transcription.EngineClova }

func (f *fakeLocal) IsAvailable(context.Context) bool { return true }

func (f *fakeLocal) Transcribe(ctx context.Context, a transcription.AudioRef) (*transcription.Result, error) {
	return f.TranscribeLanguage(ctx, a, "ko-KR")
}

func (f *fakeLocal) TranscribeLanguage(_ context.Context, _ transcription.AudioRef, code string) (*transcription.Result, error) {
	f.calls.Add(1)
	f.language = code
	if f.err != nil {
		return nil, f.err
	}
	return transcription.NewFinal([]transcription.Segment{{Text: "로컬 결과", EndMs: 900}}, nil), nil
}

type fakeCloud struct {
	snippet    string
	quickErr   error
	fullErr    error
	quickCalls atomic.Int64
	fullCalls  atomic.Int64
	quickLang  string
	fullLang   string
}

func (f *fakeCloud) Name() string { return transcription.EngineGoogle }

func (f *fakeCloud) IsAvailable(context.Context) bool { return true }

func (f *fakeCloud) Transcribe(ctx context.Context, a transcription.AudioRef) (*transcription.Result, error) {
	return f.TranscribeLanguage(ctx, a, "en-US")
}

func (f *fakeCloud) TranscribeLanguage(_ context.Context, _ transcription.AudioRef, code string) (*transcription.Result, error) {
	f.fullCalls.Add(1)
	f.fullLang = code
	if f.fullErr != nil {
		return nil, f.fullErr
	}
	return transcription.NewFinal([]transcription.Segment{{Text: "cloud result", EndMs: 1200}}, &transcription.Metadata{Provider: f.Name()}), nil
}

func (f *fakeCloud) TranscribeQuick(_ context.Context, _ []byte, _ int, code string) (*transcription.Result, error) {
	f.quickCalls.Add(1)
	f.quickLang = code
	if f.quickErr != nil {
		return nil, f.quickErr
	}
	if f.snippet == "" {
		return transcription.NewInterim(nil), nil
	}
	return transcription.NewInterim([]transcription.Segment{{Text: "  "}, {Text: " " + f.snippet + " "}}), nil
}

type fakeProbe struct {
	err   error
	calls atomic.Int64
}

func (f *fakeProbe) Probe(ctx context.Context, _ transcription.AudioRef, d time.Duration) (media.PCM, error) {
	f.calls.Add(1)
	if f.err != nil {
		return media.PCM{}, f.err
	}
	return media.PCM{Data: []byte{0, 0, 1, 0}, SampleRateHz: 16000}, nil
}

type fixture struct {
	local  *fakeLocal
	cloud  *fakeCloud
	probe  *fakeProbe
	ids    atomic.Int64
	router *Router
}

func newFixture(t *testing.T, snippet string, candidates ...langdetect.Candidate) *fixture {
	t.Helper()
	f := &fixture{local: &fakeLocal{}, cloud: &fakeCloud{snippet: snippet}, probe: &fakeProbe{}}
	id := langdetect.IdentifierFunc(func(string) []langdetect.Candidate {
		f.ids.Add(1)
		return candidates
	})
	f.router = New(Config{}, f.local, f.cloud, f.probe, langdetect.New(langdetect.Config{}, id))
	return f
}

var audio = transcription.AudioRef{Path: "/calls/a.wav", DurationMs: 30000}

func TestTranscribe_HangulRoutesLocal(t *testing.T) {
	f := newFixture(t, "안녕하세요")

	res, err := f.router.Transcribe(context.Background(), audio)
	if err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}
	md := res.Metadata
	if md.Provider != transcription.EngineClova || md.Route != "quick->clova" {
		t.Errorf("metadata = %+v", md)
	}
	if md.SnippetLength != 5 || md.DetectedLanguageTag != "ko" || md.FinalLanguageCode != "ko-KR" {
		t.Errorf("metadata = %+v", md)
	}
	if !res.Final || res.Text() != "로컬 결과" {
		t.Errorf("result = %+v", res)
	}
	if f.ids.Load() != 0 {
		t.Error("script pre-check should skip the identifier")
	}
	if f.cloud.fullCalls.Load() != 0 {
		t.Error("cloud FULL should not run")
	}
	if f.cloud.quickLang != "en-US" {
		t.Errorf("probe language = %q", f.cloud.quickLang)
	}
	if f.local.language != "ko-KR" {
		t.Errorf("local language = %q", f.local.language)
	}
}

func TestTranscribe_LocalFailureFallsBack(t *testing.T) {
	f := newFixture(t, "안녕하세요")
	f.local.err = errors.Provider("clova", 500, "boom")

	res, err := f.router.Transcribe(context.Background(), audio)
	if err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}
	md := res.Metadata
	if md.Provider != transcription.EngineGoogle || md.Route != "quick->clova_fail->google" {
		t.Errorf("metadata = %+v", md)
	}
	if f.cloud.fullLang != "ko-KR" {
		t.Errorf("fallback language = %q, want ko-KR", f.cloud.fullLang)
	}
}

func TestTranscribe_BreakerOpen(t *testing.T) {
	f := newFixture(t, "안녕하세요")
	f.local.err = errors.Provider("clova", 503, "down")
	f.router = New(Config{Breaker: resilience.CircuitBreakerConfig{MaxFailures: 1, Cooldown: time.Hour}},
		f.local, f.cloud, f.probe, nil)

	first, err := f.router.Transcribe(context.Background(), audio)
	if err != nil {
		t.Fatalf("first Transcribe() error = %v", err)
	}
	if first.Metadata.Route != "quick->clova_fail->google" {
		t.Errorf("first route = %q", first.Metadata.Route)
	}
	second, err := f.router.Transcribe(context.Background(), audio)
	if err != nil {
		t.Fatalf("second Transcribe() error = %v", err)
	}
	if second.Metadata.Route != "quick->clova_open->google" {
		t.Errorf("second route = %q", second.Metadata.Route)
	}
	if got := f.local.calls.Load(); got != 1 {
		t.Errorf("local calls = %d, want 1", got)
	}
	if f.router.Breaker().State() != resilience.StateOpen {
		t.Errorf("breaker state = %s", f.router.Breaker().State())
	}
}

func TestTranscribe_NonLocalRoutesCloud(t *testing.T) {
	f := newFixture(t, "good morning how are you", langdetect.Candidate{Tag: "ja", Confidence: 0.9})

	res, err := f.router.Transcribe(context.Background(), audio)
	if err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}
	md := res.Metadata
	if md.Provider != transcription.EngineGoogle || md.Route != "quick->google" {
		t.Errorf("metadata = %+v", md)
	}
	if md.DetectedLanguageTag != "ja" || md.FinalLanguageCode != "ja-JP" {
		t.Errorf("metadata = %+v", md)
	}
	if f.local.calls.Load() != 0 {
		t.Error("local engine should not run")
	}
}

func TestTranscribe_UnknownUsesFallbackCode(t *testing.T) {
	tests := []struct {
		name       string
		snippet    string
		candidates []langdetect.Candidate
		identified int64
	}{
		{name: "empty snippet", snippet: "", identified: 0},
		{name: "low confidence", snippet: "hmm okay", candidates: []langdetect.Candidate{{Tag: "en", Confidence: 0.3}}, identified: 1},
		{name: "ambiguous", snippet: "hola ciao", candidates: []langdetect.Candidate{{Tag: "es", Confidence: 0.55}, {Tag: "it", Confidence: 0.5}}, identified: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.snippet, tt.candidates...)
			res, err := f.router.Transcribe(context.Background(), audio)
			if err != nil {
				t.Fatalf("Transcribe() error = %v", err)
			}
			md := res.Metadata
			if md.Route != "quick->google" || md.FinalLanguageCode != "en-US" || md.DetectedLanguageTag != "" {
				t.Errorf("metadata = %+v", md)
			}
			if got := f.ids.Load(); got != tt.identified {
				t.Errorf("identifier calls = %d, want %d", got, tt.identified)
			}
		})
	}
}

func TestTranscribe_ProbeFailureIsAbsorbed(t *testing.T) {
	t.Run("quick error", func(t *testing.T) {
		f := newFixture(t, "안녕하세요")
		f.cloud.quickErr = errors.Timeout("google quick")
		res, err := f.router.Transcribe(context.Background(), audio)
		if err != nil {
			t.Fatalf("Transcribe() error = %v", err)
		}
		if res.Metadata.Route != "quick_fail->google" || res.Metadata.SnippetLength != 0 {
			t.Errorf("metadata = %+v", res.Metadata)
		}
	})
	t.Run("probe source error", func(t *testing.T) {
		f := newFixture(t, "안녕하세요")
		f.probe.err = errors.InvalidInput("audio", "not a wav file")
		res, err := f.router.Transcribe(context.Background(), audio)
		if err != nil {
			t.Fatalf("Transcribe() error = %v", err)
		}
		if res.Metadata.Route != "quick_fail->google" {
			t.Errorf("route = %q", res.Metadata.Route)
		}
		if f.cloud.quickCalls.Load() != 0 {
			t.Error("quick should not run without PCM")
		}
	})
}

func TestTranscribe_CloudFailureIsTerminal(t *testing.T) {
	f := newFixture(t, "안녕하세요")
	f.local.err = errors.Provider("clova", 500, "")
	f.cloud.fullErr = errors.Timeout("google poll")

	_, err := f.router.Transcribe(context.Background(), audio)
	if !errors.IsTimeout(err) {
		t.Fatalf("error = %v, want timeout", err)
	}
}

func TestTranscribe_Canceled(t *testing.T) {
	f := newFixture(t, "안녕하세요")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.router.Transcribe(ctx, audio)
	if !errors.IsInterrupted(err) {
		t.Fatalf("error = %v, want interrupted", err)
	}
	if f.local.calls.Load() != 0 || f.cloud.fullCalls.Load() != 0 {
		t.Error("no engine should run after cancellation")
	}
}

func TestTranscribe_InvalidAudio(t *testing.T) {
	f := newFixture(t, "")
	if _, err := f.router.Transcribe(context.Background(), transcription.AudioRef{}); !errors.IsCode(err, errors.ErrCodeInvalidInput) {
		t.Errorf("error = %v, want invalid input", err)
	}
}

func TestTranscribeLanguage_Explicit(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		localErr error
		route    string
		provider string
	}{
		{name: "local", code: "ko-KR", route: "explicit->clova", provider: transcription.EngineClova},
		{name: "local fallback", code: "ko", localErr: errors.Provider("clova", 500, ""), route: "explicit->clova_fail->google", provider: transcription.EngineGoogle},
		{name: "cloud", code: "en-GB", route: "explicit->google", provider: transcription.EngineGoogle},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, "unused")
			f.local.err = tt.localErr
			res, err := f.router.TranscribeLanguage(context.Background(), audio, tt.code)
			if err != nil {
				t.Fatalf("TranscribeLanguage() error = %v", err)
			}
			if res.Metadata.Route != tt.route || res.Metadata.Provider != tt.provider || res.Metadata.FinalLanguageCode != tt.code {
				t.Errorf("metadata = %+v", res.Metadata)
			}
			if f.probe.calls.Load() != 0 || f.cloud.quickCalls.Load() != 0 {
				t.Error("explicit language should skip the probe")
			}
		})
	}
}

func TestDetectIsPure(t *testing.T) {
	d := langdetect.New(langdetect.Config{}, nil)
	for _, snippet := range []string{"안녕하세요", "hello there friend", ""} {
		first := d.Detect(snippet)
		for i := 0; i < 5; i++ {
			if got := d.Detect(snippet); got != first {
				t.Fatalf("Detect(%q) changed: %+v then %+v", snippet, first, got)
			}
		}
	}
}

func TestDecisionRoute(t *testing.T) {
	d := Decision{Probe: ProbeOK, Provider: "google", Fallback: "clova_fail", Snippet: "héllo"}
	if d.Route() != "quick->clova_fail->google" || !d.FallbackOccurred() {
		t.Errorf("route = %q", d.Route())
	}
	if d.Metadata().SnippetLength != 5 {
		t.Errorf("snippet length = %d", d.Metadata().SnippetLength)
	}
}

func TestWithBreaker_SharedBreaker(t *testing.T) {
	f := newFixture(t, "안녕하세요")
	cb := resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{Name: "clova", MaxFailures: 1, Cooldown: time.Hour})
	_ = cb.Execute(func() error { return errors.Provider("clova", 500, "down") })
	f.router = New(Config{}, f.local, f.cloud, f.probe, nil, WithBreaker(cb))

	res, err := f.router.Transcribe(context.Background(), audio)
	if err != nil {
		t.Fatalf("Transcribe() error = %v", err)
	}
	if res.Metadata.Route != "quick->clova_open->google" {
		t.Errorf("route = %q", res.Metadata.Route)
	}
	if f.router.Breaker() != cb || f.local.calls.Load() != 0 {
		t.Errorf("expected the injected breaker to reject the local call")
	}
	if cb.Stats().Rejected != 1 {
		t.Errorf("rejected = %d, want 1", cb.Stats().Rejected)
	}
}
