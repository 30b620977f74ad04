package clova

import (
	"context"
	"encoding/json"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"

	"github.com/2mushr00m/dialLog/errors"
	"github.com/2mushr00m/dialLog/httpclient"
	"github.com/2mushr00m/dialLog/logger"
	"github.com/2mushr00m/dialLog/media"
	"github.com/2mushr00m/dialLog/observability"
	"github.com/2mushr00m/dialLog/provider"
	"github.com/2mushr00m/dialLog/transcription"
	"github.com/2mushr00m/dialLog/version"
)

// ProviderName is the registered name for the CLOVA engine.
const ProviderName = transcription.EngineClova

// Provider implements transcription.Provider with one synchronous
// multipart upload per recording.
type Provider struct {
	cfg     Config
	fs      afero.Fs
	client    *httpclient.Client
	transport *http.Client
	log       *logger.Logger
	metrics   *observability.Metrics
}

// Option configures a Provider.
type Option func(*Provider)

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option { return func(p *Provider) { p.log = l } }

// WithMetrics sets the request counters.
func WithMetrics(m *observability.Metrics) Option { return func(p *Provider) { p.metrics = m } }

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(c *httpclient.Client) Option { return func(p *Provider) { p.client = c } }

// WithTransport sends requests through hc, keeping its transport and timeout.
func WithTransport(hc *http.Client) Option { return func(p *Provider) { p.transport = hc } }

// NewProvider creates a CLOVA engine reading recordings from fs.
func NewProvider(cfg Config, fs afero.Fs, opts ...Option) (*Provider, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, errors.InvalidInput("clova", err.Error())
	}
	p := &Provider{cfg: cfg, fs: fs}
	for _, opt := range opts {
		opt(p)
	}
	hcfg := httpclient.Config{
		BaseURL:   cfg.BaseURL,
		Timeout:   cfg.Timeout,
		Auth:      httpclient.APIKeyAuthHeader(cfg.APIKey, APIKeyHeader),
		UserAgent: version.UserAgent(),
	}
	switch {
	case p.client != nil:
	case p.transport != nil:
		p.client = httpclient.NewWithHTTPClient(hcfg, p.transport)
	default:
		client, err := httpclient.New(hcfg)
		if err != nil {
			return nil, errors.Internal(err)
		}
		p.client = client
	}
	p.log = logger.OrNop(p.log).WithComponent(ProviderName)
	return p, nil
}

// Factory returns a provider.Factory that creates Providers from base with
// overrides from the config map keys base_url, api_key, language, timeout
// and word_alignment.
func Factory(base Config, fs afero.Fs, opts ...Option) provider.Factory[transcription.Provider] {
	return func(m map[string]any) (transcription.Provider, error) {
		cfg := base
		if v, ok := m["base_url"].(string); ok {
			cfg.BaseURL = v
		}
		if v, ok := m["api_key"].(string); ok {
			cfg.APIKey = v
		}
		if v, ok := m["language"].(string); ok {
			cfg.Language = v
		}
		if v, ok := m["timeout"].(time.Duration); ok {
			cfg.Timeout = v
		}
		if v, ok := m["word_alignment"].(bool); ok {
			cfg.WordAlignment = v
		}
		return NewProvider(cfg, fs, opts...)
	}
}

// Name implements provider.Provider.
func (p *Provider) Name() string { return ProviderName }

// IsAvailable reports whether an endpoint and key are configured.
func (p *Provider) IsAvailable(context.Context) bool {
	return p.cfg.BaseURL != "" && p.cfg.APIKey != ""
}

// Transcribe uses the configured language.
func (p *Provider) Transcribe(ctx context.Context, audio transcription.AudioRef) (*transcription.Result, error) {
	return p.TranscribeLanguage(ctx, audio, p.cfg.Language)
}

type diarization struct {
	Enable bool `json:"enable"`
}

type params struct {
	Language      string      `json:"language"`
	Completion    string      `json:"completion"`
	FullText      bool        `json:"fullText"`
	WordAlignment bool        `json:"wordAlignment"`
	Diarization   diarization `json:"diarization"`
}

// TranscribeLanguage uploads the whole recording.
func (p *Provider) TranscribeLanguage(ctx context.Context, audio transcription.AudioRef, languageCode string) (res *transcription.Result, err error) {
	if err := audio.Validate(); err != nil {
		return nil, err
	}
	if !p.IsAvailable(ctx) {
		return nil, errors.ProviderCause(ProviderName, "engine is not configured", nil)
	}
	if languageCode == "" {
		languageCode = p.cfg.Language
	}

	ctx, span := observability.StartSpan(ctx, observability.SpanClovaTranscribe)
	observability.SetSpanAttribute(ctx, observability.AttrLanguage, languageCode)
	defer func() {
		observability.EndSpan(span, err)
		p.metrics.ProviderRequest(ctx, ProviderName, outcome(err))
	}()

	data, err := afero.ReadFile(p.fs, audio.Path)
	if err != nil {
		return nil, errors.NotFound("audio", audio.Path).WithCause(err)
	}
	mime := audio.MimeType
	if mime == "" {
		mime = media.MimeType(audio.Path)
	}
	blob, err := json.Marshal(params{
		Language:      languageCode,
		Completion:    "sync",
		FullText:      true,
		WordAlignment: p.cfg.WordAlignment,
		Diarization:   diarization{Enable: true},
	})
	if err != nil {
		return nil, errors.Internal(err)
	}

	start := time.Now()
	resp, err := p.client.Do(ctx, httpclient.Request{
		Method: http.MethodPost,
		Path:   uploadPath,
		Body: &httpclient.MultipartBody{
			Files: []httpclient.FileField{
				{FieldName: "media", FileName: filepath.Base(audio.Path), ContentType: mime, Data: data},
				{FieldName: "params", ContentType: "application/json", Data: blob},
				{FieldName: "type", ContentType: "text/plain", Data: []byte("application/json")},
			},
		},
	})
	if err != nil {
		return nil, mapError(err)
	}

	segments, err := parseResponse(resp.Body, audio.DurationMs)
	if err != nil {
		return nil, err
	}
	p.log.Info("transcribed", logger.Fields(
		logger.FieldLanguage, languageCode,
		logger.FieldSegments, len(segments),
		logger.FieldDuration, time.Since(start).Milliseconds(),
	))
	return transcription.NewFinal(segments, &transcription.Metadata{
		Provider:          ProviderName,
		FinalLanguageCode: languageCode,
	}), nil
}

func mapError(err error) error {
	switch {
	case httpclient.IsCanceled(err):
		return errors.Interrupted("clova transcribe", err)
	case httpclient.IsTimeout(err):
		return errors.Timeout("clova transcribe").WithCause(err)
	case httpclient.StatusOf(err) != 0:
		return errors.Provider(ProviderName, httpclient.StatusOf(err), httpclient.BodyOf(err))
	case httpclient.IsConnection(err):
		e := errors.ProviderCause(ProviderName, "unreachable", err)
		e.Retryable = httpclient.IsRetryable(err)
		return e
	default:
		return errors.ProviderCause(ProviderName, "request failed", err)
	}
}

func outcome(err error) string {
	if err == nil {
		return "ok"
	}
	return strings.ToLower(string(errors.CodeOf(err)))
}
