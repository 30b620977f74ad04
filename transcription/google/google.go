package google

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/afero"

	"github.com/2mushr00m/dialLog/auth"
	"github.com/2mushr00m/dialLog/errors"
	"github.com/2mushr00m/dialLog/httpclient"
	"github.com/2mushr00m/dialLog/logger"
	"github.com/2mushr00m/dialLog/media"
	"github.com/2mushr00m/dialLog/observability"
	"github.com/2mushr00m/dialLog/provider"
	"github.com/2mushr00m/dialLog/resilience"
	"github.com/2mushr00m/dialLog/transcription"
	"github.com/2mushr00m/dialLog/version"
)

// ProviderName is the registered name for the Cloud Speech engine.
const ProviderName = transcription.EngineGoogle

const (
	recognizePath     = "v1/speech:recognize"
	longRunningPath   = "v1/speech:longrunningrecognize"
	operationsPathFmt = "v1/operations/"
)

// Provider implements transcription.Provider and
// transcription.QuickTranscriber over the Cloud Speech REST API.
type Provider struct {
	cfg     Config
	tokens  auth.TokenSource
	fs      afero.Fs
	client    *httpclient.Client
	transport *http.Client
	sleep     resilience.SleepFunc
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

// WithSleep replaces the wait between poll attempts.
func WithSleep(s resilience.SleepFunc) Option { return func(p *Provider) { p.sleep = s } }

// NewProvider creates a Cloud Speech engine authenticated by tokens.
func NewProvider(cfg Config, tokens auth.TokenSource, fs afero.Fs, opts ...Option) (*Provider, error) {
	cfg.ApplyDefaults()
	p := &Provider{cfg: cfg, tokens: tokens, fs: fs, sleep: resilience.Sleep}
	for _, opt := range opts {
		opt(p)
	}
	hcfg := httpclient.Config{BaseURL: cfg.BaseURL, Timeout: cfg.Timeout, UserAgent: version.UserAgent()}
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

// Factory returns a provider.Factory bound to a token source. The config
// map overrides base_url, default_language and model of base.
func Factory(base Config, tokens auth.TokenSource, fs afero.Fs, opts ...Option) provider.Factory[transcription.Provider] {
	return func(m map[string]any) (transcription.Provider, error) {
		cfg := base
		if v, ok := m["base_url"].(string); ok {
			cfg.BaseURL = v
		}
		if v, ok := m["default_language"].(string); ok {
			cfg.DefaultLanguage = v
		}
		if v, ok := m["model"].(string); ok {
			cfg.Model = v
		}
		return NewProvider(cfg, tokens, fs, opts...)
	}
}

// Name implements provider.Provider.
func (p *Provider) Name() string { return ProviderName }

// IsAvailable reports whether a token source is configured.
func (p *Provider) IsAvailable(context.Context) bool { return p.tokens != nil }

// Transcribe runs FULL mode with the default language.
func (p *Provider) Transcribe(ctx context.Context, audio transcription.AudioRef) (*transcription.Result, error) {
	return p.TranscribeLanguage(ctx, audio, p.cfg.DefaultLanguage)
}

// TranscribeQuick recognizes a short PCM16 mono buffer synchronously. The
// result is never final.
func (p *Provider) TranscribeQuick(ctx context.Context, pcm []byte, sampleRateHz int, languageCode string) (res *transcription.Result, err error) {
	if !p.IsAvailable(ctx) {
		return nil, errors.ProviderCause(ProviderName, "no credentials configured", nil)
	}
	if languageCode == "" {
		languageCode = p.cfg.DefaultLanguage
	}
	ctx, span := observability.StartSpan(ctx, observability.SpanGoogleQuick)
	observability.SetSpanAttribute(ctx, observability.AttrLanguage, languageCode)
	defer func() {
		observability.EndSpan(span, err)
		p.metrics.ProviderRequest(ctx, ProviderName, outcome(err))
	}()

	body := recognizeRequest{
		Config: recognitionConfig{
			Encoding:                 EncodingLinear16,
			SampleRateHertz:          rateOr(sampleRateHz, DefaultSampleRate),
			LanguageCode:             languageCode,
			AlternativeLanguageCodes: p.cfg.AlternativeLanguages,
		},
		Audio: recognitionAudio{Content: base64.StdEncoding.EncodeToString(pcm)},
	}
	resp, err := p.call(ctx, "google quick", httpclient.Request{
		Method:  http.MethodPost,
		Path:    recognizePath,
		Body:    body,
		Timeout: p.cfg.QuickTimeout,
	})
	if err != nil {
		return nil, err
	}
	var out recognizeResponse
	if err := json.Unmarshal(resp.Body, &out); err != nil {
		return nil, errors.Provider(ProviderName, resp.StatusCode, string(resp.Body)).WithCause(err)
	}
	return transcription.NewInterim(mapResults(out.Results)), nil
}

// TranscribeLanguage runs FULL mode: it starts a long-running recognition
// of the whole file and polls it to completion.
func (p *Provider) TranscribeLanguage(ctx context.Context, audio transcription.AudioRef, languageCode string) (res *transcription.Result, err error) {
	if err := audio.Validate(); err != nil {
		return nil, err
	}
	if !p.IsAvailable(ctx) {
		return nil, errors.ProviderCause(ProviderName, "no credentials configured", nil)
	}
	if languageCode == "" {
		languageCode = p.cfg.DefaultLanguage
	}
	defer func() { p.metrics.ProviderRequest(ctx, ProviderName, outcome(err)) }()

	cfg, content, err := p.fullRequest(audio, languageCode)
	if err != nil {
		return nil, err
	}
	resp, err := p.call(ctx, "google longrunningrecognize", httpclient.Request{
		Method: http.MethodPost,
		Path:   longRunningPath,
		Body:   recognizeRequest{Config: cfg, Audio: recognitionAudio{Content: content}},
	})
	if err != nil {
		return nil, err
	}
	op, err := decodeOperation(resp)
	if err != nil {
		return nil, err
	}

	var final *recognizeResponse
	switch {
	case op.Error != nil:
		return nil, operationFailure(op.Error)
	case op.Done:
		final = op.Response
	case op.Name == "":
		return nil, errors.ProviderCause(ProviderName, "operation has no name", nil)
	default:
		final, err = p.poll(ctx, op.Name)
		if err != nil {
			return nil, err
		}
	}

	var segments []transcription.Segment
	if final != nil {
		segments = mapResults(final.Results)
	}
	p.log.Info("transcribed", logger.Fields(
		logger.FieldLanguage, languageCode,
		logger.FieldSegments, len(segments),
	))
	return transcription.NewFinal(segments, &transcription.Metadata{
		Provider:          ProviderName,
		FinalLanguageCode: languageCode,
	}), nil
}

func (p *Provider) fullRequest(audio transcription.AudioRef, languageCode string) (recognitionConfig, string, error) {
	data, err := afero.ReadFile(p.fs, audio.Path)
	if err != nil {
		return recognitionConfig{}, "", errors.NotFound("audio", audio.Path).WithCause(err)
	}
	mime := audio.MimeType
	if mime == "" {
		mime = media.MimeType(audio.Path)
	}
	rate := audio.SampleRateHz
	if media.IsWAV(mime) {
		if hdr, err := media.ParseWAVHeader(bytes.NewReader(data)); err == nil {
			rate = hdr.SampleRate
		}
	}
	encoding, rate := inferEncoding(mime, rate)
	return recognitionConfig{
		Encoding:                   encoding,
		SampleRateHertz:            rate,
		LanguageCode:               languageCode,
		EnableAutomaticPunctuation: true,
		EnableWordTimeOffsets:      true,
		MaxAlternatives:            1,
		Model:                      p.cfg.Model,
	}, base64.StdEncoding.EncodeToString(data), nil
}

// poll drives the operation until done. A poll response carrying an
// error field stops polling immediately.
func (p *Provider) poll(ctx context.Context, name string) (res *recognizeResponse, err error) {
	ctx, span := observability.StartSpan(ctx, observability.SpanGooglePoll)
	defer func() { observability.EndSpan(span, err) }()

	attempts := 0
	res, err = resilience.Poll(ctx, resilience.PollConfig{
		Backoff: p.cfg.Poll,
		Sleep:   p.sleep,
		OnWait: func(attempt int, delay time.Duration) {
			p.log.Debug("operation pending", logger.Fields(
				logger.FieldOperation, name,
				logger.FieldAttempt, attempt,
				logger.FieldDelay, delay.Milliseconds(),
			))
		},
	}, func(ctx context.Context, attempt int) (*recognizeResponse, bool, error) {
		attempts = attempt
		resp, err := p.call(ctx, "google poll", httpclient.Request{
			Method: http.MethodGet,
			Path:   operationsPathFmt + name,
		})
		if err != nil {
			return nil, false, err
		}
		op, err := decodeOperation(resp)
		if err != nil {
			return nil, false, err
		}
		if op.Error != nil {
			return nil, false, operationFailure(op.Error)
		}
		if !op.Done {
			return nil, false, nil
		}
		if op.Response == nil {
			return &recognizeResponse{}, true, nil
		}
		return op.Response, true, nil
	})
	observability.SetSpanAttribute(ctx, observability.AttrAttempt, attempts)

	if _, ok := errors.AsAppError(err); ok {
		return nil, err
	}
	switch {
	case err == nil:
		return res, nil
	case stderrors.Is(err, resilience.ErrPollExhausted):
		return nil, errors.Timeout("google poll").WithDetail("operation", name).WithDetail("attempts", attempts)
	case stderrors.Is(err, context.Canceled):
		return nil, errors.Interrupted("google poll", err)
	case stderrors.Is(err, context.DeadlineExceeded):
		return nil, errors.Timeout("google poll").WithCause(err)
	default:
		return nil, err
	}
}

// call performs an authorized request. A 401 or 403 invalidates the token
// and retries exactly once; a second rejection is an auth failure.
func (p *Provider) call(ctx context.Context, op string, req httpclient.Request) (*httpclient.Response, error) {
	for attempt := 1; ; attempt++ {
		token, err := p.tokens.Token(ctx)
		if err != nil {
			return nil, err
		}
		req.Auth = httpclient.BearerAuth(token)
		resp, err := p.client.Do(ctx, req)
		if err == nil {
			return resp, nil
		}
		status := httpclient.StatusOf(err)
		if status == http.StatusUnauthorized || status == http.StatusForbidden {
			if attempt == 1 {
				p.log.Warn("token rejected, retrying", logger.Fields(
					logger.FieldOperation, op,
					logger.FieldStatus, status,
				))
				p.tokens.Invalidate()
				continue
			}
			return nil, errors.Auth(status, httpclient.BodyOf(err))
		}
		return nil, mapError(op, err)
	}
}

func decodeOperation(resp *httpclient.Response) (*operation, error) {
	var op operation
	if err := json.Unmarshal(resp.Body, &op); err != nil {
		return nil, errors.Provider(ProviderName, resp.StatusCode, string(resp.Body)).WithCause(err)
	}
	return &op, nil
}

func operationFailure(e *operationError) error {
	return errors.ProviderCause(ProviderName, e.Message, nil).WithDetail("code", e.Code)
}

func mapError(op string, err error) error {
	switch {
	case httpclient.IsCanceled(err):
		return errors.Interrupted(op, err)
	case httpclient.IsTimeout(err):
		return errors.Timeout(op).WithCause(err)
	case httpclient.StatusOf(err) != 0:
		return errors.Provider(ProviderName, httpclient.StatusOf(err), httpclient.BodyOf(err))
	case httpclient.IsConnection(err):
		e := errors.ProviderCause(ProviderName, op+": unreachable", err)
		e.Retryable = httpclient.IsRetryable(err)
		return e
	default:
		return errors.ProviderCause(ProviderName, op+" failed", err)
	}
}

func outcome(err error) string {
	if err == nil {
		return "ok"
	}
	return strings.ToLower(string(errors.CodeOf(err)))
}
