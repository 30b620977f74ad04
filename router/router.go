package router

import (
	"context"
	"time"

	"github.com/2mushr00m/dialLog/errors"
	"github.com/2mushr00m/dialLog/langdetect"
	"github.com/2mushr00m/dialLog/logger"
	"github.com/2mushr00m/dialLog/media"
	"github.com/2mushr00m/dialLog/observability"
	"github.com/2mushr00m/dialLog/provider"
	"github.com/2mushr00m/dialLog/resilience"
	"github.com/2mushr00m/dialLog/transcription"
)

// Name is the registered name of the router.
const Name = "router"

// CloudProvider is an engine with both QUICK and FULL modes.
type CloudProvider interface {
	transcription.Provider
	transcription.QuickTranscriber
}

// Router is a transcription.Provider that routes each call to the local or
// cloud engine.
type Router struct {
	cfg      Config
	local    transcription.Provider
	cloud    CloudProvider
	probe    media.ProbeSource
	detector *langdetect.Detector
	codes    *langdetect.CodeTable
	breaker  *resilience.CircuitBreaker
	log      *logger.Logger
	metrics  *observability.Metrics
}

// Option configures a Router.
type Option func(*Router)

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option { return func(r *Router) { r.log = l } }

// WithMetrics sets the fallback and latency instruments.
func WithMetrics(m *observability.Metrics) Option { return func(r *Router) { r.metrics = m } }

// WithBreaker replaces the breaker built from Config.Breaker.
func WithBreaker(cb *resilience.CircuitBreaker) Option { return func(r *Router) { r.breaker = cb } }

// New creates a Router. A nil detector uses the default policy.
func New(cfg Config, local transcription.Provider, cloud CloudProvider, probe media.ProbeSource, detector *langdetect.Detector, opts ...Option) *Router {
	cfg.ApplyDefaults()
	if detector == nil {
		detector = langdetect.New(langdetect.Config{LocalPrefix: cfg.LocalLanguagePrefix}, nil)
	}
	r := &Router{
		cfg:      cfg,
		local:    local,
		cloud:    cloud,
		probe:    probe,
		detector: detector,
		codes:    langdetect.NewCodeTable(cfg.LanguageCodes, cfg.FallbackLanguage),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.log = logger.OrNop(r.log).WithComponent(Name)
	if r.breaker == nil {
		bc := cfg.Breaker
		bc.IsFailure = func(err error) bool { return err != nil && !errors.IsInterrupted(err) }
		bc.OnStateChange = func(name string, from, to resilience.State) {
			r.log.Warn("breaker state changed", logger.Fields(
				logger.FieldProvider, name, "from", from.String(), "to", to.String(),
			))
		}
		r.breaker = resilience.NewCircuitBreaker(bc)
	}
	return r
}

// Name implements provider.Provider.
func (r *Router) Name() string { return Name }

// IsAvailable reports whether the cloud engine, which every route can end
// on, is available.
func (r *Router) IsAvailable(ctx context.Context) bool {
	return r.cloud != nil && r.cloud.IsAvailable(ctx)
}

// Breaker exposes the local engine breaker.
func (r *Router) Breaker() *resilience.CircuitBreaker { return r.breaker }

// Transcribe probes, detects and routes. Only a failure of the final engine
// is returned; probe and local failures show up in the route.
func (r *Router) Transcribe(ctx context.Context, audio transcription.AudioRef) (res *transcription.Result, err error) {
	if err := audio.Validate(); err != nil {
		return nil, err
	}
	ctx, span := observability.StartSpan(ctx, observability.SpanRouterTranscribe)
	defer func() { observability.EndSpan(span, err) }()
	start := time.Now()

	probe := r.runProbe(ctx, audio)
	if err := ctx.Err(); err != nil {
		return nil, errors.Interrupted("route", err)
	}

	d := Decision{Probe: probe.Status(), Snippet: probe.Snippet}
	d.Detection = langdetect.Detection{Class: langdetect.Unknown}
	if probe.Snippet != "" {
		d.Detection = r.detector.Detect(probe.Snippet)
	}
	d.LanguageCode = r.codes.Resolve(d.Detection.Tag)

	res, err = r.route(ctx, audio, &d, d.Detection.Class == langdetect.KO)
	if err != nil {
		return nil, err
	}
	r.finish(ctx, d, start)
	return res, nil
}

// TranscribeLanguage skips the probe. A code in the local base language
// goes to the local engine with cloud fallback; any other code goes to the
// cloud engine. An empty code behaves like Transcribe.
func (r *Router) TranscribeLanguage(ctx context.Context, audio transcription.AudioRef, languageCode string) (res *transcription.Result, err error) {
	if languageCode == "" {
		return r.Transcribe(ctx, audio)
	}
	if err := audio.Validate(); err != nil {
		return nil, err
	}
	ctx, span := observability.StartSpan(ctx, observability.SpanRouterTranscribe)
	defer func() { observability.EndSpan(span, err) }()
	start := time.Now()

	d := Decision{Probe: ProbeExplicit, LanguageCode: languageCode}
	res, err = r.route(ctx, audio, &d, langdetect.SameBase(languageCode, r.cfg.LocalLanguagePrefix))
	if err != nil {
		return nil, err
	}
	r.finish(ctx, d, start)
	return res, nil
}

// route runs the local engine when local is set, then the cloud engine if
// needed, and fills d.Provider and d.Fallback.
func (r *Router) route(ctx context.Context, audio transcription.AudioRef, d *Decision, local bool) (*transcription.Result, error) {
	if local && r.local != nil {
		out := r.runLocal(ctx, audio, d.LanguageCode)
		if out.OK() {
			d.Provider = r.local.Name()
			return r.wrap(out.Result, *d), nil
		}
		if errors.IsInterrupted(out.Err) || ctx.Err() != nil {
			return nil, errors.Interrupted("route", out.Err)
		}
		d.Fallback = out.Marker(r.local.Name())
		r.log.Warn("local engine failed, falling back", logger.Fields(
			logger.FieldProvider, r.local.Name(),
			logger.FieldRoute, d.Fallback,
			logger.FieldError, out.Err.Error(),
		))
		r.metrics.RouteFallback(ctx, r.local.Name(), r.cloud.Name())
	}

	d.Provider = r.cloud.Name()
	res, err := r.cloud.TranscribeLanguage(ctx, audio, d.LanguageCode)
	if err != nil {
		r.log.Error("transcription failed", logger.Fields(
			logger.FieldRoute, d.Route(),
			logger.FieldLanguage, d.LanguageCode,
			logger.FieldError, err.Error(),
		))
		return nil, err
	}
	return r.wrap(res, *d), nil
}

func (r *Router) runProbe(ctx context.Context, audio transcription.AudioRef) (out ProbeOutcome) {
	ctx, span := observability.StartSpan(ctx, observability.SpanRouterProbe)
	defer func() { observability.EndSpan(span, out.Err) }()

	if r.probe == nil {
		return ProbeOutcome{Err: errors.InvalidInput("probe", "no probe source configured")}
	}
	pcm, err := r.probe.Probe(ctx, audio, r.cfg.ProbeDuration)
	if err == nil && pcm.IsEmpty() {
		err = errors.InvalidInput("probe", "empty probe buffer")
	}
	if err == nil {
		var quick *transcription.Result
		quick, err = r.cloud.TranscribeQuick(ctx, pcm.Data, pcm.SampleRateHz, r.cfg.ProbeLanguage)
		if err == nil {
			return ProbeOutcome{Snippet: quick.FirstText()}
		}
	}
	r.log.Warn("probe failed", logger.Fields(
		logger.FieldPath, audio.Path,
		logger.FieldError, err.Error(),
	))
	return ProbeOutcome{Err: err}
}

func (r *Router) runLocal(ctx context.Context, audio transcription.AudioRef, languageCode string) LocalOutcome {
	res, err := provider.Guard(r.breaker, r.local.Name(), func() (*transcription.Result, error) {
		return r.local.TranscribeLanguage(ctx, audio, languageCode)
	})
	return LocalOutcome{Result: res, Err: err}
}

func (r *Router) wrap(res *transcription.Result, d Decision) *transcription.Result {
	var segments []transcription.Segment
	if res != nil {
		segments = res.Segments
	}
	return transcription.NewFinal(segments, d.Metadata())
}

func (r *Router) finish(ctx context.Context, d Decision, start time.Time) {
	route := d.Route()
	observability.SetSpanAttribute(ctx, observability.AttrRoute, route)
	observability.SetSpanAttribute(ctx, observability.AttrProvider, d.Provider)
	r.metrics.TranscribeDuration(ctx, route, time.Since(start))
	r.log.Info("routed", logger.Fields(
		logger.FieldRoute, route,
		logger.FieldProvider, d.Provider,
		logger.FieldLanguage, d.LanguageCode,
		"class", string(d.Detection.Class),
		"snippet_length", d.Metadata().SnippetLength,
	))
}
