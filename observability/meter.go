package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// InitMeter creates an OTLP/HTTP meter provider and installs it globally.
func InitMeter(ctx context.Context, cfg Config) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(cfg.Endpoint),
	}
	if cfg.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(cfg.MetricInterval))),
		sdkmetric.WithResource(newResource(cfg)),
	)

	otel.SetMeterProvider(mp)
	return mp, nil
}

// Metrics holds the transcription pipeline instruments. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	cacheHits        metric.Int64Counter
	cacheMisses      metric.Int64Counter
	cacheEvictions   metric.Int64Counter
	routeFallbacks   metric.Int64Counter
	providerRequests metric.Int64Counter
	transcribeTime   metric.Float64Histogram
}

// NewMetrics creates metric instruments on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}
	var err error
	counters := []struct {
		dst  *metric.Int64Counter
		name string
		desc string
	}{
		{&m.cacheHits, "diallog.cache.hits", "Transcript cache hits"},
		{&m.cacheMisses, "diallog.cache.misses", "Transcript cache misses"},
		{&m.cacheEvictions, "diallog.cache.evictions", "Transcript cache entries evicted"},
		{&m.routeFallbacks, "diallog.route.fallbacks", "Local engine failures that fell back to the cloud engine"},
		{&m.providerRequests, "diallog.provider.requests", "Speech provider calls by provider and outcome"},
	}
	for _, c := range counters {
		if *c.dst, err = meter.Int64Counter(c.name, metric.WithDescription(c.desc)); err != nil {
			return nil, fmt.Errorf("creating %s counter: %w", c.name, err)
		}
	}

	m.transcribeTime, err = meter.Float64Histogram("diallog.transcribe.duration",
		metric.WithDescription("End-to-end transcription duration"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating diallog.transcribe.duration histogram: %w", err)
	}
	return m, nil
}

// DefaultMetrics creates instruments on the global meter provider, or
// returns nil if that fails.
func DefaultMetrics() *Metrics {
	m, err := NewMetrics(otel.Meter(instrumentationName))
	if err != nil {
		return nil
	}
	return m
}

// CacheHit counts a cache hit.
func (m *Metrics) CacheHit(ctx context.Context) {
	if m != nil {
		m.cacheHits.Add(ctx, 1)
	}
}

// CacheMiss counts a cache miss.
func (m *Metrics) CacheMiss(ctx context.Context) {
	if m != nil {
		m.cacheMisses.Add(ctx, 1)
	}
}

// CacheEvicted counts n evicted entries.
func (m *Metrics) CacheEvicted(ctx context.Context, n int) {
	if m != nil && n > 0 {
		m.cacheEvictions.Add(ctx, int64(n))
	}
}

// RouteFallback counts a fallback from one engine to another.
func (m *Metrics) RouteFallback(ctx context.Context, from, to string) {
	if m != nil {
		m.routeFallbacks.Add(ctx, 1, metric.WithAttributes(
			attribute.String("from", from),
			attribute.String("to", to),
		))
	}
}

// ProviderRequest counts a provider call with its outcome ("ok" or an error code).
func (m *Metrics) ProviderRequest(ctx context.Context, provider, outcome string) {
	if m != nil {
		m.providerRequests.Add(ctx, 1, metric.WithAttributes(
			attribute.String("provider", provider),
			attribute.String("outcome", outcome),
		))
	}
}

// TranscribeDuration records an end-to-end transcription.
func (m *Metrics) TranscribeDuration(ctx context.Context, route string, d time.Duration) {
	if m != nil {
		m.transcribeTime.Record(ctx, d.Seconds(), metric.WithAttributes(attribute.String("route", route)))
	}
}
