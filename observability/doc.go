// Package observability installs OpenTelemetry tracer and meter providers
// when enabled and exposes span helpers plus the transcription metric
// instruments. With observability disabled every helper runs against the
// global no-op providers.
package observability
