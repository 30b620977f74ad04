package router

import (
	"strings"
	"unicode/utf8"

	"github.com/2mushr00m/dialLog/langdetect"
	"github.com/2mushr00m/dialLog/provider"
	"github.com/2mushr00m/dialLog/transcription"
)

// ProbeStatus is the first hop of a route string.
type ProbeStatus string

const (
	ProbeOK       ProbeStatus = "quick"
	ProbeFailed   ProbeStatus = "quick_fail"
	ProbeExplicit ProbeStatus = "explicit"
)

// ProbeOutcome is the result of the QUICK probe. A failed probe has an
// empty snippet.
type ProbeOutcome struct {
	Snippet string
	Err     error
}

// Status returns ProbeOK or ProbeFailed.
func (o ProbeOutcome) Status() ProbeStatus {
	if o.Err != nil {
		return ProbeFailed
	}
	return ProbeOK
}

// LocalOutcome is the result of the local engine attempt.
type LocalOutcome struct {
	Result *transcription.Result
	Err    error
}

// OK reports whether the local engine produced the result.
func (o LocalOutcome) OK() bool { return o.Err == nil }

// Marker returns the route hop for a failed attempt.
func (o LocalOutcome) Marker(engine string) string {
	if provider.IsCircuitOpen(o.Err) {
		return engine + "_open"
	}
	return engine + "_fail"
}

// Decision records one routing pass. It lives for a single call and
// becomes the result Metadata.
type Decision struct {
	Probe     ProbeStatus
	Snippet   string
	Detection langdetect.Detection
	// Provider is the engine that produced the final segments.
	Provider string
	// Fallback is the failed-local hop, empty when no fallback happened.
	Fallback     string
	LanguageCode string
}

// FallbackOccurred reports whether the local engine failed over.
func (d Decision) FallbackOccurred() bool { return d.Fallback != "" }

// Route renders the decision path, e.g. "quick->clova_fail->google".
func (d Decision) Route() string {
	hops := []string{string(d.Probe)}
	if d.Fallback != "" {
		hops = append(hops, d.Fallback)
	}
	hops = append(hops, d.Provider)
	return strings.Join(hops, "->")
}

// Metadata converts the decision into result metadata.
func (d Decision) Metadata() *transcription.Metadata {
	return &transcription.Metadata{
		Provider:            d.Provider,
		Route:               d.Route(),
		SnippetLength:       utf8.RuneCountInString(d.Snippet),
		DetectedLanguageTag: d.Detection.Tag,
		FinalLanguageCode:   d.LanguageCode,
	}
}
