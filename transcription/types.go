package transcription

import (
	"strings"

	"github.com/2mushr00m/dialLog/validation"
)

// Segment is a time-aligned portion of a transcript. Offsets are
// milliseconds from the start of the audio.
type Segment struct {
	Text       string   `json:"text"`
	StartMs    int64    `json:"start_ms"`
	EndMs      int64    `json:"end_ms"`
	Confidence *float64 `json:"confidence,omitempty"`
	Speaker    string   `json:"speaker,omitempty"`
}

// Metadata describes how a result was produced.
type Metadata struct {
	// Provider is the engine that produced the segments, or "cache".
	Provider string `json:"provider"`
	// Route is the decision path, e.g. "quick->clova_fail->google".
	Route string `json:"route,omitempty"`
	// SnippetLength is the rune length of the probe snippet.
	SnippetLength int `json:"snippet_length"`
	// DetectedLanguageTag is empty when no tag was detected.
	DetectedLanguageTag string `json:"detected_language_tag,omitempty"`
	// FinalLanguageCode is the language code sent to the final engine.
	FinalLanguageCode string `json:"final_language_code,omitempty"`
}

// Result is the outcome of one transcription. Final separates a full
// transcription from an interim probe; only final results are cached.
type Result struct {
	Segments []Segment `json:"segments"`
	Final    bool      `json:"final"`
	Metadata *Metadata `json:"metadata,omitempty"`
}

// NewFinal wraps segments in a final result.
func NewFinal(segments []Segment, md *Metadata) *Result {
	return &Result{Segments: segments, Final: true, Metadata: md}
}

// NewInterim wraps segments in a non-final result.
func NewInterim(segments []Segment) *Result {
	return &Result{Segments: segments}
}

// IsEmpty reports whether the result holds no segments.
func (r *Result) IsEmpty() bool { return r == nil || len(r.Segments) == 0 }

// Text joins the non-empty segment texts with single spaces.
func (r *Result) Text() string {
	if r == nil {
		return ""
	}
	parts := make([]string, 0, len(r.Segments))
	for _, s := range r.Segments {
		if t := strings.TrimSpace(s.Text); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}

// FirstText returns the first non-empty trimmed segment text.
func (r *Result) FirstText() string {
	if r == nil {
		return ""
	}
	for _, s := range r.Segments {
		if t := strings.TrimSpace(s.Text); t != "" {
			return t
		}
	}
	return ""
}

// AudioRef points at one recording. Path is read by the engines; URI, when
// set, replaces Path as the identity source.
type AudioRef struct {
	Path         string `json:"path,omitempty"`
	URI          string `json:"uri,omitempty"`
	MimeType     string `json:"mime_type,omitempty"`
	DurationMs   int64  `json:"duration_ms,omitempty"`
	SampleRateHz int    `json:"sample_rate_hz,omitempty"`
}

// Source returns the identity source: URI if set, else Path.
func (a AudioRef) Source() string {
	if a.URI != "" {
		return a.URI
	}
	return a.Path
}

// Validate checks that the reference can be read. Every failing field is
// reported in the INVALID_INPUT details.
func (a AudioRef) Validate() error {
	return validation.New().
		Required("audio.path", a.Path).
		NonNegative("audio.duration_ms", a.DurationMs).
		NonNegative("audio.sample_rate_hz", int64(a.SampleRateHz)).
		Validate()
}
