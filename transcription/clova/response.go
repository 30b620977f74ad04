package clova

import (
	"encoding/json"
	"strings"

	"github.com/2mushr00m/dialLog/errors"
	"github.com/2mushr00m/dialLog/transcription"
)

type speaker struct {
	Label string `json:"label"`
	Name  string `json:"name"`
}

type segment struct {
	Text       string   `json:"text"`
	Start      *int64   `json:"start"`
	End        *int64   `json:"end"`
	StartMs    *int64   `json:"startMs"`
	EndMs      *int64   `json:"endMs"`
	Confidence *float64 `json:"confidence"`
	Speaker    *speaker `json:"speaker"`
}

type response struct {
	Result   string    `json:"result"`
	Message  string    `json:"message"`
	Text     string    `json:"text"`
	Segments []segment `json:"segments"`
}

func firstOf(vals ...*int64) int64 {
	for _, v := range vals {
		if v != nil {
			return *v
		}
	}
	return 0
}

// parseResponse maps the recognizer body. A body with only full text
// becomes one segment spanning [0, durationMs].
func parseResponse(body []byte, durationMs int64) ([]transcription.Segment, error) {
	var r response
	if err := json.Unmarshal(body, &r); err != nil {
		return nil, errors.Provider(ProviderName, 200, string(body)).WithCause(err)
	}
	if strings.EqualFold(r.Result, "FAILED") {
		return nil, errors.Provider(ProviderName, 200, string(body)).WithDetail("reason", r.Message)
	}

	out := make([]transcription.Segment, 0, len(r.Segments))
	for _, s := range r.Segments {
		text := strings.TrimSpace(s.Text)
		if text == "" {
			continue
		}
		seg := transcription.Segment{
			Text:       text,
			StartMs:    firstOf(s.StartMs, s.Start),
			EndMs:      firstOf(s.EndMs, s.End),
			Confidence: s.Confidence,
		}
		if seg.EndMs < seg.StartMs {
			seg.EndMs = seg.StartMs
		}
		if s.Speaker != nil {
			seg.Speaker = s.Speaker.Label
			if seg.Speaker == "" {
				seg.Speaker = s.Speaker.Name
			}
		}
		out = append(out, seg)
	}
	if len(out) == 0 {
		if text := strings.TrimSpace(r.Text); text != "" {
			out = append(out, transcription.Segment{Text: text, StartMs: 0, EndMs: durationMs})
		}
	}
	return out, nil
}
