package google

import (
	"strings"
	"time"

	"github.com/2mushr00m/dialLog/transcription"
)

// durationMs converts a protobuf JSON duration such as "1.500s" to
// milliseconds, rounding half up. It returns -1 when s is absent or
// unparseable.
func durationMs(s string) int64 {
	if s == "" {
		return -1
	}
	d, err := time.ParseDuration(s)
	if err != nil || d < 0 {
		return -1
	}
	return int64((d + 500*time.Microsecond) / time.Millisecond)
}

// mapResults walks results in order. Each result spans its first word start
// to its last word end; results without word timing fall back to the
// result end time. lastEnd carries across results so that untimed results
// never rewind to zero.
func mapResults(results []speechResult) []transcription.Segment {
	segments := make([]transcription.Segment, 0, len(results))
	var lastEnd int64
	for _, r := range results {
		if len(r.Alternatives) == 0 {
			continue
		}
		alt := r.Alternatives[0]
		text := strings.TrimSpace(alt.Transcript)
		if text == "" {
			continue
		}
		resultEnd := durationMs(r.ResultEndTime)

		start, end := int64(-1), int64(-1)
		if n := len(alt.Words); n > 0 {
			start = durationMs(alt.Words[0].StartTime)
			last := alt.Words[n-1]
			end = durationMs(last.EndTime)
			if end < 0 {
				end = durationMs(last.StartTime)
			}
		}
		if start < 0 {
			start = lastEnd
		}
		if end < 0 {
			end = lastEnd
			if resultEnd >= 0 {
				end = max(resultEnd, start)
			}
		}
		if end < start {
			end = start
		}
		lastEnd = max(lastEnd, end, resultEnd)

		segments = append(segments, transcription.Segment{
			Text:       text,
			StartMs:    start,
			EndMs:      end,
			Confidence: alt.Confidence,
		})
	}
	return segments
}
