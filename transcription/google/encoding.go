package google

import "strings"

// Recognition encodings.
const (
	EncodingLinear16 = "LINEAR16"
	EncodingFLAC     = "FLAC"
	EncodingMP3      = "MP3"
	EncodingOggOpus  = "OGG_OPUS"
	EncodingAMR      = "AMR"
	EncodingAMRWB    = "AMR_WB"
)

// inferEncoding maps a container mime type to an encoding and sample rate.
// headerRate is the rate read from the file header or the AudioRef, 0 if
// unknown. An unrecognised mime leaves both unset.
func inferEncoding(mime string, headerRate int) (string, int) {
	m := strings.ToLower(mime)
	switch {
	case strings.Contains(m, "mpeg"), strings.Contains(m, "mp3"):
		return EncodingMP3, headerRate
	case strings.Contains(m, "wav"):
		return EncodingLinear16, rateOr(headerRate, DefaultSampleRate)
	case strings.Contains(m, "ogg"), strings.Contains(m, "opus"):
		return EncodingOggOpus, headerRate
	case strings.Contains(m, "amr-wb"), strings.Contains(m, "3gpp2"):
		return EncodingAMRWB, 16000
	case strings.Contains(m, "amr"), strings.Contains(m, "3gpp"):
		return EncodingAMR, 8000
	case strings.Contains(m, "flac"):
		return EncodingFLAC, rateOr(headerRate, DefaultSampleRate)
	default:
		return "", 0
	}
}

func rateOr(rate, fallback int) int {
	if rate > 0 {
		return rate
	}
	return fallback
}
