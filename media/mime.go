package media

import (
	"path/filepath"
	"strings"
)

var mimeByExt = map[string]string{
	".mp3":  "audio/mpeg",
	".wav":  "audio/wav",
	".m4a":  "audio/mp4",
	".mp4":  "audio/mp4",
	".aac":  "audio/aac",
	".ogg":  "audio/ogg",
	".opus": "audio/ogg",
	".flac": "audio/flac",
	".amr":  "audio/amr",
	".awb":  "audio/amr-wb",
	".3gp":  "audio/3gpp",
	".3g2":  "audio/3gpp2",
}

// DefaultMimeType is used for unknown extensions.
const DefaultMimeType = "application/octet-stream"

// MimeType guesses a recording's mime type from its extension.
func MimeType(path string) string {
	if m, ok := mimeByExt[strings.ToLower(filepath.Ext(path))]; ok {
		return m
	}
	return DefaultMimeType
}

// IsWAV reports whether mime names a RIFF/WAVE container.
func IsWAV(mime string) bool {
	return strings.Contains(strings.ToLower(mime), "wav")
}
