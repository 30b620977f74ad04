package transcription

import "github.com/2mushr00m/dialLog/provider"

// Engine names.
const (
	EngineClova  = "clova"
	EngineGoogle = "google"
	EngineStatic = "static"
	// EngineCache is reported in Metadata.Provider for cache hits.
	EngineCache = "cache"
)

// NewRegistry creates a new provider registry for transcription engines.
func NewRegistry() *provider.Registry[Provider] {
	return provider.NewRegistry[Provider]()
}
