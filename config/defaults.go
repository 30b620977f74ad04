package config

import (
	"github.com/spf13/viper"

	"github.com/2mushr00m/dialLog/auth"
	"github.com/2mushr00m/dialLog/cache"
	"github.com/2mushr00m/dialLog/langdetect"
	"github.com/2mushr00m/dialLog/media"
	"github.com/2mushr00m/dialLog/router"
	"github.com/2mushr00m/dialLog/transcription"
	"github.com/2mushr00m/dialLog/transcription/google"
)

// setDefaults registers every key so that environment variables bind to
// keys absent from config.yml.
func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.output", "stderr")
	v.SetDefault("logging.no_color", false)

	v.SetDefault("auth.service_account_file", "")
	v.SetDefault("auth.token_url", "")
	v.SetDefault("auth.scope", auth.DefaultScope)
	v.SetDefault("auth.refresh_skew", auth.DefaultRefreshSkew)
	v.SetDefault("auth.assertion_ttl", auth.DefaultAssertionTTL)
	v.SetDefault("auth.timeout", "30s")

	v.SetDefault("clova.base_url", "")
	v.SetDefault("clova.api_key", "")
	v.SetDefault("clova.language", "ko-KR")
	v.SetDefault("clova.timeout", "120s")
	v.SetDefault("clova.word_alignment", true)

	v.SetDefault("google.base_url", google.DefaultBaseURL)
	v.SetDefault("google.default_language", google.DefaultLanguage)
	v.SetDefault("google.alternative_languages", google.DefaultAlternativeLanguages)
	v.SetDefault("google.model", google.DefaultModel)
	v.SetDefault("google.quick_timeout", google.DefaultQuickTimeout)
	v.SetDefault("google.timeout", google.DefaultTimeout)
	v.SetDefault("google.poll.initial_delay", "1s")
	v.SetDefault("google.poll.max_delay", "10s")
	v.SetDefault("google.poll.factor", 2.0)
	v.SetDefault("google.poll.max_attempts", 60)

	v.SetDefault("router.mode", string(router.ModeOn))
	v.SetDefault("router.engine", transcription.EngineClova)
	v.SetDefault("router.probe_language", langdetect.DefaultFallbackCode)
	v.SetDefault("router.probe_duration", media.DefaultProbeDuration)
	v.SetDefault("router.fallback_language", langdetect.DefaultFallbackCode)
	v.SetDefault("router.local_language_prefix", langdetect.DefaultLocalPrefix)
	v.SetDefault("router.breaker.max_failures", 3)
	v.SetDefault("router.breaker.cooldown", "2m")
	v.SetDefault("router.breaker.probes", 1)

	v.SetDefault("detector.min_confidence", langdetect.DefaultMinConfidence)
	v.SetDefault("detector.min_margin", langdetect.DefaultMinMargin)
	v.SetDefault("detector.script_ratio", langdetect.DefaultScriptRatio)
	v.SetDefault("detector.short_snippet_runes", langdetect.DefaultShortSnippetRunes)

	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.backend", cache.BackendFile)
	v.SetDefault("cache.dir", cache.DefaultDir)
	v.SetDefault("cache.max_entries", cache.DefaultMaxEntries)
	v.SetDefault("cache.encryption_key", "")

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.key_prefix", "diallog")

	v.SetDefault("observability.enabled", false)
	v.SetDefault("observability.service_name", "diallog")
	v.SetDefault("observability.endpoint", "localhost:4318")
	v.SetDefault("observability.insecure", false)
	v.SetDefault("observability.sample_rate", 1.0)
}
