package cache

import (
	"context"

	"github.com/spf13/afero"

	"github.com/2mushr00m/dialLog/logger"
	"github.com/2mushr00m/dialLog/media"
	"github.com/2mushr00m/dialLog/observability"
	"github.com/2mushr00m/dialLog/transcription"
)

// CachedTranscriber serves final results from a ResultCache and delegates
// misses to the wrapped Transcriber.
type CachedTranscriber struct {
	next  transcription.Transcriber
	cache *ResultCache
	fs    afero.Fs
	log   *logger.Logger
}

// NewCachedTranscriber wraps next. fs is used to stat recordings for
// their identity.
func NewCachedTranscriber(next transcription.Transcriber, cache *ResultCache, fs afero.Fs, log *logger.Logger) *CachedTranscriber {
	return &CachedTranscriber{
		next:  next,
		cache: cache,
		fs:    fs,
		log:   logger.OrNop(log).WithComponent("cached_transcriber"),
	}
}

// Transcribe implements transcription.Transcriber.
func (t *CachedTranscriber) Transcribe(ctx context.Context, audio transcription.AudioRef) (*transcription.Result, error) {
	return t.transcribe(ctx, audio, "", func() (*transcription.Result, error) {
		return t.next.Transcribe(ctx, audio)
	})
}

// TranscribeLanguage implements transcription.Transcriber. Entries are
// keyed by identity and language code.
func (t *CachedTranscriber) TranscribeLanguage(ctx context.Context, audio transcription.AudioRef, languageCode string) (*transcription.Result, error) {
	return t.transcribe(ctx, audio, languageCode, func() (*transcription.Result, error) {
		return t.next.TranscribeLanguage(ctx, audio, languageCode)
	})
}

// Key returns the cache key for audio. It fails when the file cannot be
// stat'ed.
func (t *CachedTranscriber) Key(audio transcription.AudioRef, languageCode string) (string, error) {
	id, err := media.IdentityOf(t.fs, audio)
	if err != nil {
		return "", err
	}
	return id.Qualified(languageCode), nil
}

func (t *CachedTranscriber) transcribe(ctx context.Context, audio transcription.AudioRef, languageCode string, call func() (*transcription.Result, error)) (*transcription.Result, error) {
	key, err := t.Key(audio, languageCode)
	if err != nil {
		t.log.Warn("media identity unavailable, bypassing cache", logger.Fields(logger.FieldPath, audio.Path, logger.FieldError, err))
		return call()
	}

	segments, ok, err := t.cache.Get(ctx, key)
	if err != nil {
		t.log.Warn("cache read failed, treating as miss", logger.Fields(logger.FieldCacheKey, key, logger.FieldError, err))
	}
	if ok {
		observability.SetSpanAttribute(ctx, observability.AttrCacheHit, true)
		return transcription.NewFinal(segments, &transcription.Metadata{
			Provider:          transcription.EngineCache,
			Route:             transcription.EngineCache,
			FinalLanguageCode: languageCode,
		}), nil
	}

	res, err := call()
	if err != nil {
		return nil, err
	}
	if res.Final && !res.IsEmpty() {
		if err := t.cache.Put(ctx, key, res.Segments); err != nil {
			t.log.Warn("cache write failed", logger.Fields(logger.FieldCacheKey, key, logger.FieldError, err))
		}
	}
	return res, nil
}
