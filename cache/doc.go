// Package cache persists final transcripts keyed by media identity.
//
// ResultCache sits over a Store (one file per key on an afero filesystem,
// or Redis strings with a sorted-set recency index) and a Codec (plain
// JSON, or JSON sealed with ChaCha20-Poly1305). Stores evict the least
// recently accessed entries once they hold more than the configured
// maximum. CachedTranscriber decorates any transcription.Transcriber:
// hits skip the delegate, misses delegate and persist final non-empty
// results. Cache failures are logged and treated as misses.
package cache
