// Package media inspects local recordings: it derives the content identity
// used as cache key, guesses mime types, parses RIFF/WAVE headers and cuts
// the 16-bit PCM head used for language probing.
package media
