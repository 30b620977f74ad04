// Package transcription defines the speech-to-text contract shared by the
// engines and the decorators that compose them.
//
// Transcriber is the capability set {Transcribe, TranscribeLanguage}.
// Engines (transcription/clova, transcription/google, the Static engine)
// additionally embed provider.Provider and register in an engine registry;
// decorators such as the router and the result cache wrap one Transcriber
// inside another.
//
// # Backends
//
//   - transcription/clova: single-call multipart upload engine
//   - transcription/google: cloud engine with QUICK probe and FULL long-running mode
//   - Static: fixed transcript, for offline runs and tests
package transcription
