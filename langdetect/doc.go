// Package langdetect classifies short probe transcripts as the local
// language (KO), another language (NON_KO) or UNKNOWN, and maps detected
// BCP-47 tags to the language codes the cloud engine accepts.
//
// Detector applies a Hangul-ratio pre-check and then a confidence and
// margin policy over the ranked candidates of an Identifier. The
// Identifier is a black box; LinguaIdentifier is the built-in one.
package langdetect
