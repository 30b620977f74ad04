// Package errors defines the error taxonomy shared by the transcription
// pipeline. Every failure that crosses a package boundary is an *AppError
// carrying a machine-readable code, the upstream HTTP status when there is
// one, and a truncated copy of the upstream response body.
package errors
