// Package worker runs transcription requests one job at a time per caller.
//
// A Session delivers only the latest submitted job. Submitting again
// supersedes the previous job: its network calls keep running to
// completion or timeout, but its result is dropped.
package worker
