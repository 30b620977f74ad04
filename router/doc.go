// Package router picks the transcription engine for each recording.
//
// A call probes the first seconds of audio with the cloud engine's QUICK
// mode, classifies the snippet language and sends Korean recordings to the
// local-language engine, falling back to the cloud engine's FULL mode when
// it fails. Everything else goes straight to FULL.
//
//	r := router.New(cfg, clovaEngine, googleEngine, probe, detector)
//	res, err := r.Transcribe(ctx, audio)
//	fmt.Println(res.Metadata.Route) // "quick->clova"
package router
