// Package app wires the diallog components once at process start.
//
// App is the explicit dependency set: configuration, logger, token
// provider, engine registry, result cache and telemetry. Nothing is held
// in package-level state; callers pass the App (or the Transcriber it
// builds) to whatever needs it.
//
//	a, err := app.New(ctx, cfg)
//	defer a.Close(ctx)
//	tr, err := a.Transcriber(app.TranscriberOptions{})
package app
