// Package provider holds the base contract shared by every pluggable
// backend and a generic registry resolving backends by name.
//
// Backends embed Provider, register a Factory under a stable name and are
// looked up at wiring time:
//
//	reg := provider.NewRegistry[transcription.Provider]()
//	reg.RegisterFactory("clova", clova.Factory(cfg))
//	engine, err := reg.Resolve("clova", nil)
//
// Guard runs a call through a resilience.CircuitBreaker and reports an
// open circuit as a PROVIDER_ERROR that still matches
// resilience.ErrCircuitOpen under errors.Is.
package provider
