package provider

import "context"

// Provider is anything the registry can hold: a named engine that can say
// whether its credentials and endpoints are configured.
type Provider interface {
	Name() string
	// IsAvailable reports whether the provider is configured. It performs
	// no network calls.
	IsAvailable(ctx context.Context) bool
}

// Factory builds a provider from a key/value override map. A nil map means
// the provider's base configuration.
type Factory[T Provider] func(cfg map[string]any) (T, error)
