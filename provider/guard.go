package provider

import (
	stderrors "errors"

	"github.com/2mushr00m/dialLog/errors"
	"github.com/2mushr00m/dialLog/resilience"
)

// Guard runs fn through cb. A rejected call returns a PROVIDER_ERROR for
// name wrapping resilience.ErrCircuitOpen; fn's own errors pass through.
// A nil breaker calls fn directly.
func Guard[T any](cb *resilience.CircuitBreaker, name string, fn func() (T, error)) (T, error) {
	if cb == nil {
		return fn()
	}

	var result T
	var callErr error
	err := cb.Execute(func() error {
		result, callErr = fn()
		return callErr
	})
	if err != nil && callErr == nil && stderrors.Is(err, resilience.ErrCircuitOpen) {
		return result, errors.ProviderCause(name, "circuit breaker is open", err).
			WithDetail("reason", "circuit_open")
	}
	return result, err
}

// IsCircuitOpen reports whether err came from an open breaker.
func IsCircuitOpen(err error) bool {
	return stderrors.Is(err, resilience.ErrCircuitOpen)
}
