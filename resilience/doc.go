// Package resilience provides the backoff state machine that drives
// long-running operation polling, a context-aware Poll loop built on it,
// and a circuit breaker used to stop calling an engine that keeps failing.
package resilience
