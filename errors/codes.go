package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Pipeline errors
const (
	// ErrCodeAuth indicates the token exchange failed or a provider rejected
	// the credential twice in a row.
	ErrCodeAuth ErrorCode = "AUTH_FAILED"
	// ErrCodeProvider indicates a non-2xx or unparseable provider response.
	ErrCodeProvider ErrorCode = "PROVIDER_ERROR"
	// ErrCodeTimeout indicates a client timeout or an exhausted poll loop.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
	// ErrCodeInterrupted indicates the caller cancelled the request.
	ErrCodeInterrupted ErrorCode = "INTERRUPTED"
	// ErrCodeCache indicates a cache read or write failure. Never fatal.
	ErrCodeCache ErrorCode = "CACHE_ERROR"
)

// Input and internal errors
const (
	// ErrCodeInvalidInput indicates the input is invalid.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeNotFound indicates a referenced file or engine does not exist.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeInternal indicates an unexpected failure.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeTimeout:  true,
	ErrCodeProvider: true,
	ErrCodeCache:    false,
	ErrCodeAuth:     false,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
