package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"unicode/utf8"
)

// MaxBodyLength bounds the upstream response body kept on an error.
const MaxBodyLength = 512

// AppError is the unified application error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates if the operation can be retried.
	Retryable bool `json:"retryable"`
	// HTTPStatus is the upstream HTTP status, 0 when no response was received.
	HTTPStatus int `json:"status,omitempty"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// Is reports whether target is an *AppError with the same code, so that
// errors.Is(err, errors.New(ErrCodeTimeout, "", 0)) matches any timeout.
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !stderrors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// Body returns the truncated upstream body, if any.
func (e *AppError) Body() string {
	if b, ok := e.Details["body"].(string); ok {
		return b
	}
	return ""
}

// New creates a new AppError with automatic retryable detection.
func New(code ErrorCode, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Retryable:  IsRetryableCode(code),
	}
}

// TruncateBody shortens an upstream body to at most MaxBodyLength bytes,
// cutting on a rune boundary.
func TruncateBody(body string) string {
	if len(body) <= MaxBodyLength {
		return body
	}
	cut := MaxBodyLength
	for cut > 0 && !utf8.RuneStart(body[cut]) {
		cut--
	}
	return body[:cut] + "...(truncated)"
}

// --- Constructors ---

// Auth creates an AppError for a rejected token exchange or credential.
func Auth(status int, body string) *AppError {
	e := &AppError{
		Code:       ErrCodeAuth,
		Message:    fmt.Sprintf("authentication failed with status %d", status),
		HTTPStatus: status,
	}
	if body != "" {
		e.WithDetail("body", TruncateBody(body))
	}
	return e
}

// AuthCause creates an AppError for an auth failure without an HTTP response.
func AuthCause(message string, cause error) *AppError {
	return &AppError{Code: ErrCodeAuth, Message: message, Cause: cause}
}

// Provider creates an AppError for a non-2xx provider response.
func Provider(name string, status int, body string) *AppError {
	e := &AppError{
		Code:       ErrCodeProvider,
		Message:    fmt.Sprintf("%s returned status %d", name, status),
		HTTPStatus: status,
		Retryable:  status >= http.StatusInternalServerError || status == http.StatusTooManyRequests,
		Details:    map[string]any{"provider": name},
	}
	if body != "" {
		e.Details["body"] = TruncateBody(body)
	}
	return e
}

// ProviderCause creates an AppError for a provider response that could not
// be used, such as a malformed body or an operation error field.
func ProviderCause(name, message string, cause error) *AppError {
	return &AppError{
		Code:    ErrCodeProvider,
		Message: fmt.Sprintf("%s: %s", name, message),
		Details: map[string]any{"provider": name},
		Cause:   cause,
	}
}

// Timeout creates a new AppError for an operation that timed out.
func Timeout(operation string) *AppError {
	return &AppError{
		Code: ErrCodeTimeout, Message: fmt.Sprintf("%s timed out", operation),
		Retryable: true,
		Details:   map[string]any{"operation": operation},
	}
}

// Interrupted creates an AppError for an operation cancelled by the caller.
func Interrupted(operation string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeInterrupted, Message: fmt.Sprintf("%s interrupted", operation),
		Details: map[string]any{"operation": operation}, Cause: cause,
	}
}

// Cache creates an AppError for a failed cache operation.
func Cache(operation string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeCache, Message: fmt.Sprintf("cache %s failed", operation),
		Details: map[string]any{"operation": operation}, Cause: cause,
	}
}

// InvalidInput creates a new AppError for invalid input.
func InvalidInput(field, reason string) *AppError {
	details := make(map[string]any)
	if field != "" {
		details["field"] = field
	}
	return &AppError{
		Code: ErrCodeInvalidInput, Message: fmt.Sprintf("invalid input: %s", reason),
		Details: details,
	}
}

// Validation creates a new AppError for validation errors.
func Validation(message string) *AppError {
	return &AppError{Code: ErrCodeInvalidInput, Message: message}
}

// NotFound creates a new AppError for a missing resource.
func NotFound(resource, id string) *AppError {
	details := map[string]any{"resource": resource}
	if id != "" {
		details["id"] = id
	}
	return &AppError{
		Code: ErrCodeNotFound, Message: fmt.Sprintf("%s not found", resource),
		Details: details,
	}
}

// Internal creates a new AppError for an unexpected failure.
func Internal(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInternal, Message: "unexpected error", Cause: cause,
	}
}

// --- Inspection ---

// AsAppError extracts an *AppError from err's chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// CodeOf returns the code of the first *AppError in err's chain, or "".
func CodeOf(err error) ErrorCode {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code
	}
	return ""
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code ErrorCode) bool { return err != nil && CodeOf(err) == code }

// IsAuth reports whether err is an auth failure.
func IsAuth(err error) bool { return IsCode(err, ErrCodeAuth) }

// IsProvider reports whether err is a provider failure.
func IsProvider(err error) bool { return IsCode(err, ErrCodeProvider) }

// IsTimeout reports whether err is a timeout.
func IsTimeout(err error) bool { return IsCode(err, ErrCodeTimeout) }

// IsInterrupted reports whether err is a caller cancellation.
func IsInterrupted(err error) bool { return IsCode(err, ErrCodeInterrupted) }

// IsCache reports whether err is a cache failure.
func IsCache(err error) bool { return IsCode(err, ErrCodeCache) }
