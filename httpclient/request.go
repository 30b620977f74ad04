package httpclient

import (
	"net/url"
	"time"
)

// Request describes an outbound HTTP request.
type Request struct {
	// Method is the HTTP method (GET, POST, PUT, PATCH, DELETE, etc).
	Method string
	// Path is appended to the client's BaseURL. Can be a full URL if BaseURL is empty.
	Path string
	// Headers are request-specific headers (merged with client defaults).
	Headers map[string]string
	// Query are URL query parameters.
	Query map[string]string
	// Body is the request body. Accepts *MultipartBody, url.Values (form
	// encoded), io.Reader, []byte, string, or any value that will be JSON-encoded.
	Body any
	// Auth overrides the client-level auth for this request.
	Auth *AuthConfig
	// Timeout, when positive, bounds this request tighter than the client timeout.
	Timeout time.Duration
}

// FormBody builds a url.Values body from alternating key-value pairs.
func FormBody(kvs ...string) url.Values {
	v := make(url.Values, len(kvs)/2)
	for i := 0; i < len(kvs)-1; i += 2 {
		v.Set(kvs[i], kvs[i+1])
	}
	return v
}

// Response is the result of an HTTP request.
type Response struct {
	// StatusCode is the HTTP status code.
	StatusCode int
	// Headers are the response headers.
	Headers map[string]string
	// Body is the raw response body.
	Body []byte
}
