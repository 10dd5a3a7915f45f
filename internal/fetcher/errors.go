package fetcher

import (
	"errors"
	"fmt"
)

// Fetch failure taxonomy. Every fetch failure wraps exactly one of these,
// so callers can classify with errors.Is / errors.As without string
// matching. All variants are terminal: retry policy, if any, belongs to
// the caller, not the fetcher.
var (
	// ErrTimeout indicates the whole exchange exceeded the configured
	// wall-clock timeout, redirects included.
	ErrTimeout = errors.New("request timed out")

	// ErrTooManyRedirects indicates the redirect hop limit was exceeded.
	// This is a hard failure, never a silent truncation of the chain.
	ErrTooManyRedirects = errors.New("too many redirects")

	// ErrUnsupportedContentType indicates the response did not declare an
	// HTML media type. Non-document resources are rejected even if their
	// bytes would happen to parse as HTML.
	ErrUnsupportedContentType = errors.New("unsupported content type")

	// ErrContentTooLarge indicates the delivered body exceeded the size
	// limit. The body is discarded rather than truncated, because
	// truncated HTML produces misleading findings.
	ErrContentTooLarge = errors.New("content too large")
)

// HTTPStatusError indicates the server answered with an error status.
type HTTPStatusError struct {
	// StatusCode is the HTTP status code (>= 400).
	StatusCode int

	// Status is the full status line, e.g. "404 Not Found".
	Status string
}

// Error implements the error interface.
func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("HTTP %s", e.Status)
}

// NetworkError indicates a transport-level failure (DNS, connection
// refused, TLS, connection reset) distinct from timeouts and redirects.
type NetworkError struct {
	// Cause is the underlying transport error.
	Cause error
}

// Error implements the error interface.
func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Cause)
}

// Unwrap exposes the underlying cause to errors.Is / errors.As.
func (e *NetworkError) Unwrap() error {
	return e.Cause
}
