package storeapi

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig is returned when the client configuration is incomplete
	ErrInvalidConfig = errors.New("invalid store api configuration")

	// ErrNetwork is returned when the request never produced an HTTP response
	ErrNetwork = errors.New("network error")

	// ErrHTTPStatus is returned for non-2xx responses
	ErrHTTPStatus = errors.New("unexpected http status")

	// ErrUnauthorized is returned for 401 responses
	ErrUnauthorized = errors.New("unauthorized")

	// ErrRejected is returned when the server answered 2xx with status=false
	ErrRejected = errors.New("request rejected by server")

	// ErrDecode is returned when the response body is not the expected JSON
	ErrDecode = errors.New("failed to decode response")
)

// APIError carries the server's own message for a failed call.
type APIError struct {
	StatusCode int
	Message    string
	Path       string
	kind       error
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: %s (status %d)", e.kind, e.Path, e.StatusCode)
	}
	return fmt.Sprintf("%s: %s (status %d): %s", e.kind, e.Path, e.StatusCode, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.kind
}

// MessageOf returns the server-provided message carried by err, or "".
func MessageOf(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return ""
}
