package scout

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors.
var (
	// ErrTransport wraps network-level failures (DNS, connect, timeout, TLS).
	ErrTransport = errors.New("request to Scout API failed")

	// ErrUnauthorized matches an HTTPError with status 401.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidArgument is returned before any request for values the API would reject.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInvalidURL is returned by ParseURL.
	ErrInvalidURL = errors.New("invalid Scout URL")
)

const (
	msgAuthFailed    = "Authentication failed. Check your API key."
	msgRequestFailed = "API request failed"
	msgUnknownError  = "Unknown API error"
)

// HTTPError is a non-success answer from the API, either by HTTP status or by the
// status code inside the response envelope.
type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.Status, e.Message)
}

// Unwrap lets errors.Is(err, ErrUnauthorized) match 401 responses.
func (e *HTTPError) Unwrap() error {
	if e.Status == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	return nil
}

// DecodeError is a successful response whose body could not be decoded.
type DecodeError struct {
	Status int
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding Scout API response (HTTP %d): %v", e.Status, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

func invalidArgument(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}
