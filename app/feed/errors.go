package feed

import (
	"errors"
	"fmt"
)

// ErrInvalidEndpoint is matched by every *EndpointError.
var ErrInvalidEndpoint = errors.New("invalid endpoint")

type EndpointError struct {
	Endpoint string
	Reason   string
}

func (e *EndpointError) Error() string {
	return fmt.Sprintf("invalid endpoint '%s': %s", e.Endpoint, e.Reason)
}

func (e *EndpointError) Is(target error) bool {
	return target == ErrInvalidEndpoint
}

// TransportError wraps a network level failure (DNS, TLS, timeout, reset).
type TransportError struct {
	Endpoint string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("failed to fetch %s: %v", e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// DecodeError reports a response body whose outer envelope could not be parsed.
type DecodeError struct {
	Endpoint string
	Err      error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode response from %s: %v", e.Endpoint, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
