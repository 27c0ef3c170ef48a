package graphql

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
)

// Location points at a position in the query document.
type Location struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Error is one entry of a response's "errors" array.
type Error struct {
	Message    string         `json:"message"`
	Path       []any          `json:"path,omitempty"`
	Locations  []Location     `json:"locations,omitempty"`
	Extensions map[string]any `json:"extensions,omitempty"`
}

// Classification returns extensions.classification when the server set it.
func (e Error) Classification() string {
	s, _ := e.Extensions["classification"].(string)
	return s
}

// NetworkError reports that no usable GraphQL response was received.
type NetworkError struct {
	Operation  string
	Endpoint   string
	StatusCode int
	Err        error
}

func (e *NetworkError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: request to %s failed", e.Operation, e.Endpoint)
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, " (HTTP %d)", e.StatusCode)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *NetworkError) Unwrap() error { return e.Err }

// Timeout reports whether the request failed because a deadline passed.
func (e *NetworkError) Timeout() bool {
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(e.Err, &ne) && ne.Timeout()
}

// ServerError carries the errors payload of a GraphQL response.
type ServerError struct {
	Operation string
	Errors    []Error
}

// Error reports the first message, which is what users are shown.
func (e *ServerError) Error() string {
	if len(e.Errors) == 0 {
		return e.Operation + ": server returned an empty error list"
	}
	return e.Errors[0].Message
}

// Messages returns every error message in order.
func (e *ServerError) Messages() []string {
	out := make([]string, 0, len(e.Errors))
	for _, ge := range e.Errors {
		out = append(out, ge.Message)
	}
	return out
}

// IsNetwork reports whether err is or wraps a *NetworkError.
func IsNetwork(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}

// IsServer reports whether err is or wraps a *ServerError.
func IsServer(err error) bool {
	var se *ServerError
	return errors.As(err, &se)
}
