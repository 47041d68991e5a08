package tools

import (
	"errors"
	"fmt"
)

// ErrUnknownTool is reported when dispatch receives a name outside the registry.
var ErrUnknownTool = errors.New("Unknown tool")

// ErrNoRoutes is reported when the Routes API answers without any route.
var ErrNoRoutes = errors.New("No routes found.")

// ValidationError reports a caller-supplied argument that violates a
// documented constraint. The message names the constraint.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalidf(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// StatusError reports an upstream that answered at the transport level but
// with a non-OK domain status.
type StatusError struct {
	Prefix  string // e.g. "Geocoding failed"
	Status  string // upstream status, e.g. "ZERO_RESULTS"
	Message string // upstream error_message, if any
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return e.Prefix + ": " + e.Message
	}
	return e.Prefix + ": " + e.Status
}

// RequestError wraps a transport, HTTP status or decoding failure with the
// operation prefix of the tool that hit it.
type RequestError struct {
	Prefix string // e.g. "Geocoding request failed"
	Err    error
}

func (e *RequestError) Error() string {
	return e.Prefix + ": " + e.Err.Error()
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// googleStatus is embedded in every Maps Platform web service response.
type googleStatus struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message,omitempty"`
}

func (g googleStatus) check(prefix string) error {
	if g.Status == "OK" {
		return nil
	}
	return &StatusError{Prefix: prefix, Status: g.Status, Message: g.ErrorMessage}
}
