package engine

import (
	"errors"
	"fmt"
)

// Sentinel errors for programmatic handling with errors.Is.
var (
	// ErrJobFailed is returned when a processing job reaches the failed state.
	ErrJobFailed = errors.New("processing job failed")

	// ErrJobTimeout is returned when a job does not reach a terminal state
	// before the polling deadline expires.
	ErrJobTimeout = errors.New("timed out waiting for job completion")

	// ErrNotFound is returned for HTTP 404 responses, wrapped in a
	// StatusError. Use errors.Is(err, ErrNotFound) to detect it.
	ErrNotFound = errors.New("resource not found")
)

// StatusError is returned when the engine responds with a non-2xx status.
// It carries the status code and endpoint so checks can assert on expected
// rejections (e.g., 400 for malformed payloads) as well as report failures.
type StatusError struct {
	// Code is the HTTP status code.
	Code int

	// Endpoint is the API path that produced the response.
	Endpoint string

	// Body is a truncated copy of the response body for diagnostics.
	Body string
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	return fmt.Sprintf("engine returned HTTP %d for %s", e.Code, e.Endpoint)
}

// Unwrap maps 404 responses to ErrNotFound so callers can use errors.Is
// without inspecting status codes.
func (e *StatusError) Unwrap() error {
	if e.Code == 404 {
		return ErrNotFound
	}
	return nil
}

// DecodeError is returned when a response body cannot be parsed as the
// expected JSON shape. Malformed responses are engine defects, so checks
// treat them differently from transport errors.
type DecodeError struct {
	// Endpoint is the API path that produced the response.
	Endpoint string

	// Err is the underlying JSON decoding error.
	Err error
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	return fmt.Sprintf("malformed response from %s: %v", e.Endpoint, e.Err)
}

// Unwrap returns the underlying decoding error.
func (e *DecodeError) Unwrap() error {
	return e.Err
}
