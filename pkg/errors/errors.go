package errors

import (
	"fmt"
	"net/http"
)

// DefaultMessage is returned to clients when an error carries no message.
const DefaultMessage = "Internal server error, check console"

// StatusCoder is implemented by errors that know which HTTP status they map to.
type StatusCoder interface {
	StatusCode() int
}

// HTTPError is a request-level error carrying an HTTP status and a public message.
type HTTPError struct {
	Status  int
	Message string
	Err     error
}

// New creates an HTTPError with the given status and message.
func New(status int, message string) *HTTPError {
	return &HTTPError{Status: status, Message: message}
}

// Wrap creates an HTTPError that keeps err as its cause.
func Wrap(status int, message string, err error) *HTTPError {
	return &HTTPError{Status: status, Message: message, Err: err}
}

// NewNotFoundError creates a 404 error for an unmatched path.
func NewNotFoundError(path string) *HTTPError {
	return New(http.StatusNotFound, fmt.Sprintf("Not found: %s", path))
}

// NewInternalError creates a 500 error wrapping the underlying cause.
func NewInternalError(message string, err error) *HTTPError {
	return Wrap(http.StatusInternalServerError, message, err)
}

// Error implements the error interface
func (e *HTTPError) Error() string {
	if e.Err != nil && e.Message != "" {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *HTTPError) Unwrap() error {
	return e.Err
}

// StatusCode implements StatusCoder. A zero status means 500.
func (e *HTTPError) StatusCode() int {
	if e.Status == 0 {
		return http.StatusInternalServerError
	}
	return e.Status
}

// PublicMessage returns the message safe to expose to clients.
func (e *HTTPError) PublicMessage() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil && e.Err.Error() != "" {
		return e.Err.Error()
	}
	return DefaultMessage
}
