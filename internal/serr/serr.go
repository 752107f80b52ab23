// Package serr defines the service-level error type that carries an HTTP
// status and a caller-safe message across layer boundaries.
package serr

import (
	"errors"
	"fmt"
	"net/http"
)

// ServiceError wraps an underlying error with the HTTP status and public
// message a handler should translate it to. Errors holds optional
// field-level validation messages.
type ServiceError struct {
	Err        error
	StatusCode int
	Msg        string
	Errors     []string
}

// New creates a ServiceError wrapping err with the given status and message.
func New(err error, status int, msg string) *ServiceError {
	return &ServiceError{
		Err:        err,
		StatusCode: status,
		Msg:        msg,
	}
}

// Validation creates a 400 ServiceError carrying field-level messages.
func Validation(msg string, fieldErrs ...string) *ServiceError {
	return &ServiceError{
		StatusCode: http.StatusBadRequest,
		Msg:        msg,
		Errors:     fieldErrs,
	}
}

// Unauthorized creates a 401 ServiceError.
func Unauthorized(err error, msg string) *ServiceError {
	return New(err, http.StatusUnauthorized, msg)
}

// NotFound creates a 404 ServiceError. Absent and not-owned are deliberately
// indistinguishable so one user's data never leaks existence to another.
func NotFound(msg string) *ServiceError {
	return &ServiceError{StatusCode: http.StatusNotFound, Msg: msg}
}

// Error implements the error interface.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

// Unwrap exposes the wrapped error for errors.Is / errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// From extracts a ServiceError from err, or nil if there is none.
func From(err error) *ServiceError {
	var se *ServiceError
	if errors.As(err, &se) {
		return se
	}
	return nil
}
