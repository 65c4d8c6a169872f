// Package apierr defines the closed error taxonomy the optimizer surfaces
// at its boundary: validation, constraint, timeout, and internal failures,
// each with a stable code and HTTP status.
package apierr

import (
	"errors"
	"fmt"
)

// Code is a stable machine-readable error identifier.
type Code string

const (
	CodeValidation Code = "VALIDATION_ERROR"
	CodeConstraint Code = "CONSTRAINT_ERROR"
	CodeTimeout    Code = "TIMEOUT"
	CodeInternal   Code = "INTERNAL"
)

// Error is the concrete error type returned across the optimizer boundary.
// It carries the HTTP status the transport layer should use and an
// optional structured details payload (e.g. offending field paths).
type Error struct {
	StatusCode int
	ErrorCode  Code
	Message    string
	Details    map[string]any
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.ErrorCode, e.Message)
}

// Validation builds a 422 VALIDATION_ERROR.
func Validation(message string, details map[string]any) *Error {
	return &Error{StatusCode: 422, ErrorCode: CodeValidation, Message: message, Details: details}
}

// Validationf builds a 422 VALIDATION_ERROR with a formatted message.
func Validationf(format string, args ...any) *Error {
	return Validation(fmt.Sprintf(format, args...), nil)
}

// Constraint builds a 400 CONSTRAINT_ERROR.
func Constraint(message string) *Error {
	return &Error{StatusCode: 400, ErrorCode: CodeConstraint, Message: message}
}

// Timeout builds a 408 TIMEOUT. An empty message defaults to the standard
// wording used across the service.
func Timeout(message string) *Error {
	if message == "" {
		message = "Time limit exceeded"
	}
	return &Error{StatusCode: 408, ErrorCode: CodeTimeout, Message: message}
}

// Internal builds a 500 INTERNAL. An empty message defaults to the
// standard wording used across the service.
func Internal(message string) *Error {
	if message == "" {
		message = "Internal error"
	}
	return &Error{StatusCode: 500, ErrorCode: CodeInternal, Message: message}
}

// AsAPIError unwraps err into an *Error, wrapping any other error kind as
// an internal failure so the transport layer always has a status to use.
func AsAPIError(err error) *Error {
	if err == nil {
		return nil
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return Internal(err.Error())
}
