// Package apperror defines the failure taxonomy shared by the request
// pipeline and the HTTP handlers. Every user-visible failure is an *Error
// carrying a stable status code, a message and optional structured data.
package apperror

import (
	"errors"
	"net/http"
)

// Error is a client-facing failure.
type Error struct {
	Status  int
	Message string
	Data    any
	// Cause is logged server side and never rendered in production.
	Cause error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Cause }

// Unauthenticated is returned when no valid identity can be established.
func Unauthenticated(message string) *Error {
	return &Error{Status: http.StatusUnauthorized, Message: message}
}

// Forbidden is returned when the identity lacks the required role.
func Forbidden(message string) *Error {
	return &Error{Status: http.StatusForbidden, Message: message}
}

// BadRequest is returned for malformed or invalid input. data may carry the
// violation list.
func BadRequest(message string, data any) *Error {
	return &Error{Status: http.StatusBadRequest, Message: message, Data: data}
}

func Conflict(message string) *Error {
	return &Error{Status: http.StatusConflict, Message: message}
}

func NotFound(message string) *Error {
	return &Error{Status: http.StatusNotFound, Message: message}
}

// Internal wraps an unexpected failure behind a generic message.
func Internal(cause error) *Error {
	return &Error{Status: http.StatusInternalServerError, Message: "internal server error", Cause: cause}
}

// From converts any error into an *Error. Errors that are not already part
// of the taxonomy become Internal.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal(err)
}
