package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Error codes used across the service.
const (
	CodeBadRequest   = "BAD_REQUEST"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeNotFound     = "NOT_FOUND"
	CodeConflict     = "CONFLICT"
	CodeInternal     = "INTERNAL_SERVER_ERROR"
)

// internalMessage is the only text an unclassified failure ever exposes.
const internalMessage = "An unexpected error occurred"

// Error is a typed domain failure that knows how to present itself on the
// wire. Handlers and services raise these; WriteError is the single place
// that turns them into an HTTP response.
type Error struct {
	StatusCode int    `json:"-"`
	Code       string `json:"code"`
	Message    string `json:"message"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// BadRequest reports malformed input, an invalid role string, an invalid
// subject identifier or a missing required field.
func BadRequest(format string, args ...any) *Error {
	return &Error{
		StatusCode: http.StatusBadRequest,
		Code:       CodeBadRequest,
		Message:    fmt.Sprintf(format, args...),
	}
}

// Unauthorized reports a missing, malformed, expired or otherwise invalid
// credential.
func Unauthorized(format string, args ...any) *Error {
	return &Error{
		StatusCode: http.StatusUnauthorized,
		Code:       CodeUnauthorized,
		Message:    fmt.Sprintf(format, args...),
	}
}

// Forbidden reports a failed role/ownership/custom check or a disabled
// account.
func Forbidden(format string, args ...any) *Error {
	return &Error{
		StatusCode: http.StatusForbidden,
		Code:       CodeForbidden,
		Message:    fmt.Sprintf(format, args...),
	}
}

// NotFound reports an absent subject or resource.
func NotFound(format string, args ...any) *Error {
	return &Error{
		StatusCode: http.StatusNotFound,
		Code:       CodeNotFound,
		Message:    fmt.Sprintf(format, args...),
	}
}

// Conflict reports a request that is valid on its own but clashes with the
// current state of the resource, e.g. a backward loan status transition.
func Conflict(format string, args ...any) *Error {
	return &Error{
		StatusCode: http.StatusConflict,
		Code:       CodeConflict,
		Message:    fmt.Sprintf(format, args...),
	}
}

// Internal reports an unclassified failure. The message is logged server
// side by the caller but never written to the client.
func Internal(format string, args ...any) *Error {
	return &Error{
		StatusCode: http.StatusInternalServerError,
		Code:       CodeInternal,
		Message:    fmt.Sprintf(format, args...),
	}
}

// WriteError translates any error into the uniform error envelope. Typed
// *Error values pass through with their declared message, code and status.
// Everything else becomes a generic 500 with a fixed public message so
// internal detail never leaks.
func WriteError(w http.ResponseWriter, err error) {
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		apiErr = &Error{
			StatusCode: http.StatusInternalServerError,
			Code:       CodeInternal,
			Message:    internalMessage,
		}
	}

	// Internal errors keep their real message server side only.
	msg := apiErr.Message
	if apiErr.Code == CodeInternal {
		msg = internalMessage
	}

	stamp := nowStamp()
	writeJSON(w, apiErr.StatusCode, ErrorResponse{
		Success: false,
		Error: ErrorDetail{
			Message:    msg,
			Code:       apiErr.Code,
			StatusCode: apiErr.StatusCode,
			Timestamp:  stamp,
		},
		Timestamp: stamp,
	})
}

// WriteSuccess wraps data in the success envelope.
func WriteSuccess(w http.ResponseWriter, code int, message string, data any) {
	writeJSON(w, code, SuccessResponse{
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: nowStamp(),
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
