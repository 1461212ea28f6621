// Package apperror is the typed error model shared by services and handlers.
package apperror

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ErrNoSession means the request carries no usable session. Handlers redirect
// to the login entry point instead of writing it as an error body.
var ErrNoSession = errors.New("no active session")

type Error struct {
	Status  int
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func newError(status int, code, message string, err error) *Error {
	return &Error{Status: status, Code: code, Message: message, Err: err}
}

// BadRequest is a client input error (400).
func BadRequest(message string) *Error {
	return newError(http.StatusBadRequest, "BAD_REQUEST", message, nil)
}

// Unauthorized is a rejected or unverifiable credential (401).
func Unauthorized(message string, err error) *Error {
	return newError(http.StatusUnauthorized, "UNAUTHORIZED", message, err)
}

// Unavailable is a backend (database, session store) failure (503).
func Unavailable(message string, err error) *Error {
	return newError(http.StatusServiceUnavailable, "UNAVAILABLE", message, err)
}

// Internal is anything else (500).
func Internal(message string, err error) *Error {
	return newError(http.StatusInternalServerError, "SERVER_ERROR", message, err)
}

// StatusOf maps err to an HTTP status. Untyped errors are 500.
func StatusOf(err error) int {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Status
	}
	if errors.Is(err, ErrNoSession) {
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}

// MessageOf returns the client-facing message for err. Untyped errors echo
// their own text.
func MessageOf(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}

// Write renders err as {"success": false, "error": message}.
func Write(w http.ResponseWriter, err error) {
	WriteJSON(w, StatusOf(err), map[string]any{
		"success": false,
		"error":   MessageOf(err),
	})
}

func WriteJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
