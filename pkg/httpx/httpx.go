// Package httpx holds the small helpers shared by the HTTP handlers.
package httpx

import (
	"encoding/json"
	"errors"
	"net/http"
)

// HandlerFunc is a function that handles HTTP requests and may return an error
type HandlerFunc func(w http.ResponseWriter, r *http.Request) error

// statusError attaches an HTTP status code to an error
type statusError struct {
	status int
	err    error
}

func (e *statusError) Error() string   { return e.err.Error() }
func (e *statusError) Unwrap() error   { return e.err }
func (e *statusError) StatusCode() int { return e.status }

// WithStatus marks err to be reported with the given status code.
// A nil err stays nil.
func WithStatus(status int, err error) error {
	if err == nil {
		return nil
	}
	return &statusError{status: status, err: err}
}

// StatusOf returns the status code carried by err, or 500 when there is none.
func StatusOf(err error) int {
	var sc interface{ StatusCode() int }
	if errors.As(err, &sc) {
		return sc.StatusCode()
	}
	return http.StatusInternalServerError
}

// Wrap converts a HandlerFunc to an http.HandlerFunc by handling errors
func Wrap(fn HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := fn(w, r); err != nil {
			Error(w, StatusOf(err), err.Error())
		}
	}
}

// JSON writes a JSON response with the given status code
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// Error writes a JSON error response with the given status code and message
func Error(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, map[string]string{"error": msg})
}
