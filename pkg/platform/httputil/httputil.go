// Package httputil writes JSON responses and error envelopes.
package httputil

import (
	"encoding/json"
	"errors"
	"net/http"

	"laurelid/pkg/platform/sentinel"
)

// Error is an HTTP-facing error with a stable code.
type Error struct {
	Status      int
	Code        string
	Description string
}

func (e *Error) Error() string {
	return e.Code + ": " + e.Description
}

func BadRequest(description string) *Error {
	return &Error{Status: http.StatusBadRequest, Code: "bad_request", Description: description}
}

func Unavailable(code, description string) *Error {
	return &Error{Status: http.StatusServiceUnavailable, Code: code, Description: description}
}

// WriteJSON encodes body with status.
func WriteJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// WriteError translates err into a JSON error envelope. Internal errors never
// expose their description.
func WriteError(w http.ResponseWriter, err error) {
	status, body := statusFor(err)
	WriteJSON(w, status, body)
}

func statusFor(err error) (int, map[string]string) {
	var httpErr *Error
	switch {
	case errors.As(err, &httpErr):
		return httpErr.Status, envelope(httpErr.Code, httpErr.Description)
	case errors.Is(err, sentinel.ErrBusy):
		return http.StatusConflict, envelope("busy", "verification in progress")
	case errors.Is(err, sentinel.ErrNotFound):
		return http.StatusNotFound, envelope("not_found", err.Error())
	case errors.Is(err, sentinel.ErrUnavailable):
		return http.StatusServiceUnavailable, envelope("unavailable", err.Error())
	case errors.Is(err, sentinel.ErrInvalidState):
		return http.StatusConflict, envelope("conflict", err.Error())
	default:
		return http.StatusInternalServerError, envelope("internal_error", "")
	}
}

func envelope(code, description string) map[string]string {
	body := map[string]string{"error": code}
	if description != "" {
		body["error_description"] = description
	}
	return body
}
