// internal/web/respond.go
//
// JSON response envelope.
//
// Every API endpoint answers with the same shape:
//
//	{"success": true,  "data": …}
//	{"success": false, "error": "…"}
//
// List endpoints widen the success form with pagination fields; they build
// their own payload maps and go through JSON() directly.

package web

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// Envelope is the standard response body.
type Envelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// JSON writes v with the given status.  Encoding failures are logged; by
// then the status line is already on the wire, so there is nothing else to
// do.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("response encode failed", zap.Error(err))
	}
}

// OK writes a 200 success envelope wrapping data.
func OK(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, Envelope{Success: true, Data: data})
}

// Created writes a 201 success envelope wrapping data.
func Created(w http.ResponseWriter, data any) {
	JSON(w, http.StatusCreated, Envelope{Success: true, Data: data})
}

// Fail maps err through StatusOf and writes the failure envelope.  Untyped
// errors are logged at error level with the request path; the client only
// sees the generic message.
func Fail(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := StatusOf(err)
	if status == http.StatusInternalServerError {
		zap.L().Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	}
	JSON(w, status, Envelope{Success: false, Error: msg})
}
