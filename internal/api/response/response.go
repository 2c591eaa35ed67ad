// Package response writes the uniform {status, message, data} envelope used
// by every endpoint, success or failure.
package response

import (
	"encoding/json"
	"net/http"
	"runtime/debug"
	"sync/atomic"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/isdelr/taskboard-be/internal/apperror"
	"github.com/rs/zerolog/log"
)

// Envelope is the body of every JSON response.
type Envelope struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

var exposeDetail atomic.Bool

// ExposeInternalDetail controls whether the cause of internal errors is put
// into the response data. It must stay off in production.
func ExposeInternalDetail(on bool) {
	exposeDetail.Store(on)
}

// Write writes an envelope with the given status.
func Write(w http.ResponseWriter, status int, message string, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(Envelope{Status: status, Message: message, Data: data}); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

// Success writes a 200 envelope.
func Success(w http.ResponseWriter, message string, data any) {
	Write(w, http.StatusOK, message, data)
}

// Created writes a 201 envelope.
func Created(w http.ResponseWriter, message string, data any) {
	Write(w, http.StatusCreated, message, data)
}

// NoContent writes an empty 204.
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// Error writes err as an envelope. Errors outside the apperror taxonomy are
// logged and rendered as a generic 500.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	appErr := apperror.From(err)
	data := appErr.Data

	if appErr.Status >= http.StatusInternalServerError {
		log.Error().
			Err(err).
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("path", r.URL.Path).
			Msg("Request failed")
		if exposeDetail.Load() && appErr.Cause != nil {
			data = appErr.Cause.Error()
		}
	}

	Write(w, appErr.Status, appErr.Message, data)
}

// Recoverer turns a panic in a downstream handler into a 500 envelope.
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				log.Error().
					Interface("panic", rec).
					Str("stack", string(debug.Stack())).
					Str("request_id", middleware.GetReqID(r.Context())).
					Msg("PANIC recovered")
				Write(w, http.StatusInternalServerError, "internal server error", nil)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// NotFound is used for unmatched routes.
func NotFound(w http.ResponseWriter, r *http.Request) {
	Write(w, http.StatusNotFound, "resource not found", nil)
}

// MethodNotAllowed is used for matched routes with an unsupported method.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	Write(w, http.StatusMethodNotAllowed, "method not allowed", nil)
}
