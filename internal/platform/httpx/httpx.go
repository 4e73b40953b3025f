// Package httpx holds the JSON response helpers and middleware shared by
// every module handler.
package httpx

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/georgemunganga/canteen-backend/internal/apperr"
	"github.com/georgemunganga/canteen-backend/internal/platform/logger"
	"github.com/go-chi/chi/v5/middleware"
)

// Respond writes body as JSON with the given status.
func Respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// StatusOf maps an error to its HTTP status.
func StatusOf(err error) int {
	switch apperr.KindOf(err) {
	case apperr.KindValidation, apperr.KindConflict:
		return http.StatusBadRequest
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindUnauthorized:
		return http.StatusUnauthorized
	case apperr.KindTooLarge:
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}

// Error writes err as {"message": ...}. Unclassified errors are logged and
// replaced by a generic message; upstream errors carry the provider's text.
func Error(w http.ResponseWriter, r *http.Request, log *logger.Logger, err error) {
	status := StatusOf(err)
	body := map[string]string{"message": apperr.Message(err)}

	switch apperr.KindOf(err) {
	case apperr.KindUpstream:
		log.Error("upstream provider error", "request_id", middleware.GetReqID(r.Context()), "error", err)
		var ae *apperr.Error
		if errors.As(err, &ae) && ae.Err != nil {
			body["error"] = ae.Err.Error()
		}
	case apperr.KindInternal:
		log.Error("request failed", "request_id", middleware.GetReqID(r.Context()),
			"method", r.Method, "path", r.URL.Path, "error", err)
		body["message"] = "server error"
	}
	Respond(w, status, body)
}

// RequestLogger logs one line per request with status and duration.
func RequestLogger(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			args := []any{
				"request_id", middleware.GetReqID(r.Context()),
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"bytes", ww.BytesWritten(),
				"duration_ms", time.Since(start).Milliseconds(),
			}
			switch {
			case status >= 500:
				log.Error("http request", args...)
			case status >= 400:
				log.Warn("http request", args...)
			default:
				log.Info("http request", args...)
			}
		})
	}
}
