// Package middleware contains HTTP middleware for the pipewatch API.
package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"pipewatch/internal/logger"
)

// RequestID assigns every request a correlation ID, available to
// handlers via the logger context and echoed in the response header.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}

		w.Header().Set("X-Request-ID", requestID)

		ctx := logger.WithRequestID(r.Context(), requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
