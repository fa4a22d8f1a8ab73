package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/cihwallet/wallet-api/internal/pkg/logger"
)

const RequestIDHeader = "X-Request-ID"

// RequestID tags each request with an id and a request scoped logger.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}

		w.Header().Set(RequestIDHeader, requestID)
		ctx := logger.WithRequestID(r.Context(), requestID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
