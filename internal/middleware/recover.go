package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/cihwallet/wallet-api/internal/pkg/errorhandler"
)

// Recover is a middleware that recovers from panics
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				errorhandler.HandlePanic(r.Context(), w, rec, string(debug.Stack()))
			}
		}()

		next.ServeHTTP(w, r)
	})
}
