package middleware

import (
	"net/http"
	"time"

	"gatepass/pkg/requestcontext"
)

// RequestTime captures the current time at the start of the request and stores
// it in the context. All status and notification derivation within one request
// then shares a single "now", keeping day arithmetic consistent.
func RequestTime(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestcontext.WithTime(r.Context(), time.Now())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
