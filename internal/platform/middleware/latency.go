package middleware

import (
	"net/http"
	"time"

	"gatepass/internal/platform/metrics"
)

// Latency records per-request duration into the platform metrics.
func Latency(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if m == nil {
				next.ServeHTTP(w, r)
				return
			}
			start := time.Now()
			next.ServeHTTP(w, r)
			m.ObserveRequest(r.Method, time.Since(start))
		})
	}
}
