package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"gatepass/pkg/requestcontext"
)

// SessionCookieName is the cookie carrying the signed session token.
const SessionCookieName = "gatepass_session"

// Principal is the authenticated identity extracted from a session token.
type Principal struct {
	Username  string
	Role      string
	SessionID string
}

// SessionValidator checks a session token and returns the principal it belongs
// to. Implementations verify both the token signature and that the session is
// still live (not logged out).
type SessionValidator interface {
	Validate(ctx context.Context, token string) (*Principal, error)
}

// RequireAuth gates a route group on a valid session cookie, mirroring the
// session-based access model of the badge frontend.
func RequireAuth(validator SessionValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			cookie, err := r.Cookie(SessionCookieName)
			if err != nil || cookie.Value == "" {
				logger.WarnContext(ctx, "unauthorized access - missing session cookie",
					"request_id", requestcontext.RequestID(ctx),
					"path", r.URL.Path,
				)
				writeUnauthorized(w, "Authentication required")
				return
			}

			principal, err := validator.Validate(ctx, cookie.Value)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid session",
					"request_id", requestcontext.RequestID(ctx),
					"error", err,
				)
				writeUnauthorized(w, "Invalid or expired session")
				return
			}

			ctx = requestcontext.WithUser(ctx, principal.Username, principal.Role)
			ctx = requestcontext.WithSessionID(ctx, principal.SessionID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeUnauthorized(w http.ResponseWriter, description string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"unauthorized","error_description":"` + description + `"}`))
}
