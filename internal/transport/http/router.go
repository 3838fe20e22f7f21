// Package httptransport assembles the HTTP surface: middleware chain, public
// session endpoints, and the authenticated badge API.
package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"gatepass/internal/platform/middleware"
	platformmetrics "gatepass/internal/platform/metrics"
	"gatepass/pkg/platform/httputil"
)

// Registrar is the contract every feature handler satisfies to mount its
// routes on the router.
type Registrar interface {
	Register(r chi.Router)
}

// Deps carries everything the router needs. Auth mounts outside the gate; the
// rest of the API requires a live session.
type Deps struct {
	Logger    *slog.Logger
	Metrics   *platformmetrics.Metrics
	Validator middleware.SessionValidator

	Auth          Registrar
	Badges        Registrar
	Notifications Registrar
	Stats         Registrar
	Contracts     Registrar
}

// NewRouter builds the chi router with the full middleware chain.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestTime)
	r.Use(middleware.Logger(deps.Logger))
	r.Use(middleware.Latency(deps.Metrics))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(api chi.Router) {
		deps.Auth.Register(api)

		api.Group(func(gated chi.Router) {
			gated.Use(middleware.RequireAuth(deps.Validator, deps.Logger))
			deps.Badges.Register(gated)
			deps.Notifications.Register(gated)
			deps.Stats.Register(gated)
			deps.Contracts.Register(gated)
		})
	})

	return r
}
