package stats

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"gatepass/pkg/platform/httputil"
	"gatepass/pkg/requestcontext"
)

// Handler wires the stats endpoint to the stats service.
type Handler struct {
	service *Service
	logger  *slog.Logger
}

// NewHandler constructs a stats handler with its dependencies.
func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the stats endpoint on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/stats", h.HandleOverview)
}

// HandleOverview handles GET /stats requests.
func (h *Handler) HandleOverview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.service.Overview(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to compute stats",
			"request_id", requestcontext.RequestID(r.Context()),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"success":       true,
		"stats":         overview.Stats,
		"summary":       overview.Summary,
		"notifications": overview.Notifications,
	})
}
