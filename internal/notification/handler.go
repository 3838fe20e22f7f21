package notification

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"gatepass/pkg/platform/httputil"
	"gatepass/pkg/requestcontext"
)

// Handler wires notification endpoints to the notification service.
type Handler struct {
	service *Service
	logger  *slog.Logger
}

// NewHandler constructs a notification handler with its dependencies.
func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts notification endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/notifications", h.HandleList)
	r.Post("/notifications/resolve", h.HandleResolve)
	r.Post("/notifications/acknowledge-new", h.HandleAcknowledgeNew)
	r.Post("/notifications/clear-all", h.HandleClearAll)
}

// HandleList handles GET /notifications requests.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	feed, err := h.service.Derive(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to derive notifications",
			"request_id", requestcontext.RequestID(r.Context()),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	if feed.Notifications == nil {
		feed.Notifications = []Notification{}
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"success":       true,
		"notifications": feed.Notifications,
		"summary":       feed.Summary,
		"last_updated":  feed.LastUpdated,
	})
}

type resolveRequest struct {
	BadgeNum string `json:"badge_num"`
	Type     string `json:"type"`
}

// HandleResolve handles POST /notifications/resolve requests.
func (h *Handler) HandleResolve(w http.ResponseWriter, r *http.Request) {
	req, err := httputil.Decode[resolveRequest](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	already, err := h.service.Resolve(r.Context(), req.BadgeNum, req.Type)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"success":          true,
		"already_resolved": already,
	})
}

type acknowledgeRequest struct {
	BadgeNum string `json:"badge_num"`
}

// HandleAcknowledgeNew handles POST /notifications/acknowledge-new requests.
func (h *Handler) HandleAcknowledgeNew(w http.ResponseWriter, r *http.Request) {
	req, err := httputil.Decode[acknowledgeRequest](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.service.AcknowledgeNew(r.Context(), req.BadgeNum); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"success": true})
}

// HandleClearAll handles POST /notifications/clear-all requests.
func (h *Handler) HandleClearAll(w http.ResponseWriter, r *http.Request) {
	if err := h.service.ClearAll(r.Context()); err != nil {
		httputil.WriteError(w, err)
		return
	}
	h.logger.InfoContext(r.Context(), "notifications cleared",
		"request_id", requestcontext.RequestID(r.Context()),
		"cleared_by", requestcontext.Username(r.Context()),
	)
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"success": true})
}
