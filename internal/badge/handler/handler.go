package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"gatepass/internal/badge/models"
	"gatepass/internal/badge/service"
	dErrors "gatepass/pkg/domain-errors"
	"gatepass/pkg/platform/httputil"
	"gatepass/pkg/requestcontext"
)

// Service defines the badge operations the HTTP layer needs.
type Service interface {
	Create(ctx context.Context, b models.Badge) error
	Get(ctx context.Context, kind models.Kind, badgeNum string) (service.BadgeView, error)
	List(ctx context.Context, kind models.Kind) ([]service.BadgeView, error)
	Update(ctx context.Context, kind models.Kind, badgeNum string, b models.Badge) error
	Delete(ctx context.Context, kind models.Kind, badgeNum string) error
	Count(ctx context.Context, kind models.Kind) (int, error)
	Search(ctx context.Context, query string) ([]models.Badge, error)
}

// Handler wires badge CRUD and search endpoints to the badge service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a badge handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts badge endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/search", h.HandleSearch)
	r.Route("/badges/{kind}", func(r chi.Router) {
		r.Get("/", h.HandleList)
		r.Post("/", h.HandleCreate)
		r.Get("/count", h.HandleCount)
		r.Get("/{badgeNum}", h.HandleGet)
		r.Put("/{badgeNum}", h.HandleUpdate)
		r.Delete("/{badgeNum}", h.HandleDelete)
	})
}

func parseKind(r *http.Request) (models.Kind, error) {
	kind := models.Kind(chi.URLParam(r, "kind"))
	switch kind {
	case models.KindPermanent, models.KindTemporary, models.KindRecovered:
		return kind, nil
	}
	return "", dErrors.New(dErrors.CodeNotFound, "unknown badge type")
}

// HandleList handles GET /badges/{kind} requests.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	kind, err := parseKind(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	views, err := h.service.List(r.Context(), kind)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to list badges",
			"request_id", requestcontext.RequestID(r.Context()),
			"kind", kind,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"badges":  views,
	})
}

// HandleCreate handles POST /badges/{kind} requests.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	kind, err := parseKind(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	b, err := httputil.Decode[models.Badge](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	b.Kind = kind

	if err := h.service.Create(r.Context(), b); err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "badge created",
		"request_id", requestcontext.RequestID(r.Context()),
		"kind", kind,
		"badge_num", b.BadgeNum,
	)
	httputil.WriteJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"message": "badge added",
	})
}

// HandleGet handles GET /badges/{kind}/{badgeNum} requests.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	kind, err := parseKind(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	view, err := h.service.Get(r.Context(), kind, chi.URLParam(r, "badgeNum"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"badge":   view,
	})
}

// HandleUpdate handles PUT /badges/{kind}/{badgeNum} requests.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	kind, err := parseKind(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	badgeNum := chi.URLParam(r, "badgeNum")
	b, err := httputil.Decode[models.Badge](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.service.Update(r.Context(), kind, badgeNum, b); err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "badge updated",
		"request_id", requestcontext.RequestID(r.Context()),
		"kind", kind,
		"badge_num", badgeNum,
	)
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "badge updated",
	})
}

// HandleDelete handles DELETE /badges/{kind}/{badgeNum} requests.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	kind, err := parseKind(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	badgeNum := chi.URLParam(r, "badgeNum")

	if err := h.service.Delete(r.Context(), kind, badgeNum); err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(r.Context(), "badge deleted",
		"request_id", requestcontext.RequestID(r.Context()),
		"kind", kind,
		"badge_num", badgeNum,
	)
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "badge deleted",
	})
}

// HandleCount handles GET /badges/{kind}/count requests.
func (h *Handler) HandleCount(w http.ResponseWriter, r *http.Request) {
	kind, err := parseKind(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	count, err := h.service.Count(r.Context(), kind)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"count":   count,
	})
}

// HandleSearch handles GET /search?query= requests.
func (h *Handler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	results, err := h.service.Search(r.Context(), r.URL.Query().Get("query"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if results == nil {
		results = []models.Badge{}
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"results": results,
	})
}
