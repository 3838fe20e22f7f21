package contract

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"

	"gatepass/internal/badge/models"
	dErrors "gatepass/pkg/domain-errors"
	"gatepass/pkg/platform/httputil"
	"gatepass/pkg/requestcontext"
)

// Upload size cap. Contracts are single scanned PDFs; anything larger is a
// client mistake.
const maxUploadBytes = 16 << 20

// BadgeService is the slice of the badge service the contract endpoints need.
type BadgeService interface {
	AttachContract(ctx context.Context, kind models.Kind, badgeNum, path string) error
	ContractPath(ctx context.Context, kind models.Kind, badgeNum string) (string, error)
}

// Handler wires contract upload and download to disk storage and the badge
// record.
type Handler struct {
	badges  BadgeService
	storage *Storage
	logger  *slog.Logger
}

// NewHandler constructs a contract handler with its dependencies.
func NewHandler(badges BadgeService, storage *Storage, logger *slog.Logger) *Handler {
	return &Handler{badges: badges, storage: storage, logger: logger}
}

// Register mounts contract endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/badges/{kind}/{badgeNum}/contract", h.HandleUpload)
	// Clients that replace an existing contract use PUT; same semantics.
	r.Put("/badges/{kind}/{badgeNum}/contract", h.HandleUpload)
	r.Get("/badges/{kind}/{badgeNum}/contract", h.HandleDownload)
}

func parseKind(r *http.Request) (models.Kind, error) {
	kind := models.Kind(chi.URLParam(r, "kind"))
	switch kind {
	case models.KindPermanent, models.KindTemporary, models.KindRecovered:
		return kind, nil
	}
	return "", dErrors.New(dErrors.CodeNotFound, "unknown badge type")
}

// HandleUpload handles POST /badges/{kind}/{badgeNum}/contract multipart
// requests carrying one PDF under the "contract" field.
func (h *Handler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	kind, err := parseKind(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	badgeNum := chi.URLParam(r, "badgeNum")

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("contract")
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "no file provided"))
		return
	}
	defer file.Close()

	if header.Filename == "" || !strings.EqualFold(filepath.Ext(header.Filename), ".pdf") {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "only PDF contracts are accepted"))
		return
	}

	path, err := h.storage.Save(badgeNum, file)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to store contract",
			"request_id", requestcontext.RequestID(r.Context()),
			"badge_num", badgeNum,
			"error", err,
		)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store contract"))
		return
	}

	if err := h.badges.AttachContract(r.Context(), kind, badgeNum, path); err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "contract uploaded",
	})
}

// HandleDownload handles GET /badges/{kind}/{badgeNum}/contract requests.
func (h *Handler) HandleDownload(w http.ResponseWriter, r *http.Request) {
	kind, err := parseKind(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	badgeNum := chi.URLParam(r, "badgeNum")

	path, err := h.badges.ContractPath(r.Context(), kind, badgeNum)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if !h.storage.Exists(path) {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "contract not found"))
		return
	}

	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", filepath.Base(path)))
	w.Header().Set("Content-Type", "application/pdf")
	http.ServeFile(w, r, path)
}
