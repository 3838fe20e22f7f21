package contract

import (
	"bytes"
	"context"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gatepass/internal/badge/models"
	"gatepass/internal/badge/service"
	"gatepass/internal/badge/store"
	"gatepass/pkg/requestcontext"
)

func newFixture(t *testing.T) (chi.Router, *service.BadgeService, context.Context) {
	t.Helper()
	svc := service.NewBadgeService(
		store.NewInMemoryBadgeStore(),
		store.NewInMemoryAdditionLog(),
		store.NewInMemoryResolutionLedger(),
		slog.Default(),
	)
	h := NewHandler(svc, NewStorage(t.TempDir()), slog.Default())

	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	ctx := requestcontext.WithTime(context.Background(), now)
	ctx = requestcontext.WithUser(ctx, "admin", "admin")

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			c := requestcontext.WithTime(req.Context(), now)
			c = requestcontext.WithUser(c, "admin", "admin")
			next.ServeHTTP(w, req.WithContext(c))
		})
	})
	h.Register(r)

	req := now.AddDate(0, 0, -1)
	require.NoError(t, svc.Create(ctx, models.Badge{
		Kind: models.KindPermanent, BadgeNum: "P-1", FullName: "Imane Alaoui",
		Company: "Atlas Handling", CIN: "AB123456",
		ValidityDuration: models.Validity1Year, RequestDate: &req,
	}))
	return r, svc, ctx
}

func multipartBody(t *testing.T, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("contract", filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestContractUploadDownload(t *testing.T) {
	router, svc, ctx := newFixture(t)
	pdf := []byte("%PDF-1.4 fake contract body")

	t.Run("upload stores the file and records the path", func(t *testing.T) {
		body, contentType := multipartBody(t, "scan.pdf", pdf)
		req := httptest.NewRequest(http.MethodPost, "/badges/permanent/P-1/contract", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		path, err := svc.ContractPath(ctx, models.KindPermanent, "P-1")
		require.NoError(t, err)
		assert.Contains(t, path, "contract_P-1.pdf")
	})

	t.Run("download serves the stored document", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/badges/permanent/P-1/contract", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
		assert.Equal(t, pdf, rec.Body.Bytes())
	})

	t.Run("re-upload overwrites", func(t *testing.T) {
		updated := []byte("%PDF-1.4 updated contract")
		body, contentType := multipartBody(t, "scan2.pdf", updated)
		req := httptest.NewRequest(http.MethodPost, "/badges/permanent/P-1/contract", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		req = httptest.NewRequest(http.MethodGet, "/badges/permanent/P-1/contract", nil)
		rec = httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, updated, rec.Body.Bytes())
	})

	t.Run("non-PDF uploads are rejected", func(t *testing.T) {
		body, contentType := multipartBody(t, "scan.docx", pdf)
		req := httptest.NewRequest(http.MethodPost, "/badges/permanent/P-1/contract", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("download without an upload is 404", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/badges/temporary/T-none/contract", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
