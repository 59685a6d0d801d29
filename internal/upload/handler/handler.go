package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"doclink/internal/platform/middleware"
	"doclink/internal/upload/service"
	dErrors "doclink/pkg/domain-errors"
	"doclink/pkg/platform/httputil"
)

// documentField is the multipart field the file must arrive in.
const documentField = "document"

// Handler accepts token-bearing file submissions.
type Handler struct {
	svc    *service.Service
	logger *slog.Logger
}

func New(svc *service.Service, logger *slog.Logger) *Handler {
	return &Handler{
		svc:    svc,
		logger: logger.With(slog.String("component", "upload_handler")),
	}
}

// Register mounts the upload routes. The router group is expected to carry
// the upload-token gate; the bare path serves callers passing the token in
// the form body or header.
func (h *Handler) Register(r chi.Router) {
	r.Post("/api/upload", h.Upload)
	r.Post("/api/upload/{token}", h.Upload)
}

// Upload handles POST /api/upload[/{token}]: a single multipart file field
// named "document".
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	record, ok := middleware.GetUploadRequest(r.Context())
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "no authorized request in context"))
		return
	}

	file, header, err := r.FormFile(documentField)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "no file uploaded"))
		return
	}
	defer file.Close()

	result, err := h.svc.Ingest(r.Context(), service.IngestParams{
		Request:          record,
		Reader:           file,
		FieldName:        documentField,
		OriginalFilename: header.Filename,
		DeclaredType:     header.Header.Get("Content-Type"),
		Size:             header.Size,
	})
	if err != nil {
		h.logger.Warn("upload rejected",
			"error", err,
			"user_id", record.UserID,
			"declared_type", header.Header.Get("Content-Type"),
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.Info("upload stored", "stored_as", result.StoredAs, "size", result.Size)
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"success": true})
}
