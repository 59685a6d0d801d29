package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"doclink/internal/link/models"
	"doclink/internal/link/service"
	"doclink/internal/platform/middleware"
	dErrors "doclink/pkg/domain-errors"
	"doclink/pkg/platform/httputil"
)

// Handler wires HTTP endpoints to the link service.
type Handler struct {
	svc     *service.Service
	baseURL string
	logger  *slog.Logger
}

// New constructs the handler. baseURL is the public origin embedded in
// generated upload links.
func New(svc *service.Service, baseURL string, logger *slog.Logger) *Handler {
	return &Handler{
		svc:     svc,
		baseURL: baseURL,
		logger:  logger.With(slog.String("component", "link_handler")),
	}
}

// RegisterAdmin mounts the issuer-facing routes. The router group is expected
// to carry admin authentication.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Post("/api/admin/create-request", h.CreateRequest)
	r.Patch("/api/admin/request/{token}/status", h.UpdateStatus)
}

// RegisterBearer mounts the token-bearing detail route. The router group is
// expected to carry the upload-token gate; the bare path serves callers
// passing the token in the body or header.
func (h *Handler) RegisterBearer(r chi.Router) {
	r.Get("/api/request", h.GetRequest)
	r.Get("/api/request/{token}", h.GetRequest)
}

type createRequestPayload struct {
	UserID      string   `json:"userId"`
	MissingDocs []string `json:"missingDocs"`
}

type createRequestResponse struct {
	Success bool   `json:"success"`
	Link    string `json:"link"`
	Token   string `json:"token"`
}

// CreateRequest handles POST /api/admin/create-request.
func (h *Handler) CreateRequest(w http.ResponseWriter, r *http.Request) {
	var payload createRequestPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid JSON body"))
		return
	}

	record, err := h.svc.Issue(r.Context(), payload.UserID, payload.MissingDocs)
	if err != nil {
		h.logger.Error("failed to issue upload link", "error", err)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, createRequestResponse{
		Success: true,
		Link:    fmt.Sprintf("%s/upload.html?token=%s", h.baseURL, record.Token),
		Token:   record.Token,
	})
}

type requestDetailsResponse struct {
	RequiredDocs []string      `json:"requiredDocs"`
	ExpiresAt    time.Time     `json:"expiresAt"`
	Status       models.Status `json:"status"`
}

// GetRequest handles GET /api/request[/{token}]. The gate middleware has
// already resolved and authorized the record.
func (h *Handler) GetRequest(w http.ResponseWriter, r *http.Request) {
	record, ok := middleware.GetUploadRequest(r.Context())
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "no authorized request in context"))
		return
	}

	httputil.WriteJSON(w, http.StatusOK, requestDetailsResponse{
		RequiredDocs: record.RequiredDocs,
		ExpiresAt:    record.ExpiresAt,
		Status:       record.Status,
	})
}

type updateStatusPayload struct {
	Status models.Status `json:"status"`
}

// UpdateStatus handles PATCH /api/admin/request/{token}/status.
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	var payload updateStatusPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid JSON body"))
		return
	}

	if err := h.svc.UpdateStatus(r.Context(), token, payload.Status); err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"status":  payload.Status,
	})
}
