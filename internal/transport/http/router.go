package httptransport

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	linkhandler "doclink/internal/link/handler"
	"doclink/internal/platform/middleware"
	uploadhandler "doclink/internal/upload/handler"
)

// RouterDeps bundles everything the router mounts. The transport layer stays
// thin: token and admin gating are middleware, business logic lives in the
// feature services.
type RouterDeps struct {
	Links      *linkhandler.Handler
	Uploads    *uploadhandler.Handler
	AdminAuth  *middleware.AdminAuth
	UploadGate func(http.Handler) http.Handler
}

// NewRouter wires all endpoints.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)

	r.Handle("/metrics", promhttp.Handler())

	// Issuer-facing API.
	r.Group(func(r chi.Router) {
		r.Use(deps.AdminAuth.RequireAdmin)
		deps.Links.RegisterAdmin(r)
	})

	// Bearer-facing API: every route behind the upload-token gate.
	r.Group(func(r chi.Router) {
		r.Use(deps.UploadGate)
		deps.Links.RegisterBearer(r)
		deps.Uploads.Register(r)
	})

	return r
}
