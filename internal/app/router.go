package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/meridian-shop/meridian/internal/auth"
	"github.com/meridian-shop/meridian/internal/catalog"
	"github.com/meridian-shop/meridian/internal/media"
	"github.com/meridian-shop/meridian/internal/observability"
	"github.com/meridian-shop/meridian/internal/orders"
	"github.com/meridian-shop/meridian/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	AuthHandler    *auth.Handler
	CatalogHandler *catalog.Handler
	OrdersHandler  *orders.Handler
	MediaStore     *media.Store
	JobsHandler    *jobs.Handler
	Metrics        *observability.Metrics
}

// NewRouter constructs the chi.Router with storefront defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	requireAdmin := params.AuthHandler.RequireAdmin

	r.Route("/api/auth", params.AuthHandler.MountRoutes)
	r.Route("/api/products", func(r chi.Router) {
		params.CatalogHandler.MountRoutes(r, requireAdmin)
	})
	r.Route("/api/orders", func(r chi.Router) {
		params.OrdersHandler.MountRoutes(r, requireAdmin)
	})

	if params.JobsHandler != nil {
		r.Route("/api/jobs", func(r chi.Router) {
			r.Use(requireAdmin)
			params.JobsHandler.MountRoutes(r)
		})
	}

	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	if params.MediaStore != nil {
		fileServer := http.StripPrefix(media.URLPrefix, http.FileServer(http.Dir(params.MediaStore.Dir())))
		r.Handle(media.URLPrefix+"*", uploadsCacheHandler(fileServer))
	}

	return r
}

// uploadsCacheHandler lets browsers cache product images for an hour.
func uploadsCacheHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=3600")
		next.ServeHTTP(w, r)
	})
}
