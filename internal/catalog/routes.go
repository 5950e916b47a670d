package catalog

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// MountRoutes attaches product routes. The public listing and product detail
// are unauthenticated; everything else is admin-only.
func (h *Handler) MountRoutes(r chi.Router, requireAdmin func(http.Handler) http.Handler) {
	r.Get("/public", h.ListPublic)
	r.Get("/{id}", h.Show)

	r.Group(func(r chi.Router) {
		r.Use(requireAdmin)
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
}
