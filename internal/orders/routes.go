package orders

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// MountRoutes attaches order routes. Checkout is public; everything else is
// admin-only.
func (h *Handler) MountRoutes(r chi.Router, requireAdmin func(http.Handler) http.Handler) {
	r.Post("/", h.Create)

	r.Group(func(r chi.Router) {
		r.Use(requireAdmin)
		r.Get("/", h.List)
		r.Get("/stats", h.Stats)
		r.Get("/{id}", h.Show)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
}
