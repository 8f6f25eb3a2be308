package home

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes mounts the landing page and its forms. limit throttles the
// public POSTs; it may be nil.
func Routes(h *Handler, limit func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeRoot)
	r.Get("/news/{id}", h.ServeArticle)
	r.Group(func(r chi.Router) {
		if limit != nil {
			r.Use(limit)
		}
		r.Post("/subscribe", h.HandleSubscribe)
		r.Post("/testimonials", h.HandleTestimonial)
	})
	return r
}
