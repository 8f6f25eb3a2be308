package contact

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, limit func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeContact)
	r.With(orNoop(limit)).Post("/", h.HandleContact)
	return r
}

func orNoop(mw func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	if mw == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return mw
}
