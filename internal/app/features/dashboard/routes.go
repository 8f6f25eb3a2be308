// internal/app/features/dashboard/routes.go
package dashboard

import (
	"github.com/dalemusser/aftershift/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes serves the analytics dashboard at the mount point (e.g. "/admin").
// The live panels poll the same URL with HX-Target set.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireRole("admin"))
		pr.Get("/", h.ServeDashboard)
	})

	return r
}
