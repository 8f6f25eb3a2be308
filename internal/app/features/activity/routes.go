// internal/app/features/activity/routes.go
package activity

import (
	"github.com/dalemusser/aftershift/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the activity log (typically at "/admin/activity").
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(sm.RequireRole("admin"))

		pr.Get("/", h.ServeList)
		pr.Get("/export.jsonl.xz", h.ServeExport)
	})

	return r
}
