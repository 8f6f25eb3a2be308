// internal/app/features/employees/routes.go
package employees

import (
	"github.com/dalemusser/aftershift/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the roster under /admin/employees.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)
	r.Use(sm.RequireRole("admin"))

	r.Get("/", h.ServeList)
	r.Post("/", h.HandleCreate)
	r.Get("/new", h.ServeNew)

	r.Get("/export", h.ServeExport)
	r.Get("/import", h.ServeImport)
	r.Post("/import", h.HandleImport)

	r.Get("/{id}/edit", h.ServeEdit)
	r.Post("/{id}/edit", h.HandleEdit)
	r.Post("/{id}/delete", h.HandleDelete)

	return r
}
