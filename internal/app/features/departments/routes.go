// internal/app/features/departments/routes.go
package departments

import (
	"github.com/dalemusser/aftershift/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)
	r.Use(sm.RequireRole("admin"))
	r.Get("/", h.ServeDepartments)
	return r
}
