// internal/app/features/notifications/routes.go
package notifications

import (
	"github.com/dalemusser/aftershift/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the notification center under /admin/notifications.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)
	r.Use(sm.RequireRole("admin"))

	r.Get("/", h.ServeList)
	r.Get("/count", h.ServeCount)
	r.Get("/ws", h.ServeWS)
	r.Post("/read-all", h.HandleReadAll)
	r.Post("/{id}/read", h.HandleRead)
	r.Post("/{id}/delete", h.HandleDelete)
	return r
}
