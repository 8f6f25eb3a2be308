// internal/app/features/replies/routes.go
package replies

import (
	"github.com/dalemusser/aftershift/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the reply form and its JSON variants under /admin/replies.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)
	r.Use(sm.RequireRole("admin"))

	r.Get("/", h.ServeForm)
	r.Post("/", h.HandleForm)
	r.Post("/send", h.HandleSendJSON)
	r.Post("/send-appointment", h.HandleSendAppointmentJSON)
	return r
}
