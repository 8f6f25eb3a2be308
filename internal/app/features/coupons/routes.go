// internal/app/features/coupons/routes.go
package coupons

import (
	"github.com/dalemusser/aftershift/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts coupon screens under /admin/coupons.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)
	r.Use(sm.RequireRole("admin"))

	r.Get("/", h.ServeDashboard)
	r.Get("/generate", h.ServeGenerate)
	r.Post("/generate", h.HandleGenerate)
	r.Get("/print", h.ServePrint)
	r.Get("/barcode/{file}", h.ServeBarcode)

	r.Get("/scanner", h.ServeScanner)
	r.Post("/scanner", h.HandleScan)
	r.Post("/{id}/claim", h.HandleClaim)

	return r
}
