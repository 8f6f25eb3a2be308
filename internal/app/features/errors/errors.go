// internal/app/features/errors/errors.go
package errors

import (
	"net/http"

	"github.com/dalemusser/aftershift/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
)

// pageData is the view model for error pages.
type pageData struct {
	viewdata.BaseVM
	Heading string
	Message string
	Status  int
}

// Handler is the errors feature handler.
// No backend needed; it just renders templates.
type Handler struct{}

// NewHandler constructs an errors Handler.
func NewHandler() *Handler {
	return &Handler{}
}

// Forbidden renders a friendly "access denied" page.
// GET /forbidden
func (h *Handler) Forbidden(w http.ResponseWriter, r *http.Request) {
	RenderForbidden(w, r, "You don't have permission to view this page.", "/")
}

// Unauthorized renders a friendly "sign in required" page.
// GET /unauthorized
func (h *Handler) Unauthorized(w http.ResponseWriter, r *http.Request) {
	RenderUnauthorized(w, r, "/login")
}

// NotFound renders the not-found page for unmatched routes.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	render(w, r, http.StatusNotFound, "Page not found", "The page you are looking for does not exist.", "/")
}

func render(w http.ResponseWriter, r *http.Request, status int, heading, msg, backURL string) {
	vm := viewdata.NewBaseVM(r, heading, backURL)
	if backURL != "" {
		vm.BackURL = backURL
	}
	w.WriteHeader(status)
	templates.Render(w, r, "error_page", pageData{
		BaseVM:  vm,
		Heading: heading,
		Message: msg,
		Status:  status,
	})
}
