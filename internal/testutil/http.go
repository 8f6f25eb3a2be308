package testutil

import (
	"context"
	"net/http"

	"github.com/dalemusser/aftershift/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// AdminUser is the signed-in admin used by handler tests.
func AdminUser() *auth.SessionUser {
	return &auth.SessionUser{
		ID:       "admin@test.com",
		Name:     "Test Admin",
		Email:    "admin@test.com",
		Role:     "admin",
		Provider: "password",
	}
}

// AsAdmin returns r with AdminUser in its context.
func AsAdmin(r *http.Request) *http.Request {
	return auth.WithTestUser(r, AdminUser())
}

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		rctx = chi.NewRouteContext()
		r = r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
	}
	rctx.URLParams.Add(key, value)
	return r
}
