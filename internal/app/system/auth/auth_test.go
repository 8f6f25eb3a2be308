package auth_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/dalemusser/aftershift/internal/app/system/auth"
	"github.com/dalemusser/aftershift/internal/app/system/authz"
	"go.uber.org/zap"
)

func newTestSessionManager(t *testing.T) *auth.SessionManager {
	t.Helper()
	logger := zap.NewNop()
	sm, err := auth.NewSessionManager(
		"test-session-key-must-be-32-chars-long",
		"test-session",
		"",
		24*time.Hour,
		false,
		logger,
	)
	if err != nil {
		t.Fatalf("failed to create session manager: %v", err)
	}
	return sm
}

// adminOnly wraps a 200 handler in the middleware every /admin route uses.
func adminOnly(sm *auth.SessionManager, called *bool) http.Handler {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		w.WriteHeader(http.StatusOK)
	})
	return sm.LoadSessionUser(sm.RequireSignedIn(sm.RequireRole(authz.RoleAdmin)(ok)))
}

func TestAdminOnly_Anonymous(t *testing.T) {
	sm := newTestSessionManager(t)
	const target = "/admin/coupons?status=expiring&page=2"
	wantReturn := "/login?return=" + url.QueryEscape(target)

	tests := []struct {
		name       string
		header     map[string]string
		wantCode   int
		wantHeader string
		wantValue  string
	}{
		{"browser", map[string]string{"Accept": "text/html"}, http.StatusSeeOther, "Location", wantReturn},
		{"htmx", map[string]string{"HX-Request": "true"}, http.StatusUnauthorized, "HX-Redirect", wantReturn},
		{"json", map[string]string{"Accept": "application/json"}, http.StatusUnauthorized, "", ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			called := false
			req := httptest.NewRequest("GET", target, nil)
			for k, v := range tc.header {
				req.Header.Set(k, v)
			}
			rec := httptest.NewRecorder()
			adminOnly(sm, &called).ServeHTTP(rec, req)

			if called {
				t.Fatal("admin handler ran for anonymous request")
			}
			if rec.Code != tc.wantCode {
				t.Errorf("status = %d, want %d", rec.Code, tc.wantCode)
			}
			if tc.wantHeader != "" && rec.Header().Get(tc.wantHeader) != tc.wantValue {
				t.Errorf("%s = %q, want %q", tc.wantHeader, rec.Header().Get(tc.wantHeader), tc.wantValue)
			}
		})
	}
}

func TestAdminOnly_SignedInAdminCookie(t *testing.T) {
	sm := newTestSessionManager(t)

	rec := httptest.NewRecorder()
	err := sm.SignIn(rec, httptest.NewRequest("POST", "/login", nil), auth.SessionUser{
		ID: "manager@example.com", Email: "manager@example.com", Role: authz.RoleAdmin, Provider: "google",
	})
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}

	called := false
	req := httptest.NewRequest("GET", "/admin/properties", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	out := httptest.NewRecorder()
	adminOnly(sm, &called).ServeHTTP(out, req)

	if !called || out.Code != http.StatusOK {
		t.Errorf("called=%v status=%d, want admin handler to run", called, out.Code)
	}
}

func TestAdminOnly_NonAdminRoles(t *testing.T) {
	sm := newTestSessionManager(t)

	tests := []struct {
		role     string
		htmx     bool
		wantCode int
		wantLoc  string
	}{
		{role: "admin", wantCode: http.StatusOK},
		{role: "Admin", wantCode: http.StatusOK},
		{role: authz.RoleVisitor, wantCode: http.StatusSeeOther, wantLoc: "/forbidden"},
		{role: "tenant", wantCode: http.StatusSeeOther, wantLoc: "/forbidden"},
		{role: "tenant", htmx: true, wantCode: http.StatusForbidden},
	}
	for _, tc := range tests {
		name := tc.role
		if tc.htmx {
			name += "/htmx"
		}
		t.Run(name, func(t *testing.T) {
			handler := sm.RequireRole(authz.RoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))
			req := httptest.NewRequest("POST", "/admin/notifications/read-all", nil)
			req.Header.Set("Accept", "text/html")
			if tc.htmx {
				req.Header.Set("HX-Request", "true")
			}
			req = withTestUser(req, tc.role)

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tc.wantCode {
				t.Errorf("status = %d, want %d", rec.Code, tc.wantCode)
			}
			if tc.wantLoc != "" && rec.Header().Get("Location") != tc.wantLoc {
				t.Errorf("Location = %q, want %q", rec.Header().Get("Location"), tc.wantLoc)
			}
			if tc.htmx && rec.Header().Get("HX-Redirect") != "/forbidden" {
				t.Errorf("HX-Redirect = %q", rec.Header().Get("HX-Redirect"))
			}
		})
	}
}

func TestRequireRole_NonAdminJSONGets403(t *testing.T) {
	sm := newTestSessionManager(t)
	handler := sm.RequireRole(authz.RoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not run")
	}))

	req := httptest.NewRequest("GET", "/admin/activity/export.jsonl.xz", nil)
	req.Header.Set("Accept", "application/json")
	req = withTestUser(req, authz.RoleVisitor)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
}

func TestCurrentUser(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	if u, ok := auth.CurrentUser(req); ok || u != nil {
		t.Errorf("anonymous request: got %+v, %v", u, ok)
	}

	u, ok := auth.CurrentUser(withTestUser(req, "admin"))
	if !ok || !u.IsAdmin() {
		t.Errorf("admin request: got %+v, %v", u, ok)
	}
}

// withTestUser injects a SessionUser the way LoadSessionUser does.
func withTestUser(r *http.Request, role string) *http.Request {
	user := &auth.SessionUser{
		ID:    "manager@example.com",
		Name:  "Front Desk",
		Email: "manager@example.com",
		Role:  role,
	}
	return auth.WithTestUser(r, user)
}

func TestSignIn_CookieRoundTrip(t *testing.T) {
	sm := newTestSessionManager(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/login", nil)
	err := sm.SignIn(rec, req, auth.SessionUser{
		ID: "admin@example.com", Name: "Admin", Email: "admin@example.com", Role: "admin", Provider: "password",
	})
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("expected a session cookie")
	}

	var seen *auth.SessionUser
	handler := sm.LoadSessionUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = auth.CurrentUser(r)
	}))
	next := httptest.NewRequest("GET", "/admin", nil)
	for _, c := range cookies {
		next.AddCookie(c)
	}
	handler.ServeHTTP(httptest.NewRecorder(), next)

	if seen == nil {
		t.Fatal("expected user loaded from cookie")
	}
	if seen.Email != "admin@example.com" || !seen.IsAdmin() || seen.Provider != "password" {
		t.Errorf("loaded user = %+v", seen)
	}
}

func TestSignOut_ExpiresCookie(t *testing.T) {
	sm := newTestSessionManager(t)

	rec := httptest.NewRecorder()
	if err := sm.SignOut(rec, httptest.NewRequest("GET", "/logout", nil)); err != nil {
		t.Fatalf("SignOut: %v", err)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) == 0 || cookies[0].MaxAge >= 0 {
		t.Errorf("expected expired cookie, got %+v", cookies)
	}
}

func TestSignIn_RequiresIDAndRole(t *testing.T) {
	sm := newTestSessionManager(t)
	err := sm.SignIn(httptest.NewRecorder(), httptest.NewRequest("POST", "/login", nil), auth.SessionUser{Name: "x"})
	if err == nil {
		t.Error("expected error for missing id/role")
	}
}
