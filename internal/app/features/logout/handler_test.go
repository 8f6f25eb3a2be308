package logout_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dalemusser/aftershift/internal/app/features/logout"
	"github.com/dalemusser/aftershift/internal/app/system/auditlog"
	"github.com/dalemusser/aftershift/internal/app/system/auth"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func newTestHandler(t *testing.T) *logout.Handler {
	t.Helper()
	logger := zap.NewNop()

	// Create a session manager for testing
	sessionMgr, err := auth.NewSessionManager("test-session-key-for-testing-only", "test-session", "", 24*time.Hour, false, logger)
	if err != nil {
		t.Fatalf("NewSessionManager failed: %v", err)
	}

	// Pass nil for the audit logger in tests (handler has nil checks)
	return logout.NewHandler(sessionMgr, nil, logger)
}

func TestServeLogout_RedirectsToHome(t *testing.T) {
	handler := newTestHandler(t)

	req := httptest.NewRequest("GET", "/logout", nil)
	rec := httptest.NewRecorder()

	handler.ServeLogout(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Errorf("expected status %d, got %d", http.StatusSeeOther, rec.Code)
	}

	location := rec.Header().Get("Location")
	if location != "/" {
		t.Errorf("Location: got %q, want %q", location, "/")
	}
}

func TestServeLogout_ClearsSessionCookie(t *testing.T) {
	handler := newTestHandler(t)

	req := httptest.NewRequest("GET", "/logout", nil)
	rec := httptest.NewRecorder()

	handler.ServeLogout(rec, req)

	// Check that the session cookie is being deleted (MaxAge = -1)
	cookies := rec.Result().Cookies()
	found := false
	for _, c := range cookies {
		if c.Name == "test-session" {
			found = true
			if c.MaxAge != -1 {
				t.Errorf("cookie MaxAge: got %d, want -1 (delete)", c.MaxAge)
			}
			break
		}
	}
	if !found {
		t.Error("expected session cookie to be set for deletion")
	}
}

func TestServeLogout_HTMX_ReturnsHXRedirect(t *testing.T) {
	handler := newTestHandler(t)

	req := httptest.NewRequest("GET", "/logout", nil)
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()

	handler.ServeLogout(rec, req)

	// HTMX should get HX-Redirect header
	hxRedirect := rec.Header().Get("HX-Redirect")
	if hxRedirect != "/" {
		t.Errorf("HX-Redirect: got %q, want %q", hxRedirect, "/")
	}

	// Status should be 200 for HTMX
	if rec.Code != http.StatusOK {
		t.Errorf("expected status %d for HTMX, got %d", http.StatusOK, rec.Code)
	}
}

func TestServeLogout_WithExistingSession(t *testing.T) {
	logger := zap.NewNop()
	sessionMgr, err := auth.NewSessionManager("test-session-key-for-testing-only", "test-session", "", 24*time.Hour, false, logger)
	if err != nil {
		t.Fatalf("NewSessionManager failed: %v", err)
	}
	handler := logout.NewHandler(sessionMgr, nil, logger)

	// First, simulate having a session by making a request and setting session values
	req1 := httptest.NewRequest("GET", "/setup", nil)
	rec1 := httptest.NewRecorder()

	if err := sessionMgr.SignIn(rec1, req1, auth.SessionUser{ID: "admin@test.com", Email: "admin@test.com", Role: "admin"}); err != nil {
		t.Fatalf("SignIn: %v", err)
	}

	// Get the cookie from the first response
	cookies := rec1.Result().Cookies()

	// Now make the logout request with the session cookie
	req2 := httptest.NewRequest("GET", "/logout", nil)
	for _, c := range cookies {
		req2.AddCookie(c)
	}
	rec2 := httptest.NewRecorder()

	handler.ServeLogout(rec2, req2)

	if rec2.Code != http.StatusSeeOther {
		t.Errorf("expected status %d, got %d", http.StatusSeeOther, rec2.Code)
	}

	// Verify the session cookie is being deleted
	logoutCookies := rec2.Result().Cookies()
	for _, c := range logoutCookies {
		if c.Name == "test-session" {
			if c.MaxAge != -1 {
				t.Errorf("cookie MaxAge after logout: got %d, want -1", c.MaxAge)
			}
		}
	}
}

func TestServeLogout_AuditsSignedInUser(t *testing.T) {
	logger := zap.NewNop()
	sessionMgr, err := auth.NewSessionManager("test-session-key-for-testing-only", "test-session", "", 24*time.Hour, false, logger)
	if err != nil {
		t.Fatalf("NewSessionManager failed: %v", err)
	}
	core, logs := observer.New(zap.InfoLevel)
	audit := auditlog.New(nil, zap.New(core), auditlog.Config{Auth: "log"})
	handler := logout.NewHandler(sessionMgr, audit, logger)

	req := auth.WithTestUser(httptest.NewRequest("GET", "/logout", nil), &auth.SessionUser{ID: "admin@test.com", Email: "admin@test.com", Role: "admin"})
	handler.ServeLogout(httptest.NewRecorder(), req)

	if logs.Len() != 1 {
		t.Fatalf("expected one audit entry, got %d", logs.Len())
	}
}
