package login_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	uierrors "github.com/dalemusser/aftershift/internal/app/features/errors"
	"github.com/dalemusser/aftershift/internal/app/features/login"
	"github.com/dalemusser/aftershift/internal/app/store/audit"
	"github.com/dalemusser/aftershift/internal/app/system/auditlog"
	"github.com/dalemusser/aftershift/internal/app/system/auth"
	"github.com/dalemusser/aftershift/internal/app/system/ratelimit"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/crypto/bcrypt"
)

const testPassword = "correct horse battery"

func newTestHandler(t *testing.T) (*login.Handler, *observer.ObservedLogs) {
	t.Helper()
	logger := zap.NewNop()
	errLog := uierrors.NewErrorLogger(logger)

	// Create a session manager for testing (dev mode, weak key allowed)
	sessionMgr, err := auth.NewSessionManager("test-session-key-for-testing-only", "test-session", "", 24*time.Hour, false, logger)
	if err != nil {
		t.Fatalf("NewSessionManager failed: %v", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}

	core, logs := observer.New(zap.InfoLevel)
	audit := auditlog.New(nil, zap.New(core), auditlog.Config{Auth: "log"})

	handler := login.NewHandler(sessionMgr, errLog, audit, ratelimit.NewLoginLimiter(), login.AdminCredential{
		Email:        "Admin@Example.com",
		Name:         "Test Admin",
		PasswordHash: string(hash),
	}, false, logger)
	return handler, logs
}

func post(h *login.Handler, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.RemoteAddr = "203.0.113.7:5555"
	rec := httptest.NewRecorder()
	func() {
		// Failed logins re-render the form; templates are not booted in tests.
		defer func() { _ = recover() }()
		h.HandleLoginPost(rec, req)
	}()
	return rec
}

func hasSessionCookie(rec *httptest.ResponseRecorder) bool {
	for _, c := range rec.Result().Cookies() {
		if c.Name == "test-session" && c.MaxAge >= 0 {
			return true
		}
	}
	return false
}

func eventTypes(logs *observer.ObservedLogs) []string {
	var out []string
	for _, e := range logs.All() {
		if v, ok := e.ContextMap()["event_type"].(string); ok {
			out = append(out, v)
		}
	}
	return out
}

func TestHandleLoginPost_Success(t *testing.T) {
	handler, logs := newTestHandler(t)

	rec := post(handler, url.Values{"email": {"admin@example.com"}, "password": {testPassword}})

	if rec.Code != http.StatusSeeOther {
		t.Errorf("expected status %d, got %d", http.StatusSeeOther, rec.Code)
	}
	if location := rec.Header().Get("Location"); location != "/admin" {
		t.Errorf("Location: got %q, want %q", location, "/admin")
	}
	if !hasSessionCookie(rec) {
		t.Error("expected session cookie to be set")
	}
	if got := eventTypes(logs); len(got) != 1 || got[0] != audit.EventLoginSuccess {
		t.Errorf("audit events: %v", got)
	}
}

func TestHandleLoginPost_WithReturnURL(t *testing.T) {
	handler, _ := newTestHandler(t)

	rec := post(handler, url.Values{
		"email":    {"admin@example.com"},
		"password": {testPassword},
		"return":   {"/admin/coupons"},
	})

	if location := rec.Header().Get("Location"); location != "/admin/coupons" {
		t.Errorf("Location: got %q, want %q", location, "/admin/coupons")
	}
}

func TestHandleLoginPost_OffsiteReturnIgnored(t *testing.T) {
	handler, _ := newTestHandler(t)

	rec := post(handler, url.Values{
		"email":    {"admin@example.com"},
		"password": {testPassword},
		"return":   {"https://evil.example/phish"},
	})

	if location := rec.Header().Get("Location"); location != "/admin" {
		t.Errorf("Location: got %q, want %q", location, "/admin")
	}
}

func TestHandleLoginPost_WrongPassword(t *testing.T) {
	handler, logs := newTestHandler(t)

	rec := post(handler, url.Values{"email": {"admin@example.com"}, "password": {"nope"}})

	if hasSessionCookie(rec) {
		t.Error("session cookie must not be set on failure")
	}
	if got := eventTypes(logs); len(got) != 1 || got[0] != audit.EventLoginFailedWrongPassword {
		t.Errorf("audit events: %v", got)
	}
}

func TestHandleLoginPost_UnknownEmail(t *testing.T) {
	handler, logs := newTestHandler(t)

	rec := post(handler, url.Values{"email": {"nobody@example.com"}, "password": {testPassword}})

	if hasSessionCookie(rec) {
		t.Error("session cookie must not be set for unknown email")
	}
	if got := eventTypes(logs); len(got) != 1 || got[0] != audit.EventLoginFailedUnknownEmail {
		t.Errorf("audit events: %v", got)
	}
}

func TestHandleLoginPost_EmptyFields(t *testing.T) {
	handler, logs := newTestHandler(t)

	rec := post(handler, url.Values{"email": {""}})

	if hasSessionCookie(rec) {
		t.Error("session cookie must not be set")
	}
	if logs.Len() != 0 {
		t.Errorf("empty form should not be audited, got %d entries", logs.Len())
	}
}

func TestHandleLoginPost_RateLimitedByEmail(t *testing.T) {
	handler, logs := newTestHandler(t)

	for i := 0; i < 5; i++ {
		post(handler, url.Values{"email": {"admin@example.com"}, "password": {"wrong"}})
	}
	rec := post(handler, url.Values{"email": {"admin@example.com"}, "password": {testPassword}})

	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("expected status %d, got %d", http.StatusTooManyRequests, rec.Code)
	}
	if hasSessionCookie(rec) {
		t.Error("rate limited login must not sign in")
	}
	got := eventTypes(logs)
	if got[len(got)-1] != audit.EventLoginFailedRateLimit {
		t.Errorf("last audit event: %v", got)
	}
}

func TestHandleLoginPost_EmailWithWhitespace(t *testing.T) {
	handler, _ := newTestHandler(t)

	rec := post(handler, url.Values{"email": {"  ADMIN@example.com  "}, "password": {testPassword}})

	if rec.Code != http.StatusSeeOther {
		t.Errorf("expected status %d, got %d", http.StatusSeeOther, rec.Code)
	}
}

func TestServeLogin_AdminRedirects(t *testing.T) {
	handler, _ := newTestHandler(t)

	req := httptest.NewRequest("GET", "/login?return=/admin/employees", nil)
	req = auth.WithTestUser(req, &auth.SessionUser{ID: "a", Email: "admin@example.com", Role: "admin"})
	rec := httptest.NewRecorder()
	handler.ServeLogin(rec, req)

	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/admin/employees" {
		t.Errorf("got %d %q", rec.Code, rec.Header().Get("Location"))
	}
}
