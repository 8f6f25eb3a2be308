package authgoogle_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dalemusser/aftershift/internal/app/features/authgoogle"
	uierrors "github.com/dalemusser/aftershift/internal/app/features/errors"
	"github.com/dalemusser/aftershift/internal/app/store/audit"
	"github.com/dalemusser/aftershift/internal/app/system/auditlog"
	"github.com/dalemusser/aftershift/internal/app/system/auth"
	"github.com/dalemusser/aftershift/internal/testutil"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/oauth2"
)

// memStates is an in-memory StateStore.
type memStates struct {
	mu sync.Mutex
	m  map[string]string
}

func (s *memStates) Save(_ context.Context, state, ret string, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.m == nil {
		s.m = map[string]string{}
	}
	s.m[state] = ret
	return nil
}

func (s *memStates) Consume(_ context.Context, state string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ret, ok := s.m[state]
	delete(s.m, state)
	return ret, ok, nil
}

func newTestHandler(t *testing.T, states authgoogle.StateStore) (*authgoogle.Handler, *observer.ObservedLogs) {
	t.Helper()
	logger := zap.NewNop()
	sessionMgr, err := auth.NewSessionManager("test-session-key-for-testing-only", "test-session", "", 24*time.Hour, false, logger)
	if err != nil {
		t.Fatalf("NewSessionManager failed: %v", err)
	}
	core, logs := observer.New(zap.InfoLevel)
	al := auditlog.New(nil, zap.New(core), auditlog.Config{Auth: "log"})

	h := authgoogle.NewHandler(sessionMgr, uierrors.NewErrorLogger(logger), al, states,
		"test-client-id", "test-client-secret", "http://localhost:8080/",
		[]string{" Boss@Example.com ", ""}, logger)
	return h, logs
}

// fakeGoogle serves a token endpoint and a userinfo endpoint.
func fakeGoogle(t *testing.T, userJSON string) *testutil.FakeAPI {
	t.Helper()
	api := testutil.NewFakeAPI(t)
	api.Handle("POST", "/token", func(w http.ResponseWriter, r *http.Request) {
		testutil.WriteJSON(w, http.StatusOK, map[string]any{
			"access_token": "tok",
			"token_type":   "Bearer",
			"expires_in":   3600,
		})
	})
	api.Handle("GET", "/userinfo", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(userJSON))
	})
	return api
}

func pointAt(h *authgoogle.Handler, api *testutil.FakeAPI) {
	h.Endpoint = oauth2.Endpoint{
		AuthURL:   api.Server.URL + "/auth",
		TokenURL:  api.Server.URL + "/token",
		AuthStyle: oauth2.AuthStyleInParams,
	}
	h.UserInfoURL = api.Server.URL + "/userinfo"
}

func TestIsConfigured(t *testing.T) {
	h, _ := newTestHandler(t, &memStates{})
	if !h.IsConfigured() {
		t.Error("expected configured handler")
	}
	h.ClientSecret = ""
	if h.IsConfigured() {
		t.Error("missing secret should not be configured")
	}
}

func TestIsAllowed_NormalizesEmail(t *testing.T) {
	h, _ := newTestHandler(t, &memStates{})
	if !h.IsAllowed("boss@example.com") || !h.IsAllowed("  BOSS@example.COM") {
		t.Error("allowlisted email should be allowed regardless of case and spacing")
	}
	if h.IsAllowed("") || h.IsAllowed("other@example.com") {
		t.Error("unlisted email should be refused")
	}
}

func TestRedirectURL(t *testing.T) {
	h, _ := newTestHandler(t, &memStates{})
	if h.RedirectURL != "http://localhost:8080/auth/google/callback" {
		t.Errorf("RedirectURL = %q", h.RedirectURL)
	}
}

func TestServeLogin_NotConfigured(t *testing.T) {
	h, _ := newTestHandler(t, &memStates{})
	h.ClientID = ""

	rec := httptest.NewRecorder()
	h.ServeLogin(rec, httptest.NewRequest("GET", "/auth/google", nil))

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/login?error=google_not_configured" {
		t.Errorf("Location = %q", loc)
	}
}

func TestServeLogin_RedirectsToProviderWithState(t *testing.T) {
	states := &memStates{}
	h, _ := newTestHandler(t, states)

	rec := httptest.NewRecorder()
	h.ServeLogin(rec, httptest.NewRequest("GET", "/auth/google?return=/admin/coupons", nil))

	if rec.Code != http.StatusTemporaryRedirect {
		t.Fatalf("status = %d, want 307", rec.Code)
	}
	loc, err := url.Parse(rec.Header().Get("Location"))
	if err != nil {
		t.Fatalf("bad Location: %v", err)
	}
	if !strings.Contains(loc.Host, "google") {
		t.Errorf("expected redirect to Google, got %s", loc)
	}
	state := loc.Query().Get("state")
	if state == "" {
		t.Fatal("expected state in redirect")
	}
	if got := states.m[state]; got != "/admin/coupons" {
		t.Errorf("saved return = %q, want /admin/coupons", got)
	}
}

func TestServeCallback_ProviderError(t *testing.T) {
	h, _ := newTestHandler(t, &memStates{})
	rec := httptest.NewRecorder()
	h.ServeCallback(rec, httptest.NewRequest("GET", "/auth/google/callback?error=access_denied", nil))

	if loc := rec.Header().Get("Location"); loc != "/login?error=google_denied" {
		t.Errorf("Location = %q", loc)
	}
}

func TestServeCallback_BadState(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{"missing", "?code=abc"},
		{"unknown", "?state=nope&code=abc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := newTestHandler(t, &memStates{})
			rec := httptest.NewRecorder()
			h.ServeCallback(rec, httptest.NewRequest("GET", "/auth/google/callback"+tt.query, nil))

			if loc := rec.Header().Get("Location"); loc != "/login?error=invalid_state" {
				t.Errorf("Location = %q", loc)
			}
		})
	}
}

func TestServeCallback_AllowedSignsIn(t *testing.T) {
	states := &memStates{}
	h, logs := newTestHandler(t, states)
	api := fakeGoogle(t, `{"id":"1","email":"boss@example.com","verified_email":true,"name":"The Boss"}`)
	pointAt(h, api)
	_ = states.Save(context.Background(), "s1", "/admin/employees", time.Now())

	rec := httptest.NewRecorder()
	h.ServeCallback(rec, httptest.NewRequest("GET", "/auth/google/callback?state=s1&code=abc", nil))

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/admin/employees" {
		t.Errorf("Location = %q, want /admin/employees", loc)
	}
	if len(rec.Result().Cookies()) == 0 {
		t.Error("expected a session cookie")
	}
	if logs.FilterField(zap.String("event_type", audit.EventLoginSuccess)).Len() != 1 {
		t.Error("expected a login_success audit entry")
	}
}

func TestServeCallback_NotAllowlisted(t *testing.T) {
	states := &memStates{}
	h, logs := newTestHandler(t, states)
	api := fakeGoogle(t, `{"id":"2","email":"stranger@example.com","verified_email":true}`)
	pointAt(h, api)
	_ = states.Save(context.Background(), "s2", "", time.Now())

	rec := httptest.NewRecorder()
	h.ServeCallback(rec, httptest.NewRequest("GET", "/auth/google/callback?state=s2&code=abc", nil))

	if loc := rec.Header().Get("Location"); loc != "/login?error=not_allowed" {
		t.Errorf("Location = %q", loc)
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Error("refused sign-in must not set a cookie")
	}
	if logs.FilterField(zap.String("event_type", audit.EventLoginFailedNotAllowed)).Len() != 1 {
		t.Error("expected a login_failed_not_allowed audit entry")
	}
}

func TestServeCallback_UnverifiedEmail(t *testing.T) {
	states := &memStates{}
	h, _ := newTestHandler(t, states)
	api := fakeGoogle(t, `{"id":"3","email":"boss@example.com","verified_email":false}`)
	pointAt(h, api)
	_ = states.Save(context.Background(), "s3", "", time.Now())

	rec := httptest.NewRecorder()
	h.ServeCallback(rec, httptest.NewRequest("GET", "/auth/google/callback?state=s3&code=abc", nil))

	if loc := rec.Header().Get("Location"); loc != "/login?error=not_allowed" {
		t.Errorf("Location = %q", loc)
	}
}
