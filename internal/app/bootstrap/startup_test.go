package bootstrap

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/aftershift/internal/app/system/auditlog"
	"github.com/dalemusser/aftershift/internal/app/system/couponcal"
	"github.com/dalemusser/aftershift/internal/app/system/metrics"
	"github.com/dalemusser/aftershift/internal/app/system/notify"
	"github.com/dalemusser/aftershift/internal/app/system/ratelimit"
	"github.com/dalemusser/aftershift/internal/testutil"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

func testLogger() *zap.Logger {
	return zap.NewNop()
}

func validConfig() AppConfig {
	return AppConfig{
		MongoURI:           "mongodb://localhost:27017",
		MongoDatabase:      "aftershift_test",
		SessionKey:         "test-session-key-0123456789ABCDEF0123456789",
		SessionName:        "aftershift-session",
		SessionMaxAge:      time.Hour,
		APIBaseURL:         "http://127.0.0.1:8000",
		APITimeout:         5 * time.Second,
		AdminEmail:         "admin@aftershift.com",
		NotifyPollInterval: 2 * time.Minute,
		AuditLogAuth:       "all",
		AuditLogAdmin:      "log",
	}
}

func TestValidateConfig(t *testing.T) {
	const hash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"
	tests := []struct {
		name    string
		mutate  func(*AppConfig)
		wantErr string
	}{
		{"defaults ok", func(*AppConfig) {}, ""},
		{"bcrypt hash ok", func(c *AppConfig) { c.AdminPasswordHash = hash }, ""},
		{"bad mongo uri", func(c *AppConfig) { c.MongoURI = "postgres://x" }, "invalid MongoDB URI"},
		{"empty api base", func(c *AppConfig) { c.APIBaseURL = " " }, "api_base_url is required"},
		{"ftp api base", func(c *AppConfig) { c.APIBaseURL = "ftp://backend" }, "http(s) URL"},
		{"plaintext password", func(c *AppConfig) { c.AdminPasswordHash = "hunter2" }, "not a bcrypt hash"},
		{"zero poll interval", func(c *AppConfig) { c.NotifyPollInterval = 0 }, "notify_poll_interval"},
		{"short csrf key", func(c *AppConfig) { c.CSRFKey = "short" }, "csrf_key"},
		{"unknown audit mode", func(c *AppConfig) { c.AuditLogAdmin = "verbose" }, "audit log mode"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := ValidateConfig(&config.CoreConfig{Env: "dev"}, cfg, testLogger())
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestSplitList(t *testing.T) {
	got := splitList(" a@x.com, ,b@x.com,")
	if len(got) != 2 || got[0] != "a@x.com" || got[1] != "b@x.com" {
		t.Errorf("splitList = %q", got)
	}
	if splitList("") != nil {
		t.Error("empty input should yield nil")
	}
}

func TestGoogleEnabled(t *testing.T) {
	cfg := validConfig()
	if cfg.GoogleEnabled() {
		t.Error("no client id or secret should disable Google")
	}
	cfg.GoogleClientID, cfg.GoogleClientSecret = "id", "secret"
	if !cfg.GoogleEnabled() {
		t.Error("client id and secret should enable Google")
	}
}

func TestEnsureSchema(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	deps := DBDeps{MongoDatabase: db}
	if err := EnsureSchema(ctx, nil, validConfig(), deps, testLogger()); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}
	// Idempotent on a second run.
	if err := EnsureSchema(ctx, nil, validConfig(), deps, testLogger()); err != nil {
		t.Fatalf("EnsureSchema second run: %v", err)
	}
}

func TestCSRFMiddleware_RejectsPostWithoutToken(t *testing.T) {
	mw, err := csrfMiddleware("", false, testLogger())
	if err != nil {
		t.Fatalf("csrfMiddleware: %v", err)
	}
	h := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/login", nil))
	if rec.Code != http.StatusNoContent {
		t.Errorf("GET status = %d, want 204", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("POST", "/login", strings.NewReader("email=a")))
	if rec.Code != http.StatusForbidden {
		t.Errorf("POST without token status = %d, want 403", rec.Code)
	}
}

// newTestDeps builds Services by hand so BuildHandler can run without
// MongoDB or a live backend.
func newTestDeps(t *testing.T, api *testutil.FakeAPI) DBDeps {
	t.Helper()
	// Connect does not dial until the first operation.
	client, err := mongo.Connect(context.Background(), options.Client().ApplyURI("mongodb://127.0.0.1:1"))
	if err != nil {
		t.Fatalf("mongo client: %v", err)
	}
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })

	logger := testLogger()
	backend := api.Client(t)
	return DBDeps{
		MongoClient:   client,
		MongoDatabase: client.Database("aftershift_test"),
		Services: &Services{
			Metrics:       metrics.New(),
			API:           backend,
			Audit:         auditlog.New(nil, logger, auditlog.Config{Auth: "log", Admin: "log"}),
			Center:        notify.NewCenter(backend, nil, logger),
			Hub:           notify.NewHub(nil, logger),
			Holidays:      couponcal.DefaultHolidays(),
			LoginLimiter:  ratelimit.NewLoginLimiter(),
			PublicLimiter: ratelimit.New(10, time.Minute),
		},
	}
}

func TestBuildHandler_Routes(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	deps := newTestDeps(t, api)

	h, err := BuildHandler(&config.CoreConfig{Env: "dev"}, validConfig(), deps, testLogger())
	if err != nil {
		t.Fatalf("BuildHandler: %v", err)
	}

	t.Run("admin requires sign-in", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/admin", nil)
		req.Header.Set("Accept", "text/html")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != http.StatusSeeOther {
			t.Fatalf("status = %d, want 303", rec.Code)
		}
		if loc := rec.Header().Get("Location"); !strings.HasPrefix(loc, "/login?return=") {
			t.Errorf("Location = %q", loc)
		}
	})

	t.Run("admin subpages require sign-in", func(t *testing.T) {
		for _, path := range []string{"/admin/employees", "/admin/coupons", "/admin/activity", "/admin/notifications"} {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest("GET", path, nil))
			if rec.Code != http.StatusUnauthorized {
				t.Errorf("%s status = %d, want 401", path, rec.Code)
			}
		}
	})

	t.Run("public api falls back and allows CORS", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/galleriescount", nil)
		req.Header.Set("Origin", "https://example.com")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		var body map[string]any
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if body["total"] != float64(42) {
			t.Errorf("total = %v, want fallback 42", body["total"])
		}
		if rec.Header().Get("Access-Control-Allow-Origin") == "" {
			t.Error("missing CORS header")
		}
	})

	t.Run("metrics exposed", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
		if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "aftershift_http_requests_total") {
			t.Errorf("metrics status = %d", rec.Code)
		}
	})

	t.Run("google routes absent when unconfigured", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest("GET", "/auth/google", nil))
		if rec.Code == http.StatusFound || rec.Code == http.StatusSeeOther {
			t.Errorf("unexpected redirect to Google: %d", rec.Code)
		}
	})
}

func TestBuildHandler_RequiresStartup(t *testing.T) {
	_, err := BuildHandler(&config.CoreConfig{Env: "dev"}, validConfig(), DBDeps{}, testLogger())
	if err == nil {
		t.Fatal("expected error without Services")
	}
}

func TestShutdown_StopsWorkers(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	deps := newTestDeps(t, api)
	deps.MongoClient = nil

	if err := Shutdown(context.Background(), nil, validConfig(), deps, testLogger()); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
}
