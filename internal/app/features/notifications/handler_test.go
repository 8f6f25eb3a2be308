package notifications_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	uierrors "github.com/dalemusser/aftershift/internal/app/features/errors"
	"github.com/dalemusser/aftershift/internal/app/features/notifications"
	"github.com/dalemusser/aftershift/internal/app/store/audit"
	"github.com/dalemusser/aftershift/internal/app/system/auditlog"
	"github.com/dalemusser/aftershift/internal/app/system/notify"
	"github.com/dalemusser/aftershift/internal/domain/models"
	"github.com/dalemusser/aftershift/internal/testutil"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func newHandler(t *testing.T, feed notifications.Feed) (*notifications.Handler, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zap.InfoLevel)
	logger := zap.NewNop()
	h := notifications.NewHandler(feed, nil, uierrors.NewErrorLogger(logger),
		auditlog.New(nil, zap.New(core), auditlog.Config{Admin: "log"}), logger)
	return h, logs
}

// centerWithBackend builds a real Center over a fake backend holding two
// notifications, one unread.
func centerWithBackend(t *testing.T) (*notify.Center, *testutil.FakeAPI) {
	t.Helper()
	api := testutil.NewFakeAPI(t)
	api.JSON("GET", "/api/notifications", http.StatusOK, models.NotificationList{
		Notifications: []models.Notification{
			{ID: "n1", Type: models.NotifyUsageAlert, Title: "Low usage", Message: "Kitchen is low", Priority: models.PriorityHigh},
			{ID: "n2", Type: models.NotifySystem, Title: "Backup", Message: "Backup done", Read: true},
		},
		UnreadCount: 1,
	})
	api.JSON("POST", "/api/notifications/n1/read", http.StatusOK, map[string]bool{"success": true})
	api.JSON("POST", "/api/notifications/read-all", http.StatusOK, map[string]bool{"success": true})
	api.JSON("DELETE", "/api/notifications/n2", http.StatusOK, map[string]bool{"success": true})

	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	c := notify.NewCenterWithClock(api.Client(t), nil, zap.NewNop(), func() time.Time { return now })
	if err := c.Init(context.Background()); err != nil {
		t.Fatalf("Init: %v", err)
	}
	return c, api
}

func TestFilter(t *testing.T) {
	items := []models.Notification{
		{ID: "1", Type: models.NotifyUsageAlert},
		{ID: "2", Type: models.NotifySystem, Read: true},
		{ID: "3", Type: models.NotifyUsageAlert, Read: true},
	}
	tests := []struct {
		typ    string
		unread bool
		want   []string
	}{
		{"", false, []string{"1", "2", "3"}},
		{models.NotifyUsageAlert, false, []string{"1", "3"}},
		{"", true, []string{"1"}},
		{models.NotifySystem, true, nil},
	}
	for _, tt := range tests {
		got := notifications.Filter(items, tt.typ, tt.unread)
		if len(got) != len(tt.want) {
			t.Errorf("Filter(%q, %v) = %d items, want %d", tt.typ, tt.unread, len(got), len(tt.want))
			continue
		}
		for i := range got {
			if got[i].ID != tt.want[i] {
				t.Errorf("Filter(%q, %v)[%d] = %s, want %s", tt.typ, tt.unread, i, got[i].ID, tt.want[i])
			}
		}
	}
}

func TestServeCount(t *testing.T) {
	c, _ := centerWithBackend(t)
	h, _ := newHandler(t, c)

	rec := httptest.NewRecorder()
	h.ServeCount(rec, testutil.AsAdmin(httptest.NewRequest("GET", "/admin/notifications/count", nil)))

	var body map[string]int
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["unread"] != 1 {
		t.Errorf("unread = %d, want 1", body["unread"])
	}
}

func TestHandleRead(t *testing.T) {
	c, api := centerWithBackend(t)
	h, logs := newHandler(t, c)

	req := testutil.WithChiURLParam(testutil.AsAdmin(httptest.NewRequest("POST", "/admin/notifications/n1/read", nil)), "id", "n1")
	rec := httptest.NewRecorder()
	h.HandleRead(rec, req)

	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/admin/notifications" {
		t.Errorf("got %d %q", rec.Code, rec.Header().Get("Location"))
	}
	if !api.Called("POST /api/notifications/n1/read") {
		t.Error("backend not called")
	}
	if c.Unread() != 0 {
		t.Errorf("Unread() = %d, want 0", c.Unread())
	}
	if n := logs.FilterField(zap.String("event_type", audit.EventNotificationRead)).Len(); n != 1 {
		t.Errorf("audit entries = %d", n)
	}
}

func TestHandleReadAll_HTMX(t *testing.T) {
	c, api := centerWithBackend(t)
	h, _ := newHandler(t, c)

	req := testutil.AsAdmin(httptest.NewRequest("POST", "/admin/notifications/read-all", nil))
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()
	h.HandleReadAll(rec, req)

	if rec.Header().Get("HX-Redirect") != "/admin/notifications" {
		t.Errorf("HX-Redirect = %q", rec.Header().Get("HX-Redirect"))
	}
	if !api.Called("POST /api/notifications/read-all") || c.Unread() != 0 {
		t.Errorf("read-all not applied: calls=%v unread=%d", api.Calls(), c.Unread())
	}
}

func TestHandleDelete(t *testing.T) {
	c, _ := centerWithBackend(t)
	h, _ := newHandler(t, c)

	req := testutil.WithChiURLParam(testutil.AsAdmin(httptest.NewRequest("POST", "/admin/notifications/n2/delete", nil)), "id", "n2")
	h.HandleDelete(httptest.NewRecorder(), req)

	for _, n := range c.Items() {
		if n.ID == "n2" {
			t.Fatal("n2 still in feed")
		}
	}
	if len(c.Items()) != 1 {
		t.Errorf("items = %d, want 1", len(c.Items()))
	}
}

type failingFeed struct{ notifications.Feed }

func (failingFeed) MarkRead(context.Context, string) error { return errors.New("backend down") }

func TestHandleRead_FailureIsAudited(t *testing.T) {
	h, logs := newHandler(t, failingFeed{})

	req := testutil.WithChiURLParam(testutil.AsAdmin(httptest.NewRequest("POST", "/admin/notifications/x/read", nil)), "id", "x")
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()
	h.HandleRead(rec, req)

	if rec.Header().Get("HX-Retarget") != "#flash" {
		t.Errorf("expected flash retarget, headers %v", rec.Header())
	}
	entries := logs.FilterField(zap.String("event_type", audit.EventNotificationRead)).All()
	if len(entries) != 1 || entries[0].ContextMap()["success"] != false {
		t.Errorf("entries = %+v", entries)
	}
}

func TestServeWS_DisabledWithoutStream(t *testing.T) {
	h, _ := newHandler(t, failingFeed{})
	rec := httptest.NewRecorder()
	h.ServeWS(rec, httptest.NewRequest("GET", "/admin/notifications/ws", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d", rec.Code)
	}
}
