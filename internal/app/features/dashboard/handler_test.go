package dashboard_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/dalemusser/aftershift/internal/app/features/dashboard"
	"github.com/dalemusser/aftershift/internal/domain/models"
	"github.com/dalemusser/aftershift/internal/testutil"
	"go.uber.org/zap"
)

var fixedNow = time.Date(2025, time.March, 18, 14, 30, 0, 0, time.UTC)

func TestParseFilter(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  dashboard.Filter
	}{
		{"defaults", "", dashboard.Filter{From: "2025-03-01", To: "2025-03-18", Live: true, EmployeeID: "all"}},
		{"explicit", "from=2025-01-01&to=2025-01-31&live=0&employee=7",
			dashboard.Filter{From: "2025-01-01", To: "2025-01-31", Live: false, EmployeeID: "7"}},
		{"inverted range swapped", "from=2025-02-10&to=2025-02-01",
			dashboard.Filter{From: "2025-02-01", To: "2025-02-10", Live: true, EmployeeID: "all"}},
		{"bad dates fall back", "from=yesterday&to=2025-13-40",
			dashboard.Filter{From: "2025-03-01", To: "2025-03-18", Live: true, EmployeeID: "all"}},
		{"live false word", "live=false", dashboard.Filter{From: "2025-03-01", To: "2025-03-18", Live: false, EmployeeID: "all"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/admin?"+tt.query, nil)
			if got := dashboard.ParseFilter(req, fixedNow); got != tt.want {
				t.Errorf("ParseFilter() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestFilterQuery(t *testing.T) {
	f := dashboard.Filter{From: "2025-03-01", To: "2025-03-18", Live: false, EmployeeID: "a&b"}
	v, err := url.ParseQuery(f.Query())
	if err != nil {
		t.Fatalf("ParseQuery: %v", err)
	}
	if v.Get("live") != "0" || v.Get("employee") != "a&b" || v.Get("from") != "2025-03-01" {
		t.Errorf("Query() = %q", f.Query())
	}
	if got := string(f.RefreshURL()); got != "/admin?"+f.Query() {
		t.Errorf("RefreshURL() = %q", got)
	}
}

func TestDailyRows(t *testing.T) {
	rows := dashboard.DailyRows([]models.DailyStat{
		{Date: "2025-03-01", Generated: 40, Claimed: 30, Expired: 10},
		{Date: "2025-03-02", Generated: 20, Claimed: 0, Expired: 0},
	})
	if len(rows) != 2 {
		t.Fatalf("len = %d", len(rows))
	}
	if rows[0].GeneratedWidth != 100 || rows[0].ClaimedWidth != 75 || rows[0].ExpiredWidth != 25 {
		t.Errorf("row 0 widths = %+v", rows[0])
	}
	if rows[1].GeneratedWidth != 50 || rows[1].ClaimedWidth != 0 {
		t.Errorf("row 1 widths = %+v", rows[1])
	}
	if got := dashboard.DailyRows(nil); len(got) != 0 {
		t.Errorf("DailyRows(nil) = %v", got)
	}
}

func TestTopRows(t *testing.T) {
	var top []models.TopEmployee
	for i := 0; i < 12; i++ {
		top = append(top, models.TopEmployee{EmployeeID: int64(i + 1), TotalCoupons: 20, TotalClaimed: 20 - i})
	}
	rows := dashboard.TopRows(top, dashboard.TopLimit)
	if len(rows) != 10 {
		t.Fatalf("len = %d, want 10", len(rows))
	}
	if rows[0].Rank != 1 || rows[0].Percent != 100 {
		t.Errorf("first row = %+v", rows[0])
	}
	if rows[9].Rank != 10 || rows[9].EmployeeID != 10 {
		t.Errorf("last row = %+v", rows[9])
	}
}

type capture struct {
	mu  sync.Mutex
	got url.Values
}

func (c *capture) set(v url.Values) {
	c.mu.Lock()
	c.got = v
	c.mu.Unlock()
}

func (c *capture) get() url.Values {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.got
}

func newFixture(t *testing.T) (*dashboard.Handler, *testutil.FakeAPI, *capture) {
	t.Helper()
	api := testutil.NewFakeAPI(t)
	live := &capture{}
	api.Handle("GET", "/api/analytics/live", func(w http.ResponseWriter, r *http.Request) {
		live.set(r.URL.Query())
		testutil.WriteJSON(w, http.StatusOK, models.LiveAnalytics{
			Overview: models.AnalyticsOverview{TotalCoupons: 10, ClaimedCoupons: 7},
		})
	})
	api.JSON("GET", "/api/top-performing-employees", http.StatusOK, []models.TopEmployee{{EmployeeID: 1, TotalCoupons: 10, TotalClaimed: 7}})
	api.JSON("GET", "/api/employees", http.StatusOK, []models.Employee{{ID: 1, FirstName: "Ana", LastName: "Reyes"}})

	h := dashboard.NewHandler(api.Client(t), zap.NewNop())
	h.Now = func() time.Time { return fixedNow }
	return h, api, live
}

func serve(h *dashboard.Handler, req *http.Request) {
	defer func() { _ = recover() }()
	h.ServeDashboard(httptest.NewRecorder(), req)
}

func TestServeDashboard_FullPage(t *testing.T) {
	h, api, live := newFixture(t)

	req := testutil.AsAdmin(httptest.NewRequest("GET", "/admin?from=2025-03-01&to=2025-03-10&employee=1", nil))
	serve(h, req)

	for _, call := range []string{"GET /api/analytics/live", "GET /api/top-performing-employees", "GET /api/employees"} {
		if !api.Called(call) {
			t.Errorf("expected %s", call)
		}
	}
	q := live.get()
	if q.Get("from") != "2025-03-01" || q.Get("to") != "2025-03-10" || q.Get("live") != "true" || q.Get("employee") != "1" {
		t.Errorf("live analytics query = %v", q)
	}
}

func TestServeDashboard_PanelsFragment(t *testing.T) {
	h, api, live := newFixture(t)

	req := testutil.AsAdmin(httptest.NewRequest("GET", "/admin?live=0", nil))
	req.Header.Set("HX-Request", "true")
	req.Header.Set("HX-Target", "dashboard-panels")
	serve(h, req)

	if api.Called("GET /api/employees") {
		t.Error("fragment refresh should not reload the employee filter")
	}
	q := live.get()
	if q.Get("live") != "false" {
		t.Errorf("live = %q, want false", q.Get("live"))
	}
	if q.Has("employee") {
		t.Errorf("employee=all should not be forwarded, got %v", q)
	}
}
