package departments_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/aftershift/internal/app/features/departments"
	"github.com/dalemusser/aftershift/internal/domain/models"
	"github.com/dalemusser/aftershift/internal/testutil"
	"go.uber.org/zap"
)

func comparison() models.DepartmentComparison {
	return models.DepartmentComparison{
		Departments: []models.DepartmentStats{
			{Department: "Kitchen", ClaimRate: 82.5, Trend: models.TrendUp, TrendPercentage: 4.2,
				MonthlyData: []models.DepartmentMonth{{Month: "Jan", Generated: 10, Claimed: 8}, {Month: "Feb", Generated: 10, Claimed: 9}}},
			{Department: "Front Desk", ClaimRate: 61, Trend: models.TrendDown, TrendPercentage: -3,
				MonthlyData: []models.DepartmentMonth{{Month: "Jan", Generated: 20, Claimed: 12}, {Month: "Feb", Generated: 20, Claimed: 11}}},
			{Department: "Security", ClaimRate: 74.9, Trend: "flat"},
		},
		TotalStats: models.DepartmentTotals{TotalDepartments: 3},
	}
}

func TestSelection(t *testing.T) {
	req := httptest.NewRequest("GET", "/admin/analytics/departments?dept=Kitchen&dept=+Kitchen+&dept=&dept=Security", nil)
	got := departments.Selection(req)
	if len(got) != 2 || got[0] != "Kitchen" || got[1] != "Security" {
		t.Errorf("Selection() = %v", got)
	}
}

func TestBuild(t *testing.T) {
	p := departments.Build(comparison(), []string{"Kitchen", "Front Desk", "Nope"})

	if p.Top == nil || p.Top.Department != "Kitchen" {
		t.Errorf("Top = %+v", p.Top)
	}
	if len(p.Low) != 2 || p.Low[0].Department != "Front Desk" || p.Low[1].Department != "Security" {
		t.Errorf("Low = %+v", p.Low)
	}
	if len(p.Rows) != 3 || !p.Rows[0].Selected || p.Rows[2].Selected {
		t.Errorf("row selection wrong: %+v", p.Rows)
	}
	if p.Rows[2].Trend.Arrow != "→" || p.Rows[1].Trend.Percent != 3 {
		t.Errorf("trends = %+v / %+v", p.Rows[2].Trend, p.Rows[1].Trend)
	}
	if len(p.Selected) != 2 {
		t.Errorf("unknown department should be dropped, got %v", p.Selected)
	}
	if len(p.Comparison) != 2 || p.Comparison[0].Claimed != 20 || p.Comparison[1].Generated != 30 {
		t.Errorf("Comparison = %+v", p.Comparison)
	}
	if len(p.ClaimBars) != 2 || p.ClaimBars[1].Width != 100 || p.ClaimBars[0].Width != 100 {
		t.Errorf("ClaimBars = %+v", p.ClaimBars)
	}
}

func TestBuild_NoSelection(t *testing.T) {
	p := departments.Build(comparison(), nil)
	if p.Comparison != nil || p.ClaimBars != nil {
		t.Errorf("expected no comparison, got %+v", p.Comparison)
	}
	if len(p.RateBars) != 3 || p.RateBars[0].Width != 83 {
		t.Errorf("RateBars = %+v", p.RateBars)
	}
}

func TestServeDepartments_FetchesComparisonAndAlerts(t *testing.T) {
	api := testutil.NewFakeAPI(t)
	api.JSON("GET", "/api/analytics/departments-dynamic", http.StatusOK, comparison())
	api.JSON("GET", "/api/analytics/usage-alerts", http.StatusOK, models.UsageAlerts{})
	h := departments.NewHandler(api.Client(t), zap.NewNop())

	req := testutil.AsAdmin(httptest.NewRequest("GET", "/admin/analytics/departments", nil))
	req.Header.Set("HX-Request", "true")
	req.Header.Set("HX-Target", "department-panels")
	func() {
		defer func() { _ = recover() }()
		h.ServeDepartments(httptest.NewRecorder(), req)
	}()

	if !api.Called("GET /api/analytics/departments-dynamic") || !api.Called("GET /api/analytics/usage-alerts") {
		t.Errorf("calls = %v", api.Calls())
	}
}
