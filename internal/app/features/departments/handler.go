// internal/app/features/departments/handler.go
package departments

import (
	"context"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/dalemusser/aftershift/internal/app/system/apiclient"
	"github.com/dalemusser/aftershift/internal/app/system/deptstats"
	"github.com/dalemusser/aftershift/internal/app/system/timeouts"
	"github.com/dalemusser/aftershift/internal/app/system/viewdata"
	"github.com/dalemusser/aftershift/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	// RefreshSeconds is the live polling interval.
	RefreshSeconds = 30
	// LowThreshold flags departments whose claim rate is below it.
	LowThreshold = 75.0

	msgFetchFailed = "Failed to load department analytics. Please try again later."
)

type Handler struct {
	API *apiclient.Client
	Log *zap.Logger
	Now func() time.Time
}

func NewHandler(api *apiclient.Client, logger *zap.Logger) *Handler {
	return &Handler{API: api, Log: logger, Now: time.Now}
}

type deptRow struct {
	models.DepartmentStats
	Trend    deptstats.Trend
	Low      bool
	Selected bool
}

// Panels is the refreshable body of the page.
type Panels struct {
	Live           bool
	RefreshSeconds int
	RefreshURL     string
	RefreshedAt    string
	Err            string

	Totals      models.DepartmentTotals
	LastUpdated string
	Rows        []deptRow
	Top         *models.DepartmentStats
	Low         []models.DepartmentStats
	Threshold   float64
	RateBars    []deptstats.Bar

	Selected   []string
	Comparison []models.DepartmentMonth
	ClaimBars  []deptstats.Bar

	Alerts []models.UsageAlert
}

type pageData struct {
	viewdata.BaseVM
	Panels Panels
}

// Selection reads the repeated ?dept= values, trimmed and deduplicated
// in order.
func Selection(r *http.Request) []string {
	var out []string
	for _, d := range r.URL.Query()["dept"] {
		d = strings.TrimSpace(d)
		if d != "" && !slices.Contains(out, d) {
			out = append(out, d)
		}
	}
	return out
}

// Build assembles the panels from a comparison.
func Build(cmp models.DepartmentComparison, selected []string) Panels {
	p := Panels{
		Totals:      cmp.TotalStats,
		LastUpdated: cmp.LastUpdated,
		Threshold:   LowThreshold,
		Low:         deptstats.LowPerformers(cmp.Departments, LowThreshold),
		RateBars:    deptstats.ClaimRateBars(cmp.Departments),
	}
	if top, ok := deptstats.Top(cmp.Departments); ok {
		p.Top = &top
	}
	for _, d := range cmp.Departments {
		p.Rows = append(p.Rows, deptRow{
			DepartmentStats: d,
			Trend:           deptstats.TrendOf(d),
			Low:             d.ClaimRate < LowThreshold,
			Selected:        slices.Contains(selected, d.Department),
		})
	}

	// Only departments that exist are compared.
	for _, s := range selected {
		if _, ok := deptstats.Find(cmp.Departments, s); ok {
			p.Selected = append(p.Selected, s)
		}
	}
	if len(p.Selected) > 0 {
		p.Comparison = deptstats.CombineMonthly(cmp.Departments, p.Selected)
		labels := make([]string, 0, len(p.Comparison))
		claimed := make([]float64, 0, len(p.Comparison))
		for _, m := range p.Comparison {
			labels = append(labels, m.Month)
			claimed = append(claimed, float64(m.Claimed))
		}
		p.ClaimBars = deptstats.Bars(labels, claimed)
	}
	return p
}

// ServeDepartments handles GET /admin/analytics/departments. HTMX polls
// with HX-Target department-panels get only the panels.
func (h *Handler) ServeDepartments(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	selected := Selection(r)
	live := r.URL.Query().Get("live") != "0"

	var (
		g      errgroup.Group
		cmp    models.DepartmentComparison
		cmpErr error
		alerts models.UsageAlerts
	)
	g.Go(func() error {
		cmp, cmpErr = h.API.DepartmentComparison(ctx)
		return nil
	})
	g.Go(func() error {
		var err error
		if alerts, err = h.API.UsageAlerts(ctx); err != nil {
			h.Log.Warn("usage alerts failed", zap.Error(err))
		}
		return nil
	})
	_ = g.Wait()

	var p Panels
	if cmpErr != nil {
		h.Log.Warn("department comparison failed", zap.Error(cmpErr))
		p = Panels{Err: msgFetchFailed, Threshold: LowThreshold, Selected: selected}
	} else {
		p = Build(cmp, selected)
	}
	p.Alerts = alerts.Alerts
	p.Live = live
	p.RefreshSeconds = RefreshSeconds
	p.RefreshURL = refreshURL(selected)
	p.RefreshedAt = h.Now().Format("15:04:05")

	if r.Header.Get("HX-Request") == "true" && r.Header.Get("HX-Target") == "department-panels" {
		templates.RenderSnippet(w, "departments_panels", p)
		return
	}
	templates.Render(w, r, "departments", pageData{
		BaseVM: viewdata.NewBaseVM(r, "Department Analytics", "/admin"),
		Panels: p,
	})
}

func refreshURL(selected []string) string {
	if len(selected) == 0 {
		return "/admin/analytics/departments"
	}
	return "/admin/analytics/departments?" + url.Values{"dept": selected}.Encode()
}
