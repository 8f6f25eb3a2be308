// internal/app/features/dashboard/dashboard.go
package dashboard

import (
	"context"
	"net/http"

	"github.com/dalemusser/aftershift/internal/app/system/timeouts"
	"github.com/dalemusser/aftershift/internal/app/system/viewdata"
	"github.com/dalemusser/aftershift/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Panel error messages.
const (
	msgAnalyticsFailed = "Failed to load analytics. Please try again later."
	msgTopFailed       = "Failed to load top employees. Please try again later."
)

type dailyRow struct {
	models.DailyStat
	GeneratedWidth int
	ClaimedWidth   int
	ExpiredWidth   int
}

type topRow struct {
	Rank int
	models.TopEmployee
	Percent float64
}

// panels is everything inside #dashboard-panels; the live refresh
// re-renders only this part.
type panels struct {
	Filter         Filter
	RefreshSeconds int
	RefreshedAt    string

	Overview      models.AnalyticsOverview
	Daily         []dailyRow
	EmployeeStats []models.EmployeeStat
	AnalyticsErr  string

	Top    []topRow
	TopErr string
}

type dashboardData struct {
	viewdata.BaseVM
	Filter    Filter
	Employees []models.Employee
	Panels    panels
}

// ServeDashboard handles GET /admin. An HTMX request targeting
// dashboard-panels gets just the panels fragment.
func (h *Handler) ServeDashboard(w http.ResponseWriter, r *http.Request) {
	now := h.now()
	f := ParseFilter(r, now)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	fragment := r.Header.Get("HX-Request") == "true" && r.Header.Get("HX-Target") == "dashboard-panels"

	var (
		g    errgroup.Group
		p    panels
		emps []models.Employee
	)
	g.Go(func() error {
		p.loadAnalytics(ctx, h, f)
		return nil
	})
	g.Go(func() error {
		p.loadTop(ctx, h, f)
		return nil
	})
	if !fragment {
		g.Go(func() error {
			var err error
			emps, err = h.API.ListEmployees(ctx)
			if err != nil {
				h.Log.Warn("list employees for dashboard filter failed", zap.Error(err))
			}
			return nil
		})
	}
	_ = g.Wait()

	p.Filter = f
	p.RefreshSeconds = RefreshSeconds
	p.RefreshedAt = now.Format("15:04:05")

	if fragment {
		templates.RenderSnippet(w, "dashboard_panels", p)
		return
	}

	templates.Render(w, r, "dashboard", dashboardData{
		BaseVM:    viewdata.NewBaseVM(r, "Dashboard", "/"),
		Filter:    f,
		Employees: emps,
		Panels:    p,
	})
}

func (p *panels) loadAnalytics(ctx context.Context, h *Handler, f Filter) {
	a, err := h.API.LiveAnalytics(ctx, models.AnalyticsQuery{
		From:       f.From,
		To:         f.To,
		Live:       f.Live,
		EmployeeID: f.EmployeeID,
	})
	if err != nil {
		h.Log.Warn("live analytics failed", zap.Error(err), zap.String("from", f.From), zap.String("to", f.To))
		p.AnalyticsErr = msgAnalyticsFailed
		return
	}
	p.Overview = a.Overview
	p.Daily = DailyRows(a.DailyStats)
	p.EmployeeStats = a.EmployeeStats
}

func (p *panels) loadTop(ctx context.Context, h *Handler, f Filter) {
	top, err := h.API.TopEmployees(ctx, f.Live)
	if err != nil {
		h.Log.Warn("top employees failed", zap.Error(err))
		p.TopErr = msgTopFailed
		return
	}
	p.Top = TopRows(top, TopLimit)
}

// DailyRows scales each day's counts against the busiest generated
// count so the three bars of a row share one axis.
func DailyRows(stats []models.DailyStat) []dailyRow {
	peak := 0
	for _, s := range stats {
		peak = max(peak, s.Generated, s.Claimed, s.Expired)
	}
	out := make([]dailyRow, 0, len(stats))
	for _, s := range stats {
		out = append(out, dailyRow{
			DailyStat:      s,
			GeneratedWidth: width(s.Generated, peak),
			ClaimedWidth:   width(s.Claimed, peak),
			ExpiredWidth:   width(s.Expired, peak),
		})
	}
	return out
}

// TopRows ranks the backend's ordering and keeps the first limit rows.
func TopRows(top []models.TopEmployee, limit int) []topRow {
	if limit > 0 && len(top) > limit {
		top = top[:limit]
	}
	out := make([]topRow, 0, len(top))
	for i, t := range top {
		out = append(out, topRow{Rank: i + 1, TopEmployee: t, Percent: t.ClaimPercent()})
	}
	return out
}

func width(v, peak int) int {
	if peak <= 0 || v <= 0 {
		return 0
	}
	return v * 100 / peak
}
