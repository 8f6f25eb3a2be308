// internal/app/features/coupons/calendar.go
package coupons

import (
	"context"
	"net/http"
	"time"

	"github.com/dalemusser/aftershift/internal/app/system/couponcal"
	"github.com/dalemusser/aftershift/internal/app/system/timeouts"
	"github.com/dalemusser/aftershift/internal/app/system/viewdata"
	"github.com/dalemusser/aftershift/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

type dashboardData struct {
	viewdata.BaseVM
	Employees  []models.Employee
	Months     []couponcal.Option
	Years      []couponcal.Option
	EmployeeID int64
	Month      int
	Year       int

	Selected *models.Employee
	Calendar *couponcal.Month
	Stats    models.CouponStats
	Weekdays []string
}

var weekdays = []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// ServeDashboard handles GET /admin/coupons. Without an employee it shows
// only the filters; with one it lays that employee's month on a calendar.
func (h *Handler) ServeDashboard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	month, year := h.period(r)
	data := dashboardData{
		BaseVM:     viewdata.NewBaseVM(r, "Coupon Dashboard", "/admin"),
		Months:     couponcal.MonthOptions(),
		Years:      couponcal.YearOptions(h.Now().Year()-1, 3),
		EmployeeID: atoi64(query.Get(r, "employee_id")),
		Month:      month,
		Year:       year,
		Weekdays:   weekdays,
	}

	emps, err := h.API.ListEmployees(ctx)
	if err != nil {
		h.Log.Warn("list employees failed", zap.Error(err))
		data.SetError("Failed to fetch employees")
	}
	data.Employees = emps
	for i := range emps {
		if emps[i].ID == data.EmployeeID {
			data.Selected = &emps[i]
			break
		}
	}

	if data.EmployeeID > 0 {
		today := h.today()
		list, err := h.API.ListCoupons(ctx, models.CouponFilter{EmployeeID: data.EmployeeID, Month: month, Year: year})
		if err != nil {
			h.Log.Warn("list coupons failed", zap.Error(err), zap.Int64("employee", data.EmployeeID))
			data.SetError("Failed to fetch coupons")
		} else {
			cal := couponcal.BuildMonth(year, time.Month(month), list.Coupons, h.Holidays, today)
			data.Calendar = &cal
			data.Stats = couponcal.StatsOrSummary(list, today)
		}
	}

	templates.Render(w, r, "coupons_dashboard", data)
}
