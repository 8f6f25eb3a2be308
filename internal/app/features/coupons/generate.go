// internal/app/features/coupons/generate.go
package coupons

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/dalemusser/aftershift/internal/app/system/apiclient"
	"github.com/dalemusser/aftershift/internal/app/system/couponcal"
	"github.com/dalemusser/aftershift/internal/app/system/timeouts"
	"github.com/dalemusser/aftershift/internal/app/system/viewdata"
	"github.com/dalemusser/aftershift/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

// Generation modes posted by the form.
const (
	modeSingle = "single"
	modeAll    = "all"
)

type generateData struct {
	viewdata.BaseVM
	Employees  []models.Employee
	Months     []couponcal.Option
	Years      []couponcal.Option
	EmployeeID int64
	Month      int
	Year       int
	Result     generateResult
}

// generateResult is the toast-style outcome swapped into #generate-result.
type generateResult struct {
	OK      bool
	Message string
}

// GenerateInput is the parsed generation form.
type GenerateInput struct {
	Mode       string
	EmployeeID int64
	Month      int
	Year       int
}

// ParseGenerate reads the form. Unparseable numbers come back as zero.
func ParseGenerate(r *http.Request) GenerateInput {
	in := GenerateInput{
		Mode:       strings.TrimSpace(r.FormValue("mode")),
		EmployeeID: atoi64(strings.TrimSpace(r.FormValue("employee_id"))),
	}
	if in.Mode != modeAll {
		in.Mode = modeSingle
	}
	in.Month, _ = strconv.Atoi(strings.TrimSpace(r.FormValue("month")))
	in.Year, _ = strconv.Atoi(strings.TrimSpace(r.FormValue("year")))
	if in.Month < 1 || in.Month > 12 {
		in.Month = 0
	}
	return in
}

// Validate returns the message for an incomplete selection.
func (in GenerateInput) Validate() string {
	if in.Mode == modeAll {
		if in.Month == 0 || in.Year == 0 {
			return "Please select month and year"
		}
		return ""
	}
	if in.EmployeeID == 0 || in.Month == 0 || in.Year == 0 {
		return "Please select employee, month, and year"
	}
	return ""
}

func (h *Handler) generatePage(ctx context.Context, r *http.Request, in GenerateInput) generateData {
	now := h.Now()
	data := generateData{
		BaseVM:     viewdata.NewBaseVM(r, "Generate Coupons", "/admin"),
		Months:     couponcal.MonthOptions(),
		Years:      couponcal.YearOptions(now.Year(), 3),
		EmployeeID: in.EmployeeID,
		Month:      in.Month,
		Year:       in.Year,
	}
	if data.Month == 0 {
		data.Month = int(now.Month())
	}
	if data.Year == 0 {
		data.Year = now.Year()
	}
	emps, err := h.API.ListEmployees(ctx)
	if err != nil {
		h.Log.Warn("list employees failed", zap.Error(err))
		data.SetError("Failed to fetch employees")
	}
	data.Employees = emps
	return data
}

// ServeGenerate handles GET /admin/coupons/generate.
func (h *Handler) ServeGenerate(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()
	templates.Render(w, r, "coupons_generate", h.generatePage(ctx, r, GenerateInput{}))
}

// HandleGenerate handles POST /admin/coupons/generate for one employee
// or, with mode=all, for everyone.
func (h *Handler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form submission.", "/admin/coupons/generate")
		return
	}
	in := ParseGenerate(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	res := h.generate(ctx, r, in)

	if isHTMX(r) {
		templates.RenderSnippet(w, "coupons_generate_result", res)
		return
	}
	data := h.generatePage(ctx, r, in)
	if res.OK {
		// A successful single run clears the employee so the next pick is deliberate.
		data.EmployeeID = 0
	}
	data.Result = res
	templates.Render(w, r, "coupons_generate", data)
}

func (h *Handler) generate(ctx context.Context, r *http.Request, in GenerateInput) generateResult {
	if msg := in.Validate(); msg != "" {
		return generateResult{Message: msg}
	}

	if in.Mode == modeAll {
		out, err := h.API.GenerateAllCoupons(ctx, models.GenerateAllRequest{Month: in.Month, Year: in.Year})
		if err != nil {
			h.Log.Warn("generate all coupons failed", zap.Error(err), zap.Int("month", in.Month), zap.Int("year", in.Year))
			return generateResult{Message: apiclient.Message(err, "Failed to generate coupons for all employees")}
		}
		h.AuditLog.CouponsGenerated(ctx, r, actor(r), "all", in.Month, in.Year, out.TotalCoupons)
		return generateResult{OK: true, Message: fmt.Sprintf("Generated coupons for all employees! Total: %d", out.TotalCoupons)}
	}

	out, err := h.API.GenerateCoupons(ctx, models.GenerateRequest{EmployeeID: in.EmployeeID, Month: in.Month, Year: in.Year})
	if err != nil {
		h.Log.Warn("generate coupons failed", zap.Error(err), zap.Int64("employee", in.EmployeeID))
		return generateResult{Message: apiclient.Message(err, "Failed to generate coupons")}
	}
	h.AuditLog.CouponsGenerated(ctx, r, actor(r), strconv.FormatInt(in.EmployeeID, 10), in.Month, in.Year, out.Count)
	return generateResult{OK: true, Message: fmt.Sprintf("Generated %d coupons successfully!", out.Count)}
}
