// internal/app/features/employees/list.go
package employees

import (
	"context"
	"net/http"
	"strings"

	"github.com/dalemusser/aftershift/internal/app/system/paging"
	"github.com/dalemusser/aftershift/internal/app/system/timeouts"
	"github.com/dalemusser/aftershift/internal/app/system/viewdata"
	"github.com/dalemusser/aftershift/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/dalemusser/waffle/pantry/text"
	"go.uber.org/zap"
)

type listData struct {
	viewdata.BaseVM
	Q      string
	Rows   []models.Employee
	Paging paging.Info
}

// Filter keeps employees whose first name, last name, email or
// department contains q, ignoring case. An empty q keeps everyone.
func Filter(all []models.Employee, q string) []models.Employee {
	q = text.Fold(strings.TrimSpace(q))
	if q == "" {
		return all
	}
	var out []models.Employee
	for _, e := range all {
		if strings.Contains(text.Fold(e.FirstName), q) ||
			strings.Contains(text.Fold(e.LastName), q) ||
			strings.Contains(text.Fold(e.Email), q) ||
			strings.Contains(text.Fold(e.Department), q) {
			out = append(out, e)
		}
	}
	return out
}

// ServeList handles GET /admin/employees.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	data := listData{
		BaseVM: viewdata.NewBaseVM(r, "Employees", "/admin"),
		Q:      query.Get(r, "q"),
	}
	data.Success = flashes[query.Get(r, "flash")]

	all, err := h.API.ListEmployees(ctx)
	if err != nil {
		h.Log.Warn("list employees failed", zap.Error(err))
		data.SetError("Failed to fetch employees. Please try again later.")
	}

	rows, info := paging.Slice(Filter(all, data.Q), paging.ParsePage(r), paging.EmployeePageSize)
	data.Rows = rows
	data.Paging = info.KeepQuery(r.URL.Query())

	if r.Header.Get("HX-Request") == "true" && r.Header.Get("HX-Target") == "employee-table" {
		templates.RenderSnippet(w, "employees_table", data)
		return
	}
	templates.Render(w, r, "employees_list", data)
}
