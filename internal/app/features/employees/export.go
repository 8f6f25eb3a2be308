// internal/app/features/employees/export.go
package employees

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/dalemusser/aftershift/internal/app/store/audit"
	"github.com/dalemusser/aftershift/internal/app/system/spreadsheet"
	"github.com/dalemusser/aftershift/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/pantry/query"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ServeExport handles GET /admin/employees/export. The current search
// filter applies, so the file matches what the list shows.
func (h *Handler) ServeExport(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	all, err := h.API.ListEmployees(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list employees for export failed", err, "Failed to fetch employees. Please try again later.", "/admin/employees")
		return
	}
	rows := Filter(all, query.Get(r, "q"))

	var buf bytes.Buffer
	if err := spreadsheet.WriteEmployees(&buf, rows); err != nil {
		h.ErrLog.LogServerError(w, r, "write employees xlsx failed", err, "Failed to build the export.", "/admin/employees")
		return
	}

	h.AuditLog.Admin(ctx, r, actor(r), audit.EventEmployeesExported, "",
		map[string]string{"rows": strconv.Itoa(len(rows))})

	name := fmt.Sprintf("employees-%s.xlsx", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	_, _ = w.Write(buf.Bytes())
}
