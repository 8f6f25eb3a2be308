// internal/app/features/employees/delete.go
package employees

import (
	"context"
	"net/http"
	"strconv"

	"github.com/dalemusser/aftershift/internal/app/store/audit"
	"github.com/dalemusser/aftershift/internal/app/system/apiclient"
	"github.com/dalemusser/aftershift/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// HandleDelete handles POST /admin/employees/{id}/delete.
// A missing employee counts as deleted.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		h.ErrLog.LogBadRequest(w, r, "bad employee id", nil, "Invalid employee.", "/admin/employees")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	subject := strconv.FormatInt(id, 10)
	if err := h.API.DeleteEmployee(ctx, id); err != nil && !apiclient.IsNotFound(err) {
		h.AuditLog.AdminFailed(ctx, r, actor(r), audit.EventEmployeeDeleted, subject, err.Error())
		if r.Header.Get("HX-Request") == "true" {
			h.ErrLog.HTMXLogServerError(w, r, "delete employee failed", err, "Failed to delete employee. Please try again.", "/admin/employees")
			return
		}
		h.ErrLog.LogServerError(w, r, "delete employee failed", err, "Failed to delete employee. Please try again.", "/admin/employees")
		return
	} else if err != nil {
		h.Log.Info("employee delete: already gone", zap.Int64("id", id))
	}

	h.AuditLog.Admin(ctx, r, actor(r), audit.EventEmployeeDeleted, subject, nil)

	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", "/admin/employees?flash=deleted")
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, "/admin/employees?flash=deleted", http.StatusSeeOther)
}
