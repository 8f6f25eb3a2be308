// internal/app/features/activity/list.go
package activity

import (
	"net/http"

	"github.com/dalemusser/aftershift/internal/app/system/paging"
	"github.com/dalemusser/aftershift/internal/app/system/timeouts"
	"github.com/dalemusser/aftershift/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

// ServeList handles GET /admin/activity.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "activity list")
	defer cancel()

	form, filter := ParseForm(r)
	page := paging.ParsePage(r)

	total, err := h.Events.CountByFilter(ctx, filter)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "count audit events failed", err, "A database error occurred.", "/admin")
		return
	}

	info, lo, _ := paging.Compute(int(total), page, paging.ActivityPageSize)
	filter.Limit = paging.ActivityPageSize
	filter.Offset = int64(lo)

	rows, err := h.Events.Query(ctx, filter)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "query audit events failed", err, "A database error occurred.", "/admin")
		return
	}

	seen, err := h.Events.EventTypes(ctx)
	if err != nil {
		h.Log.Warn("distinct event types failed", zap.Error(err))
	}

	items := make([]listItem, 0, len(rows))
	for _, e := range rows {
		items = append(items, listItem{
			ID:        e.ID.Hex(),
			Timestamp: e.Timestamp,
			Category:  e.Category,
			EventType: e.EventType,
			Actor:     e.Actor,
			Subject:   e.Subject,
			IP:        e.IP,
			Success:   e.Success,
			Reason:    e.FailureReason,
			Details:   e.Details,
		})
	}

	exportQuery := r.URL.Query()
	exportQuery.Del("page")
	exportURL := "/admin/activity/export.jsonl.xz"
	if enc := exportQuery.Encode(); enc != "" {
		exportURL += "?" + enc
	}

	templates.Render(w, r, "activity_list", listData{
		BaseVM:     viewdata.NewBaseVM(r, "Activity Log", "/admin"),
		Items:      items,
		Form:       form,
		Categories: allCategories(),
		EventTypes: EventTypesFor(form.Category, seen),
		Paging:     info.KeepQuery(r.URL.Query()),
		ExportURL:  exportURL,
	})
}
