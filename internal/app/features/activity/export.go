// internal/app/features/activity/export.go
package activity

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/dalemusser/aftershift/internal/app/store/audit"
	"github.com/dalemusser/aftershift/internal/app/system/authz"
	"github.com/dalemusser/aftershift/internal/app/system/timeouts"
	"github.com/ulikunitz/xz"
	"go.uber.org/zap"
)

// WriteJSONL compresses every event walk yields as xz-framed JSON lines
// and returns how many were written.
func WriteJSONL(w io.Writer, walk func(fn func(audit.Event) error) error) (int, error) {
	zw, err := xz.NewWriter(w)
	if err != nil {
		return 0, fmt.Errorf("xz writer: %w", err)
	}
	enc := json.NewEncoder(zw)
	n := 0
	err = walk(func(e audit.Event) error {
		n++
		return enc.Encode(e)
	})
	if cerr := zw.Close(); err == nil {
		err = cerr
	}
	return n, err
}

// ServeExport handles GET /admin/activity/export.jsonl.xz with the same
// filters as the list.
func (h *Handler) ServeExport(w http.ResponseWriter, r *http.Request) {
	_, _, actor, _ := authz.UserCtx(r)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Batch(), h.Log, "activity export")
	defer cancel()

	_, filter := ParseForm(r)

	filename := fmt.Sprintf("activity-%s.jsonl.xz", h.Now().UTC().Format("20060102-150405"))
	w.Header().Set("Content-Type", "application/x-xz")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))

	n, err := WriteJSONL(w, func(fn func(audit.Event) error) error {
		return h.Events.Each(ctx, filter, fn)
	})
	if err != nil {
		// Headers are gone; the truncated archive fails to decompress.
		h.Log.Error("activity export failed", zap.Error(err), zap.Int("rows", n))
		h.AuditLog.AdminFailed(ctx, r, actor, audit.EventActivityExported, filename, err.Error())
		return
	}

	h.AuditLog.Admin(ctx, r, actor, audit.EventActivityExported, filename, map[string]string{
		"rows": strconv.Itoa(n),
	})
	h.Log.Info("activity exported", zap.String("user", actor), zap.Int("rows", n))
}
