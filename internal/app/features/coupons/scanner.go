// internal/app/features/coupons/scanner.go
package coupons

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/dalemusser/aftershift/internal/app/store/audit"
	"github.com/dalemusser/aftershift/internal/app/system/apiclient"
	"github.com/dalemusser/aftershift/internal/app/system/couponcal"
	"github.com/dalemusser/aftershift/internal/app/system/timeouts"
	"github.com/dalemusser/aftershift/internal/app/system/viewdata"
	"github.com/dalemusser/aftershift/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Scanner messages.
const (
	msgNoBarcode   = "Please enter a barcode"
	msgNotFound    = "Coupon not found. Please check the barcode."
	msgScanFailed  = "Failed to scan coupon. Please try again."
	msgClaimed     = "Coupon claimed successfully!"
	msgClaimFailed = "Failed to claim coupon"
)

// scanResult is the panel under the barcode input. Coupon is set only
// when the coupon may be claimed and awaits confirmation.
type scanResult struct {
	Barcode   string
	Error     string
	Success   string
	Coupon    *models.Coupon
	DateText  string
	Advance   bool
	CSRFToken string
}

type scannerData struct {
	viewdata.BaseVM
	Result scanResult
}

// Lookup resolves a scanned barcode to a claimable coupon.
func (h *Handler) Lookup(ctx context.Context, code string) scanResult {
	code = strings.TrimSpace(code)
	res := scanResult{Barcode: code}
	if code == "" {
		res.Error = msgNoBarcode
		return res
	}

	c, err := h.API.ScanCoupon(ctx, code)
	if apiclient.IsNotFound(err) {
		res.Error = msgNotFound
		return res
	}
	if err != nil {
		h.Log.Warn("scan coupon failed", zap.Error(err), zap.String("barcode", code))
		res.Error = msgScanFailed
		return res
	}

	today := h.today()
	if err := couponcal.CheckClaimable(c, today); err != nil {
		res.Error = err.Error()
		return res
	}
	res.Coupon = &c
	res.DateText = longDate(couponcal.DateOf(c))
	res.Advance = couponcal.IsAdvanceClaim(c, today)
	return res
}

// ServeScanner handles GET /admin/coupons/scanner. A ?barcode= (from
// the calendar) goes straight to the confirmation step.
func (h *Handler) ServeScanner(w http.ResponseWriter, r *http.Request) {
	data := scannerData{BaseVM: viewdata.NewBaseVM(r, "Coupon Scanner", "/admin")}
	if code := query.Get(r, "barcode"); code != "" {
		ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
		defer cancel()
		data.Result = h.Lookup(ctx, code)
	}
	data.Result.CSRFToken = data.CSRFToken
	templates.Render(w, r, "coupons_scanner", data)
}

// HandleScan handles POST /admin/coupons/scanner.
func (h *Handler) HandleScan(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	res := h.Lookup(ctx, r.FormValue("barcode"))
	h.renderScan(w, r, res)
}

// HandleClaim handles POST /admin/coupons/{id}/claim after the operator
// confirms.
func (h *Handler) HandleClaim(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		h.renderScan(w, r, scanResult{Error: "Invalid coupon."})
		return
	}
	code := strings.TrimSpace(r.FormValue("barcode"))

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if _, err := h.API.ClaimCoupon(ctx, id); err != nil {
		h.Log.Warn("claim coupon failed", zap.Error(err), zap.Int64("id", id))
		h.AuditLog.AdminFailed(ctx, r, actor(r), audit.EventCouponClaimed, code, err.Error())
		h.renderScan(w, r, scanResult{Barcode: code, Error: apiclient.Message(err, msgClaimFailed)})
		return
	}

	h.AuditLog.Admin(ctx, r, actor(r), audit.EventCouponClaimed, code,
		map[string]string{"coupon_id": strconv.FormatInt(id, 10)})
	h.renderScan(w, r, scanResult{Success: msgClaimed})
}

func (h *Handler) renderScan(w http.ResponseWriter, r *http.Request, res scanResult) {
	data := scannerData{BaseVM: viewdata.NewBaseVM(r, "Coupon Scanner", "/admin")}
	res.CSRFToken = data.CSRFToken
	if isHTMX(r) {
		templates.RenderSnippet(w, "coupons_scan_result", res)
		return
	}
	data.Result = res
	templates.Render(w, r, "coupons_scanner", data)
}
