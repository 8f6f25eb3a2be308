// internal/app/features/coupons/print.go
package coupons

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dalemusser/aftershift/internal/app/system/barcode"
	"github.com/dalemusser/aftershift/internal/app/system/couponcal"
	"github.com/dalemusser/aftershift/internal/app/system/timeouts"
	"github.com/dalemusser/aftershift/internal/app/system/viewdata"
	"github.com/dalemusser/aftershift/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
)

type printCoupon struct {
	Coupon   models.Coupon
	DateText string
	ImageURL string
	Status   couponcal.Status
}

type printData struct {
	viewdata.BaseVM
	Employee string
	Period   string
	Coupons  []printCoupon
}

// BarcodeURL is where a coupon's barcode image comes from: the backend's
// image when it has one, otherwise the locally rendered PNG.
func BarcodeURL(c models.Coupon) string {
	if c.BarcodeImageURL != "" {
		return c.BarcodeImageURL
	}
	return "/admin/coupons/barcode/" + url.PathEscape(c.Barcode) + ".png"
}

// ServePrint handles GET /admin/coupons/print. It prints one employee's
// unclaimed, unexpired coupons for the month; all=1 includes every coupon.
func (h *Handler) ServePrint(w http.ResponseWriter, r *http.Request) {
	employeeID := atoi64(query.Get(r, "employee_id"))
	if employeeID == 0 {
		h.ErrLog.LogBadRequest(w, r, "print without employee", nil, "Select an employee first.", "/admin/coupons")
		return
	}
	month, year := h.period(r)
	includeAll := query.Get(r, "all") == "1"

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := h.API.ListCoupons(ctx, models.CouponFilter{EmployeeID: employeeID, Month: month, Year: year})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list coupons for print failed", err, "Failed to fetch coupons", "/admin/coupons")
		return
	}

	today := h.today()
	data := printData{
		BaseVM: viewdata.NewBaseVM(r, "Print Coupons", "/admin/coupons"),
		Period: time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC).Format("January 2006"),
	}
	for _, c := range list.Coupons {
		st := couponcal.StatusOf(c, today)
		if !includeAll && st != couponcal.StatusAvailable {
			continue
		}
		if data.Employee == "" && c.Employee != nil {
			data.Employee = c.Employee.FullName()
		}
		data.Coupons = append(data.Coupons, printCoupon{
			Coupon:   c,
			DateText: longDate(couponcal.DateOf(c)),
			ImageURL: BarcodeURL(c),
			Status:   st,
		})
	}

	templates.Render(w, r, "coupons_print", data)
}

// ServeBarcode handles GET /admin/coupons/barcode/{file} where file is
// "<barcode>.png".
func (h *Handler) ServeBarcode(w http.ResponseWriter, r *http.Request) {
	file := chi.URLParam(r, "file")
	code := strings.TrimSuffix(file, ".png")
	if code == file || code == "" {
		http.NotFound(w, r)
		return
	}
	if decoded, err := url.PathUnescape(code); err == nil {
		code = decoded
	}

	var buf bytes.Buffer
	if err := barcode.WritePNG(&buf, code, barcode.Options{ModuleWidth: 2, Height: 80}); err != nil {
		if errors.Is(err, barcode.ErrEmpty) {
			http.NotFound(w, r)
			return
		}
		http.Error(w, "barcode: "+err.Error(), http.StatusBadRequest)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "private, max-age=86400")
	_, _ = w.Write(buf.Bytes())
}

func longDate(d string) string {
	t, err := time.Parse(couponcal.DateLayout, d)
	if err != nil {
		return d
	}
	return t.Format("Monday, January 2, 2006")
}
