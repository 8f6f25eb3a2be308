// internal/app/features/coupons/handler.go
package coupons

import (
	"net/http"
	"strconv"
	"time"

	uierrors "github.com/dalemusser/aftershift/internal/app/features/errors"
	"github.com/dalemusser/aftershift/internal/app/system/apiclient"
	"github.com/dalemusser/aftershift/internal/app/system/auditlog"
	"github.com/dalemusser/aftershift/internal/app/system/authz"
	"github.com/dalemusser/aftershift/internal/app/system/couponcal"
	"github.com/dalemusser/waffle/pantry/query"
	"go.uber.org/zap"
)

// Handler serves coupon generation, the calendar dashboard, printing
// and the scanner.
type Handler struct {
	API      *apiclient.Client
	ErrLog   *uierrors.ErrorLogger
	AuditLog *auditlog.Logger
	Log      *zap.Logger
	Holidays couponcal.Holidays

	// Loc decides what "today" means for expiry; nil uses UTC.
	Loc *time.Location
	Now func() time.Time
}

func NewHandler(api *apiclient.Client, errLog *uierrors.ErrorLogger, audit *auditlog.Logger, holidays couponcal.Holidays, logger *zap.Logger) *Handler {
	if holidays == nil {
		holidays = couponcal.DefaultHolidays()
	}
	return &Handler{
		API:      api,
		ErrLog:   errLog,
		AuditLog: audit,
		Log:      logger,
		Holidays: holidays,
		Now:      time.Now,
	}
}

func (h *Handler) today() string {
	return couponcal.Today(h.Now(), h.Loc)
}

func actor(r *http.Request) string {
	_, _, email, _ := authz.UserCtx(r)
	return email
}

func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// period reads month and year from the request, defaulting to now.
func (h *Handler) period(r *http.Request) (month, year int) {
	now := h.Now()
	month, year = int(now.Month()), now.Year()
	if m, err := strconv.Atoi(query.Get(r, "month")); err == nil && m >= 1 && m <= 12 {
		month = m
	}
	if y, err := strconv.Atoi(query.Get(r, "year")); err == nil && y >= 2000 && y <= 2100 {
		year = y
	}
	return month, year
}

func atoi64(s string) int64 {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
