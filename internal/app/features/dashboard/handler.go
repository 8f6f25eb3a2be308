// internal/app/features/dashboard/handler.go
package dashboard

import (
	"html/template"
	"net/http"
	"net/url"
	"time"

	"github.com/dalemusser/aftershift/internal/app/system/apiclient"
	"github.com/dalemusser/waffle/pantry/query"
	"go.uber.org/zap"
)

// RefreshSeconds is the live-mode polling interval of the panels.
const RefreshSeconds = 15

// TopLimit caps the top employees table.
const TopLimit = 10

const dateLayout = "2006-01-02"

type Handler struct {
	API *apiclient.Client
	Log *zap.Logger

	Loc *time.Location
	Now func() time.Time
}

func NewHandler(api *apiclient.Client, logger *zap.Logger) *Handler {
	return &Handler{
		API: api,
		Log: logger,
		Now: time.Now,
	}
}

// Filter is the dashboard selection carried in the query string.
type Filter struct {
	From       string
	To         string
	Live       bool
	EmployeeID string
}

// ParseFilter reads from/to/live/employee. The range defaults to the
// first of the current month through today; an inverted range is
// swapped. Live mode is on unless live=0.
func ParseFilter(r *http.Request, now time.Time) Filter {
	today := now.Format(dateLayout)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).Format(dateLayout)

	f := Filter{
		From:       validDate(query.Get(r, "from"), monthStart),
		To:         validDate(query.Get(r, "to"), today),
		Live:       true,
		EmployeeID: query.Get(r, "employee"),
	}
	if f.From > f.To {
		f.From, f.To = f.To, f.From
	}
	switch query.Get(r, "live") {
	case "0", "false", "off":
		f.Live = false
	}
	if f.EmployeeID == "" {
		f.EmployeeID = "all"
	}
	return f
}

// Query returns the filter as a query string for the refresh URL.
func (f Filter) Query() string {
	live := "1"
	if !f.Live {
		live = "0"
	}
	v := url.Values{}
	v.Set("from", f.From)
	v.Set("to", f.To)
	v.Set("live", live)
	v.Set("employee", f.EmployeeID)
	return v.Encode()
}

// RefreshURL is the panels URL polled in live mode.
func (f Filter) RefreshURL() template.URL {
	return template.URL("/admin?" + f.Query())
}

func validDate(s, fallback string) string {
	if _, err := time.Parse(dateLayout, s); err != nil {
		return fallback
	}
	return s
}

func (h *Handler) now() time.Time {
	loc := h.Loc
	if loc == nil {
		loc = time.UTC
	}
	return h.Now().In(loc)
}
