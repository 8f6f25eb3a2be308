// internal/app/features/activity/types.go
package activity

import (
	"net/http"
	"strings"
	"time"

	"github.com/dalemusser/aftershift/internal/app/store/audit"
	"github.com/dalemusser/aftershift/internal/app/system/paging"
	"github.com/dalemusser/aftershift/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/query"
)

const dateLayout = "2006-01-02"

// Form is the filter bar as submitted.
type Form struct {
	Category  string
	EventType string
	Actor     string
	StartDate string
	EndDate   string
}

// ParseForm reads the filter bar and converts it to a store filter.
// Unparseable dates are dropped; the end date covers its whole day.
func ParseForm(r *http.Request) (Form, audit.QueryFilter) {
	f := Form{
		Category:  strings.TrimSpace(query.Get(r, "category")),
		EventType: strings.TrimSpace(query.Get(r, "event_type")),
		Actor:     strings.ToLower(strings.TrimSpace(query.Get(r, "actor"))),
		StartDate: strings.TrimSpace(query.Get(r, "start_date")),
		EndDate:   strings.TrimSpace(query.Get(r, "end_date")),
	}
	filter := audit.QueryFilter{
		Category:  f.Category,
		EventType: f.EventType,
		Actor:     f.Actor,
	}
	if t, err := time.Parse(dateLayout, f.StartDate); err == nil {
		filter.StartTime = &t
	} else {
		f.StartDate = ""
	}
	if t, err := time.Parse(dateLayout, f.EndDate); err == nil {
		end := t.Add(24*time.Hour - time.Second)
		filter.EndTime = &end
	} else {
		f.EndDate = ""
	}
	return f, filter
}

// listItem is one audit row for display.
type listItem struct {
	ID        string
	Timestamp time.Time
	Category  string
	EventType string
	Actor     string
	Subject   string
	IP        string
	Success   bool
	Reason    string
	Details   map[string]string
}

type listData struct {
	viewdata.BaseVM

	Items []listItem
	Form  Form

	Categories []categoryOption
	EventTypes []string

	Paging    paging.Info
	ExportURL string
}

type categoryOption struct {
	Value string
	Label string
}

func allCategories() []categoryOption {
	return []categoryOption{
		{Value: audit.CategoryAuth, Label: "Authentication"},
		{Value: audit.CategoryAdmin, Label: "Administration"},
	}
}

var (
	authEvents = []string{
		audit.EventLoginSuccess,
		audit.EventLoginFailedUnknownEmail,
		audit.EventLoginFailedWrongPassword,
		audit.EventLoginFailedRateLimit,
		audit.EventLoginFailedNotAllowed,
		audit.EventLogout,
	}
	adminEvents = []string{
		audit.EventEmployeeCreated,
		audit.EventEmployeeUpdated,
		audit.EventEmployeeDeleted,
		audit.EventEmployeesImported,
		audit.EventEmployeesExported,
		audit.EventCouponsGenerated,
		audit.EventCouponClaimed,
		audit.EventReplySent,
		audit.EventNotificationRead,
		audit.EventNotificationsRead,
		audit.EventNotificationDelete,
		audit.EventActivityExported,
	}
)

// EventTypesFor returns the known event types for a category, or all of
// them when category is empty. Types seen in the store but unknown here
// are appended so older records stay filterable.
func EventTypesFor(category string, seen []string) []string {
	var out []string
	switch category {
	case audit.CategoryAuth:
		out = append(out, authEvents...)
	case audit.CategoryAdmin:
		out = append(out, adminEvents...)
	case "":
		out = append(append(out, authEvents...), adminEvents...)
		known := make(map[string]bool, len(out))
		for _, t := range out {
			known[t] = true
		}
		for _, t := range seen {
			if !known[t] {
				out = append(out, t)
				known[t] = true
			}
		}
	}
	return out
}
