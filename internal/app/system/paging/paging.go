// internal/app/system/paging/paging.go
package paging

import (
	"html/template"
	"net/http"
	"net/url"
	"strconv"

	"github.com/dalemusser/waffle/pantry/query"
)

// EmployeePageSize is the number of employees per page on the roster.
const EmployeePageSize = 5

// ActivityPageSize is the number of audit events per page.
const ActivityPageSize = 50

// ParsePage extracts the 1-based "page" query parameter.
// Returns 1 if not present or invalid.
func ParsePage(r *http.Request) int {
	n, err := strconv.Atoi(query.Get(r, "page"))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// Info describes one page of a list for templates.
type Info struct {
	Page     int
	Pages    int
	Total    int
	Start    int // 1-based index of the first row shown, 0 when empty
	End      int // 1-based index of the last row shown
	HasPrev  bool
	HasNext  bool
	PrevPage int
	NextPage int

	// Query carries the other list filters as "&k=v" so page links keep them.
	Query template.URL
}

// KeepQuery returns info with the filters in q (minus page) attached.
func (info Info) KeepQuery(q url.Values) Info {
	rest := url.Values{}
	for k, vs := range q {
		if k == "page" {
			continue
		}
		for _, v := range vs {
			if v != "" {
				rest.Add(k, v)
			}
		}
	}
	if enc := rest.Encode(); enc != "" {
		info.Query = template.URL("&" + enc)
	} else {
		info.Query = ""
	}
	return info
}

// Compute works out page bounds for total rows. A page past the end
// clamps to the last page.
func Compute(total, page, size int) (info Info, lo, hi int) {
	if size <= 0 {
		size = EmployeePageSize
	}
	pages := (total + size - 1) / size
	if pages == 0 {
		pages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > pages {
		page = pages
	}
	lo = (page - 1) * size
	hi = lo + size
	if hi > total {
		hi = total
	}
	info = Info{
		Page:     page,
		Pages:    pages,
		Total:    total,
		End:      hi,
		HasPrev:  page > 1,
		HasNext:  page < pages,
		PrevPage: page - 1,
		NextPage: page + 1,
	}
	if total > 0 {
		info.Start = lo + 1
	}
	return info, lo, hi
}

// Slice returns the rows on page along with its Info.
func Slice[T any](rows []T, page, size int) ([]T, Info) {
	info, lo, hi := Compute(len(rows), page, size)
	return rows[lo:hi], info
}
