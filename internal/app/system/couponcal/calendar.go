// internal/app/system/couponcal/calendar.go
package couponcal

import (
	"sort"
	"strconv"
	"time"

	"github.com/dalemusser/aftershift/internal/domain/models"
)

// Entry is a coupon placed on a calendar day.
type Entry struct {
	Coupon models.Coupon
	Status Status
}

// Day is one cell of the month grid.
type Day struct {
	Date      time.Time
	Key       string // YYYY-MM-DD
	InMonth   bool
	IsToday   bool
	IsWeekend bool
	Holiday   string
	Entries   []Entry
}

// Month is a Sunday-first grid of whole weeks covering one month.
type Month struct {
	Year     int
	Month    time.Month
	Title    string
	Weeks    [][]Day
	Holidays []Holiday
	Stats    models.CouponStats
}

// BuildMonth lays coupons and holidays onto the month grid.
func BuildMonth(year int, month time.Month, coupons []models.Coupon, hol Holidays, today string) Month {
	byDate := make(map[string][]Entry)
	for _, c := range coupons {
		d := DateOf(c)
		byDate[d] = append(byDate[d], Entry{Coupon: c, Status: StatusOf(c, today)})
	}
	for _, es := range byDate {
		sort.SliceStable(es, func(i, j int) bool { return es[i].Coupon.ID < es[j].Coupon.ID })
	}

	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	start := first.AddDate(0, 0, -int(first.Weekday()))
	end := last.AddDate(0, 0, 6-int(last.Weekday()))

	m := Month{
		Year:     year,
		Month:    month,
		Title:    first.Format("January 2006"),
		Holidays: hol.InMonth(year, month),
		Stats:    Summarize(coupons, today),
	}

	var week []Day
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		key := d.Format(DateLayout)
		wd := d.Weekday()
		week = append(week, Day{
			Date:      d,
			Key:       key,
			InMonth:   d.Month() == month,
			IsToday:   key == today,
			IsWeekend: wd == time.Saturday || wd == time.Sunday,
			Holiday:   hol.Name(key),
			Entries:   byDate[key],
		})
		if wd == time.Saturday {
			m.Weeks = append(m.Weeks, week)
			week = nil
		}
	}
	return m
}

// Option is a select-box choice.
type Option struct {
	Value int
	Label string
}

// MonthOptions lists January..December.
func MonthOptions() []Option {
	out := make([]Option, 12)
	for i := range out {
		out[i] = Option{Value: i + 1, Label: time.Month(i + 1).String()}
	}
	return out
}

// YearOptions lists count years starting at from.
func YearOptions(from, count int) []Option {
	out := make([]Option, count)
	for i := range out {
		y := from + i
		out[i] = Option{Value: y, Label: strconv.Itoa(y)}
	}
	return out
}
