// internal/app/system/deptstats/deptstats.go
//
// Package deptstats derives the department comparison views from the
// backend's departments-dynamic payload.
package deptstats

import (
	"math"

	"github.com/dalemusser/aftershift/internal/domain/models"
)

// DefaultLowThreshold is the claim rate below which a department is
// listed as a low performer.
const DefaultLowThreshold = 70.0

// Top returns the department with the highest claim rate. On ties the
// later department wins. ok is false when there are no departments.
func Top(depts []models.DepartmentStats) (top models.DepartmentStats, ok bool) {
	if len(depts) == 0 {
		return models.DepartmentStats{}, false
	}
	top = depts[0]
	for _, d := range depts[1:] {
		if !(top.ClaimRate > d.ClaimRate) {
			top = d
		}
	}
	return top, true
}

// LowPerformers lists departments whose claim rate is below threshold,
// in input order. A threshold <= 0 uses DefaultLowThreshold.
func LowPerformers(depts []models.DepartmentStats, threshold float64) []models.DepartmentStats {
	if threshold <= 0 {
		threshold = DefaultLowThreshold
	}
	var out []models.DepartmentStats
	for _, d := range depts {
		if d.ClaimRate < threshold {
			out = append(out, d)
		}
	}
	return out
}

// Trend describes a department's movement for display.
type Trend struct {
	Direction string // models.TrendUp / TrendDown / TrendStable
	Arrow     string
	Percent   float64 // absolute value
}

// TrendOf maps a department's trend fields to a display trend.
func TrendOf(d models.DepartmentStats) Trend {
	t := Trend{Direction: d.Trend, Percent: math.Abs(d.TrendPercentage)}
	switch d.Trend {
	case models.TrendUp:
		t.Arrow = "↗"
	case models.TrendDown:
		t.Arrow = "↘"
	default:
		t.Direction = models.TrendStable
		t.Arrow = "→"
	}
	return t
}

// Find returns the named department.
func Find(depts []models.DepartmentStats, name string) (models.DepartmentStats, bool) {
	for _, d := range depts {
		if d.Department == name {
			return d, true
		}
	}
	return models.DepartmentStats{}, false
}

// CombineMonthly sums the monthly series of the selected departments
// position by position. Month labels come from the first department
// that has that position.
func CombineMonthly(depts []models.DepartmentStats, selected []string) []models.DepartmentMonth {
	want := make(map[string]bool, len(selected))
	for _, s := range selected {
		want[s] = true
	}
	var out []models.DepartmentMonth
	for _, d := range depts {
		if !want[d.Department] {
			continue
		}
		for i, m := range d.MonthlyData {
			if i >= len(out) {
				out = append(out, models.DepartmentMonth{Month: m.Month})
			}
			out[i].Generated += m.Generated
			out[i].Claimed += m.Claimed
			out[i].Expired += m.Expired
		}
	}
	return out
}

// Bar is one row of a server-rendered horizontal bar chart.
type Bar struct {
	Label string
	Value float64
	Width int // percent of the widest bar, 0..100
}

// Bars scales values against the largest one. A zero maximum gives
// zero-width bars.
func Bars(labels []string, values []float64) []Bar {
	maxV := 0.0
	for _, v := range values {
		if v > maxV {
			maxV = v
		}
	}
	out := make([]Bar, 0, len(labels))
	for i, l := range labels {
		var v float64
		if i < len(values) {
			v = values[i]
		}
		b := Bar{Label: l, Value: v}
		if maxV > 0 && v > 0 {
			b.Width = int(math.Round(v / maxV * 100))
		}
		out = append(out, b)
	}
	return out
}

// ClaimRateBars charts claim rates on an absolute 0..100 scale.
func ClaimRateBars(depts []models.DepartmentStats) []Bar {
	out := make([]Bar, 0, len(depts))
	for _, d := range depts {
		w := int(math.Round(d.ClaimRate))
		if w < 0 {
			w = 0
		}
		if w > 100 {
			w = 100
		}
		out = append(out, Bar{Label: d.Department, Value: d.ClaimRate, Width: w})
	}
	return out
}
