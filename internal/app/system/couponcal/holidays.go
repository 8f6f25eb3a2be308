// internal/app/system/couponcal/holidays.go
package couponcal

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed holidays.yaml
var defaultHolidaysYAML []byte

// Holiday is one non-working day shown on the calendar.
type Holiday struct {
	Date string `yaml:"date"` // YYYY-MM-DD
	Name string `yaml:"name"`
}

type holidayFile struct {
	Holidays []Holiday `yaml:"holidays"`
}

// Holidays maps YYYY-MM-DD to the holiday name.
type Holidays map[string]string

// ParseHolidays decodes a YAML holiday list.
func ParseHolidays(data []byte) (Holidays, error) {
	var f holidayFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse holidays: %w", err)
	}
	out := make(Holidays, len(f.Holidays))
	for i, h := range f.Holidays {
		d := strings.TrimSpace(h.Date)
		if _, err := time.Parse(DateLayout, d); err != nil {
			return nil, fmt.Errorf("holiday %d: bad date %q", i+1, h.Date)
		}
		name := strings.TrimSpace(h.Name)
		if name == "" {
			return nil, fmt.Errorf("holiday %d (%s): name is required", i+1, d)
		}
		out[d] = name
	}
	return out, nil
}

// DefaultHolidays returns the embedded holiday list.
func DefaultHolidays() Holidays {
	h, err := ParseHolidays(defaultHolidaysYAML)
	if err != nil {
		panic(err) // embedded file is part of the build
	}
	return h
}

// LoadHolidays reads path, or returns the embedded list when path is "".
func LoadHolidays(path string) (Holidays, error) {
	if strings.TrimSpace(path) == "" {
		return DefaultHolidays(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read holidays file: %w", err)
	}
	return ParseHolidays(data)
}

// Name returns the holiday name for date, or "".
func (h Holidays) Name(date string) string { return h[date] }

// InMonth lists the holidays falling in the given month, by date.
func (h Holidays) InMonth(year int, month time.Month) []Holiday {
	prefix := fmt.Sprintf("%04d-%02d-", year, int(month))
	var out []Holiday
	for d, name := range h {
		if strings.HasPrefix(d, prefix) {
			out = append(out, Holiday{Date: d, Name: name})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}
