// internal/app/system/couponcal/status.go
//
// Package couponcal holds the display rules for coupons: status, claim
// eligibility and the month calendar.
package couponcal

import (
	"errors"
	"time"

	"github.com/dalemusser/aftershift/internal/domain/models"
)

// DateLayout is the coupon date format.
const DateLayout = "2006-01-02"

// Status is a coupon's display state.
type Status string

const (
	StatusClaimed   Status = "claimed"
	StatusExpired   Status = "expired"
	StatusAvailable Status = "available"
)

// Label is the human label for s.
func (s Status) Label() string {
	switch s {
	case StatusClaimed:
		return "Claimed"
	case StatusExpired:
		return "Expired"
	default:
		return "Available"
	}
}

// Class is the CSS modifier used by the templates.
func (s Status) Class() string { return "status-" + string(s) }

// Claim errors shown to the scanner operator.
var (
	ErrAlreadyClaimed = errors.New("This coupon has already been claimed")
	ErrExpired        = errors.New("This coupon has expired and cannot be claimed")
)

// Today formats t as a coupon date in loc. A nil loc means UTC, the
// calendar the backend's ISO dates are written in.
func Today(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(DateLayout)
}

// DateOf returns the YYYY-MM-DD part of the coupon date.
func DateOf(c models.Coupon) string {
	if len(c.CouponDate) >= len(DateLayout) {
		return c.CouponDate[:len(DateLayout)]
	}
	return c.CouponDate
}

// StatusOf classifies c relative to today (YYYY-MM-DD).
func StatusOf(c models.Coupon, today string) Status {
	switch {
	case c.IsClaimed:
		return StatusClaimed
	case DateOf(c) < today:
		return StatusExpired
	default:
		return StatusAvailable
	}
}

// IsAdvanceClaim reports whether claiming c now would be ahead of its date.
func IsAdvanceClaim(c models.Coupon, today string) bool {
	return DateOf(c) > today
}

// CheckClaimable returns nil when c may be claimed today.
func CheckClaimable(c models.Coupon, today string) error {
	if c.IsClaimed {
		return ErrAlreadyClaimed
	}
	if DateOf(c) < today {
		return ErrExpired
	}
	return nil
}

// Summarize counts coupons by status.
func Summarize(coupons []models.Coupon, today string) models.CouponStats {
	s := models.CouponStats{Total: len(coupons)}
	for _, c := range coupons {
		switch StatusOf(c, today) {
		case StatusClaimed:
			s.Claimed++
		case StatusExpired:
			s.Expired++
		default:
			s.Available++
		}
	}
	return s
}

// StatsOrSummary prefers the backend's stats block and falls back to a
// local count when it is missing.
func StatsOrSummary(list models.CouponList, today string) models.CouponStats {
	if list.Stats != nil && (list.Stats.Total > 0 || len(list.Coupons) == 0) {
		return *list.Stats
	}
	return Summarize(list.Coupons, today)
}
