// internal/app/system/apiclient/coupons.go
package apiclient

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/dalemusser/aftershift/internal/domain/models"
)

// ListCoupons returns coupons (and the backend's stats block) for a filter.
func (c *Client) ListCoupons(ctx context.Context, f models.CouponFilter) (models.CouponList, error) {
	q := url.Values{}
	if f.EmployeeID > 0 {
		q.Set("employee_id", strconv.FormatInt(f.EmployeeID, 10))
	}
	if f.Month > 0 {
		q.Set("month", strconv.Itoa(f.Month))
	}
	if f.Year > 0 {
		q.Set("year", strconv.Itoa(f.Year))
	}
	var out models.CouponList
	err := c.get(ctx, "coupons.list", "/api/coupons", q, &out)
	return out, err
}

// GenerateCoupons issues one employee's coupons for a month.
func (c *Client) GenerateCoupons(ctx context.Context, req models.GenerateRequest) (models.GenerateResult, error) {
	var out models.GenerateResult
	err := c.send(ctx, "coupons.generate", http.MethodPost, "/api/coupons/generate", req, &out)
	return out, err
}

// GenerateAllCoupons issues coupons for every employee for a month.
func (c *Client) GenerateAllCoupons(ctx context.Context, req models.GenerateAllRequest) (models.GenerateAllResult, error) {
	var out models.GenerateAllResult
	err := c.send(ctx, "coupons.generate_all", http.MethodPost, "/api/coupons/generate-all", req, &out)
	return out, err
}

// ScanCoupon looks a coupon up by barcode. A 404 means no such coupon.
func (c *Client) ScanCoupon(ctx context.Context, barcode string) (models.Coupon, error) {
	var out models.Coupon
	err := c.get(ctx, "coupons.scan", "/api/coupons/scan/"+url.PathEscape(barcode), nil, &out)
	return out, err
}

// ClaimCoupon redeems a coupon by id.
func (c *Client) ClaimCoupon(ctx context.Context, id int64) (models.Coupon, error) {
	var out models.Coupon
	err := c.send(ctx, "coupons.claim", http.MethodPost, "/api/coupons/"+strconv.FormatInt(id, 10)+"/claim", nil, &out)
	return out, err
}

// CouponStatistics returns the global coupon summary.
func (c *Client) CouponStatistics(ctx context.Context) (models.CouponStatistics, error) {
	var out models.CouponStatistics
	err := c.get(ctx, "coupons.statistics", "/api/coupons/statistics", nil, &out)
	return out, err
}

// ExpiringSoon returns how many coupons are about to expire.
func (c *Client) ExpiringSoon(ctx context.Context) (models.ExpiringSoon, error) {
	var out models.ExpiringSoon
	err := c.get(ctx, "coupons.expiring_soon", "/api/coupons/expiring-soon", nil, &out)
	return out, err
}

// RecentActivities returns the latest coupon events.
func (c *Client) RecentActivities(ctx context.Context) ([]models.CouponActivity, error) {
	var out []models.CouponActivity
	if err := c.get(ctx, "coupons.recent", "/api/coupons/recent-activities", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
