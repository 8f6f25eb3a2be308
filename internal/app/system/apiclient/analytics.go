// internal/app/system/apiclient/analytics.go
package apiclient

import (
	"context"
	"net/url"
	"strconv"

	"github.com/dalemusser/aftershift/internal/domain/models"
)

// LiveAnalytics returns overview, daily and per-employee stats for a window.
func (c *Client) LiveAnalytics(ctx context.Context, q models.AnalyticsQuery) (models.LiveAnalytics, error) {
	v := url.Values{}
	v.Set("from", q.From)
	v.Set("to", q.To)
	v.Set("live", strconv.FormatBool(q.Live))
	if q.EmployeeID != "" && q.EmployeeID != "all" {
		v.Set("employee", q.EmployeeID)
	}
	var out models.LiveAnalytics
	err := c.get(ctx, "analytics.live", "/api/analytics/live", v, &out)
	return out, err
}

// TopEmployees returns employees ranked by claims.
func (c *Client) TopEmployees(ctx context.Context, live bool) ([]models.TopEmployee, error) {
	v := url.Values{}
	v.Set("live", strconv.FormatBool(live))
	var out []models.TopEmployee
	if err := c.get(ctx, "analytics.top_employees", "/api/top-performing-employees", v, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DepartmentComparison returns the dynamic per-department comparison.
func (c *Client) DepartmentComparison(ctx context.Context) (models.DepartmentComparison, error) {
	var out models.DepartmentComparison
	err := c.get(ctx, "analytics.departments", "/api/analytics/departments-dynamic", nil, &out)
	return out, err
}

// UsageAlerts returns backend-computed usage alerts.
func (c *Client) UsageAlerts(ctx context.Context) (models.UsageAlerts, error) {
	var out models.UsageAlerts
	err := c.get(ctx, "analytics.usage_alerts", "/api/analytics/usage-alerts", nil, &out)
	return out, err
}
