// internal/domain/models/analytics.go
package models

// AnalyticsOverview is the headline block of /api/analytics/live.
type AnalyticsOverview struct {
	TotalCoupons   int     `json:"totalCoupons"`
	ClaimedCoupons int     `json:"claimedCoupons"`
	ExpiredCoupons int     `json:"expiredCoupons"`
	ActiveCoupons  int     `json:"activeCoupons"`
	ClaimRate      float64 `json:"claimRate"`
	ExpirationRate float64 `json:"expirationRate"`
}

// DailyStat is one day of generated/claimed/expired counts.
type DailyStat struct {
	Date      string `json:"date"`
	Generated int    `json:"generated"`
	Claimed   int    `json:"claimed"`
	Expired   int    `json:"expired"`
}

// EmployeeStat is the per-employee block of /api/analytics/live.
type EmployeeStat struct {
	ID             int64   `json:"id"`
	Name           string  `json:"name"`
	Department     string  `json:"department"`
	Email          string  `json:"email"`
	TotalCoupons   int     `json:"totalCoupons"`
	ClaimedCoupons int     `json:"claimedCoupons"`
	ClaimRate      float64 `json:"claimRate"`
}

// LiveAnalytics is the full /api/analytics/live response.
type LiveAnalytics struct {
	Overview      AnalyticsOverview `json:"overview"`
	DailyStats    []DailyStat       `json:"dailyStats"`
	EmployeeStats []EmployeeStat    `json:"employeeStats"`
}

// AnalyticsQuery selects the window for live analytics.
// From and To are "YYYY-MM-DD". EmployeeID empty means all employees.
type AnalyticsQuery struct {
	From       string
	To         string
	Live       bool
	EmployeeID string
}

// TopEmployee is one row of /api/top-performing-employees.
type TopEmployee struct {
	EmployeeID     int64  `json:"employee_id"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Department     string `json:"department"`
	Email          string `json:"email"`
	TotalCoupons   int    `json:"total_coupons"`
	TotalClaimed   int    `json:"total_claimed"`
	TotalUnclaimed int    `json:"total_unclaimed"`
	LastClaimed    string `json:"last_claimed"`
}

// ClaimPercent returns claimed/total as a percentage, 0 when total is 0.
func (t TopEmployee) ClaimPercent() float64 {
	if t.TotalCoupons == 0 {
		return 0
	}
	return float64(t.TotalClaimed) / float64(t.TotalCoupons) * 100
}

// DepartmentTopPerformer names the best employee inside a department.
type DepartmentTopPerformer struct {
	Name       string  `json:"name"`
	ClaimRate  float64 `json:"claimRate"`
	EmployeeID int64   `json:"employee_id"`
}

// DepartmentMonth is one month of a department's history.
type DepartmentMonth struct {
	Month     string `json:"month"`
	Generated int    `json:"generated"`
	Claimed   int    `json:"claimed"`
	Expired   int    `json:"expired"`
}

// Trend values reported per department.
const (
	TrendUp     = "up"
	TrendDown   = "down"
	TrendStable = "stable"
)

// DepartmentStats is one department in the dynamic comparison.
type DepartmentStats struct {
	Department            string                 `json:"department"`
	TotalEmployees        int                    `json:"totalEmployees"`
	TotalCoupons          int                    `json:"totalCoupons"`
	ClaimedCoupons        int                    `json:"claimedCoupons"`
	ExpiredCoupons        int                    `json:"expiredCoupons"`
	ActiveCoupons         int                    `json:"activeCoupons"`
	ClaimRate             float64                `json:"claimRate"`
	AvgCouponsPerEmployee float64                `json:"avgCouponsPerEmployee"`
	Trend                 string                 `json:"trend"`
	TrendPercentage       float64                `json:"trendPercentage"`
	TopPerformer          DepartmentTopPerformer `json:"topPerformer"`
	MonthlyData           []DepartmentMonth      `json:"monthlyData"`
	LastUpdated           string                 `json:"lastUpdated"`
}

// DepartmentTotals aggregates across all departments.
type DepartmentTotals struct {
	TotalDepartments int     `json:"totalDepartments"`
	BestPerforming   string  `json:"bestPerforming"`
	WorstPerforming  string  `json:"worstPerforming"`
	AverageClaimRate float64 `json:"averageClaimRate"`
	TotalEmployees   int     `json:"totalEmployees"`
	TotalCoupons     int     `json:"totalCoupons"`
}

// DepartmentComparison is the /api/analytics/departments-dynamic response.
type DepartmentComparison struct {
	Departments []DepartmentStats `json:"departments"`
	TotalStats  DepartmentTotals  `json:"totalStats"`
	LastUpdated string            `json:"lastUpdated"`
}

// UsageAlert is one entry of /api/analytics/usage-alerts.
type UsageAlert struct {
	Title      string `json:"title"`
	Message    string `json:"message"`
	Department string `json:"department,omitempty"`
	EmployeeID int64  `json:"employee_id,omitempty"`
	Priority   string `json:"priority,omitempty"`
}

// UsageAlerts wraps the alerts list.
type UsageAlerts struct {
	Alerts []UsageAlert `json:"alerts"`
}
