// internal/domain/models/coupon.go
package models

// Coupon is a single-day meal coupon issued to one employee.
// CouponDate is "YYYY-MM-DD" (the backend may append a time portion).
type Coupon struct {
	ID              int64     `json:"id"`
	EmployeeID      int64     `json:"employee_id"`
	Employee        *Employee `json:"employee,omitempty"`
	CouponDate      string    `json:"coupon_date"`
	Barcode         string    `json:"barcode"`
	WorkdayCode     string    `json:"workday_code"`
	IsClaimed       bool      `json:"is_claimed"`
	ClaimedAt       string    `json:"claimed_at,omitempty"`
	CreatedAt       string    `json:"created_at"`
	UpdatedAt       string    `json:"updated_at"`
	BarcodeImageURL string    `json:"barcode_image_url,omitempty"`
}

// CouponStats summarizes a set of coupons (usually one employee-month).
type CouponStats struct {
	Total     int `json:"total"`
	Claimed   int `json:"claimed"`
	Expired   int `json:"expired"`
	Available int `json:"available"`
}

// CouponList is the backend response for GET /api/coupons.
type CouponList struct {
	Coupons []Coupon     `json:"coupons"`
	Stats   *CouponStats `json:"stats,omitempty"`
}

// CouponFilter narrows a coupon listing. Zero values are omitted.
type CouponFilter struct {
	EmployeeID int64
	Month      int
	Year       int
}

// GenerateRequest asks the backend to issue coupons for one employee-month.
type GenerateRequest struct {
	EmployeeID int64 `json:"employee_id"`
	Month      int   `json:"month"`
	Year       int   `json:"year"`
}

// GenerateResult is returned by POST /api/coupons/generate.
type GenerateResult struct {
	Count   int    `json:"count"`
	Message string `json:"message,omitempty"`
}

// GenerateAllRequest asks the backend to issue coupons for every employee.
type GenerateAllRequest struct {
	Month int `json:"month"`
	Year  int `json:"year"`
}

// GenerateAllResult is returned by POST /api/coupons/generate-all.
type GenerateAllResult struct {
	TotalCoupons int    `json:"total_coupons"`
	Message      string `json:"message,omitempty"`
}

// CouponStatistics is the global summary from /api/coupons/statistics.
type CouponStatistics struct {
	TotalCoupons     int `json:"total_coupons"`
	ClaimedCoupons   int `json:"claimed_coupons"`
	UnclaimedCoupons int `json:"unclaimed_coupons"`
	ExpiredCoupons   int `json:"expired_coupons"`
	TotalEmployees   int `json:"total_employees"`
}

// ExpiringSoon is returned by /api/coupons/expiring-soon.
type ExpiringSoon struct {
	ExpiringCount int `json:"expiring_count"`
}

// CouponActivity is one row of /api/coupons/recent-activities.
type CouponActivity struct {
	ID           int64  `json:"id"`
	Barcode      string `json:"barcode"`
	EmployeeName string `json:"employee_name"`
	Department   string `json:"department"`
	Action       string `json:"action"`
	OccurredAt   string `json:"occurred_at"`
}
