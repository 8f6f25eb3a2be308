// internal/domain/models/notification.go
package models

import "encoding/json"

// Notification types.
const (
	NotifyCouponExpiry    = "coupon_expiry"
	NotifyUsageAlert      = "usage_alert"
	NotifySystem          = "system"
	NotifyAchievement     = "achievement"
	NotifyDepartmentAlert = "department_alert"
)

// Notification priorities.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// Notification is an admin-facing alert. Hash is computed locally and
// used for deduplication; it is never sent by the backend. Local marks
// alerts derived on this server, which the backend has no record of.
type Notification struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	Title      string          `json:"title"`
	Message    string          `json:"message"`
	Timestamp  string          `json:"timestamp"`
	Read       bool            `json:"read"`
	Priority   string          `json:"priority"`
	Data       json.RawMessage `json:"data,omitempty"`
	Department string          `json:"department,omitempty"`
	EmployeeID int64           `json:"employee_id,omitempty"`
	Hash       string          `json:"hash,omitempty"`
	Local      bool            `json:"local,omitempty"`
}

// NotificationList is the /api/notifications response.
type NotificationList struct {
	Notifications []Notification `json:"notifications"`
	UnreadCount   int            `json:"unread_count"`
}
