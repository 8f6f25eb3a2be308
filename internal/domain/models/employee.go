// internal/domain/models/employee.go
package models

import "strings"

// Employee is a canteen-eligible employee as returned by the backend API.
// ID is the backend row id; EmployeeID is the human-facing badge number.
type Employee struct {
	ID         int64  `json:"id"`
	EmployeeID string `json:"employee_id"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Email      string `json:"email"`
	Department string `json:"department"`
}

// FullName joins first and last name.
func (e Employee) FullName() string {
	return strings.TrimSpace(e.FirstName + " " + e.LastName)
}

// EmployeeInput is the create/update payload sent to the backend API.
type EmployeeInput struct {
	EmployeeID string `json:"employee_id"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Email      string `json:"email"`
	Department string `json:"department"`
}
