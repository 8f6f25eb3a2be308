// internal/app/system/apiclient/employees.go
package apiclient

import (
	"context"
	"net/http"
	"strconv"

	"github.com/dalemusser/aftershift/internal/domain/models"
)

// ListEmployees returns every employee known to the backend.
func (c *Client) ListEmployees(ctx context.Context) ([]models.Employee, error) {
	var out []models.Employee
	if err := c.get(ctx, "employees.list", "/api/employees", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetEmployee fetches one employee by backend id.
func (c *Client) GetEmployee(ctx context.Context, id int64) (models.Employee, error) {
	var out models.Employee
	err := c.get(ctx, "employees.get", "/api/employees/"+strconv.FormatInt(id, 10), nil, &out)
	return out, err
}

// CreateEmployee creates an employee and returns the stored record.
func (c *Client) CreateEmployee(ctx context.Context, in models.EmployeeInput) (models.Employee, error) {
	var out models.Employee
	err := c.send(ctx, "employees.create", http.MethodPost, "/api/employees", in, &out)
	return out, err
}

// UpdateEmployee replaces an employee's fields.
func (c *Client) UpdateEmployee(ctx context.Context, id int64, in models.EmployeeInput) (models.Employee, error) {
	var out models.Employee
	err := c.send(ctx, "employees.update", http.MethodPut, "/api/employees/"+strconv.FormatInt(id, 10), in, &out)
	return out, err
}

// DeleteEmployee removes an employee.
func (c *Client) DeleteEmployee(ctx context.Context, id int64) error {
	return c.send(ctx, "employees.delete", http.MethodDelete, "/api/employees/"+strconv.FormatInt(id, 10), nil, nil)
}
