// internal/app/features/employees/form.go
package employees

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/dalemusser/aftershift/internal/app/store/audit"
	"github.com/dalemusser/aftershift/internal/app/system/apiclient"
	"github.com/dalemusser/aftershift/internal/app/system/spreadsheet"
	"github.com/dalemusser/aftershift/internal/app/system/timeouts"
	"github.com/dalemusser/aftershift/internal/app/system/viewdata"
	"github.com/dalemusser/aftershift/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

type formData struct {
	viewdata.BaseVM
	ID     int64 // 0 for a new employee
	Action string
	Form   models.EmployeeInput
}

func readInput(r *http.Request) models.EmployeeInput {
	return models.EmployeeInput{
		EmployeeID: strings.TrimSpace(r.FormValue("employee_id")),
		FirstName:  strings.TrimSpace(r.FormValue("first_name")),
		LastName:   strings.TrimSpace(r.FormValue("last_name")),
		Email:      strings.ToLower(strings.TrimSpace(r.FormValue("email"))),
		Department: strings.TrimSpace(r.FormValue("department")),
	}
}

func (h *Handler) renderForm(w http.ResponseWriter, r *http.Request, id int64, in models.EmployeeInput, errMsg string) {
	title, action := "Add Employee", "/admin/employees"
	if id > 0 {
		title = "Edit Employee"
		action = "/admin/employees/" + strconv.FormatInt(id, 10) + "/edit"
	}
	data := formData{
		BaseVM: viewdata.NewBaseVM(r, title, "/admin/employees"),
		ID:     id,
		Action: action,
		Form:   in,
	}
	if errMsg != "" {
		data.SetError(errMsg)
	}
	templates.Render(w, r, "employee_form", data)
}

// backendMessage prefers the backend's field-level validation message.
func backendMessage(err error, fallback string) string {
	var apiErr *apiclient.Error
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusUnprocessableEntity {
		if m := apiErr.FirstFieldError(); m != "" {
			return m
		}
	}
	return fallback
}

// ServeNew handles GET /admin/employees/new.
func (h *Handler) ServeNew(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, 0, models.EmployeeInput{}, "")
}

// HandleCreate handles POST /admin/employees.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form submission.", "/admin/employees")
		return
	}
	in := readInput(r)
	if msg := spreadsheet.ValidateEmployee(in); msg != "" {
		h.renderForm(w, r, 0, in, capitalize(msg)+".")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	emp, err := h.API.CreateEmployee(ctx, in)
	if err != nil {
		h.Log.Warn("create employee failed", zap.Error(err), zap.String("employee_id", in.EmployeeID))
		h.AuditLog.AdminFailed(ctx, r, actor(r), audit.EventEmployeeCreated, in.EmployeeID, err.Error())
		h.renderForm(w, r, 0, in, backendMessage(err, "Failed to add employee. Please try again."))
		return
	}

	h.AuditLog.Admin(ctx, r, actor(r), audit.EventEmployeeCreated, strconv.FormatInt(emp.ID, 10),
		map[string]string{"employee_id": in.EmployeeID})
	http.Redirect(w, r, "/admin/employees?flash=created", http.StatusSeeOther)
}

// ServeEdit handles GET /admin/employees/{id}/edit.
func (h *Handler) ServeEdit(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		h.ErrLog.LogBadRequest(w, r, "bad employee id", nil, "Invalid employee.", "/admin/employees")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	emp, err := h.API.GetEmployee(ctx, id)
	if apiclient.IsNotFound(err) {
		h.ErrLog.LogBadRequest(w, r, "employee not found", err, "Employee not found.", "/admin/employees")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "get employee failed", err, "Failed to load employee.", "/admin/employees")
		return
	}

	h.renderForm(w, r, id, models.EmployeeInput{
		EmployeeID: emp.EmployeeID,
		FirstName:  emp.FirstName,
		LastName:   emp.LastName,
		Email:      emp.Email,
		Department: emp.Department,
	}, "")
}

// HandleEdit handles POST /admin/employees/{id}/edit.
func (h *Handler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		h.ErrLog.LogBadRequest(w, r, "bad employee id", nil, "Invalid employee.", "/admin/employees")
		return
	}
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form submission.", "/admin/employees")
		return
	}
	in := readInput(r)
	if msg := spreadsheet.ValidateEmployee(in); msg != "" {
		h.renderForm(w, r, id, in, capitalize(msg)+".")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	subject := strconv.FormatInt(id, 10)
	if _, err := h.API.UpdateEmployee(ctx, id, in); err != nil {
		h.Log.Warn("update employee failed", zap.Error(err), zap.Int64("id", id))
		h.AuditLog.AdminFailed(ctx, r, actor(r), audit.EventEmployeeUpdated, subject, err.Error())
		h.renderForm(w, r, id, in, backendMessage(err, "Failed to update employee. Please try again."))
		return
	}

	h.AuditLog.Admin(ctx, r, actor(r), audit.EventEmployeeUpdated, subject,
		map[string]string{"employee_id": in.EmployeeID})
	http.Redirect(w, r, "/admin/employees?flash=updated", http.StatusSeeOther)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
