// internal/app/system/spreadsheet/employees.go
package spreadsheet

import (
	"fmt"
	"strings"

	"github.com/dalemusser/aftershift/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/validate"
)

// Column order used for export and for headerless imports.
var Columns = []string{"employee_id", "first_name", "last_name", "email", "department"}

var headerAliases = map[string]string{
	"employee_id": "employee_id", "employeeid": "employee_id", "employee id": "employee_id",
	"employee no": "employee_id", "employee number": "employee_id", "id": "employee_id",
	"first_name": "first_name", "firstname": "first_name", "first name": "first_name", "first": "first_name",
	"last_name": "last_name", "lastname": "last_name", "last name": "last_name", "last": "last_name",
	"email": "email", "e-mail": "email", "email address": "email",
	"department": "department", "dept": "department",
}

// EmployeeRow is one parsed import row. Line is the 1-based line in the
// source file.
type EmployeeRow struct {
	Line  int
	Input models.EmployeeInput
}

// RowError reports a rejected row.
type RowError struct {
	Line    int
	Message string
}

func (e RowError) Error() string { return fmt.Sprintf("line %d: %s", e.Line, e.Message) }

// ParseEmployees maps rows to employee inputs. The first row is treated
// as a header when it names at least two known columns; otherwise the
// columns are read in Columns order. Rows that fail validation are
// returned as RowErrors and skipped. Duplicate employee IDs or emails
// within the file are rejected after their first occurrence.
func ParseEmployees(rows []Row) ([]EmployeeRow, []RowError) {
	if len(rows) == 0 {
		return nil, nil
	}
	idx, hasHeader := detectHeader(rows[0].Cells)
	start := 0
	if hasHeader {
		start = 1
	}

	var (
		out       []EmployeeRow
		errs      []RowError
		seenIDs   = map[string]bool{}
		seenEmail = map[string]bool{}
	)
	for i := start; i < len(rows); i++ {
		row := rows[i].Cells
		line := rows[i].Line
		in := models.EmployeeInput{
			EmployeeID: cell(row, idx["employee_id"]),
			FirstName:  cell(row, idx["first_name"]),
			LastName:   cell(row, idx["last_name"]),
			Email:      strings.ToLower(cell(row, idx["email"])),
			Department: cell(row, idx["department"]),
		}
		if msg := ValidateEmployee(in); msg != "" {
			errs = append(errs, RowError{Line: line, Message: msg})
			continue
		}
		if seenIDs[in.EmployeeID] {
			errs = append(errs, RowError{Line: line, Message: "duplicate employee ID " + in.EmployeeID})
			continue
		}
		if seenEmail[in.Email] {
			errs = append(errs, RowError{Line: line, Message: "duplicate email " + in.Email})
			continue
		}
		seenIDs[in.EmployeeID] = true
		seenEmail[in.Email] = true
		out = append(out, EmployeeRow{Line: line, Input: in})
	}
	return out, errs
}

// ValidateEmployee returns a user-facing message for the first problem
// with in, or "" when it is acceptable.
func ValidateEmployee(in models.EmployeeInput) string {
	switch {
	case in.EmployeeID == "":
		return "employee ID is required"
	case in.FirstName == "":
		return "first name is required"
	case in.LastName == "":
		return "last name is required"
	case in.Email == "":
		return "email is required"
	case !validate.SimpleEmailValid(in.Email):
		return "email is not valid"
	case in.Department == "":
		return "department is required"
	}
	return ""
}

func detectHeader(row []string) (map[string]int, bool) {
	idx := map[string]int{}
	for i, h := range row {
		key := strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(h))), " ")
		if col, ok := headerAliases[key]; ok {
			if _, dup := idx[col]; !dup {
				idx[col] = i
			}
		}
	}
	if len(idx) >= 2 {
		for _, c := range Columns {
			if _, ok := idx[c]; !ok {
				idx[c] = -1
			}
		}
		return idx, true
	}
	idx = map[string]int{}
	for i, c := range Columns {
		idx[c] = i
	}
	return idx, false
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
