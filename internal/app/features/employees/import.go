// internal/app/features/employees/import.go
package employees

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"strconv"

	"github.com/dalemusser/aftershift/internal/app/system/spreadsheet"
	"github.com/dalemusser/aftershift/internal/app/system/timeouts"
	"github.com/dalemusser/aftershift/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

const maxImportBytes = 10 << 20

type importData struct {
	viewdata.BaseVM
	Filename string
	Done     bool
	Created  int
	Errors   []spreadsheet.RowError
}

// ServeImport handles GET /admin/employees/import.
func (h *Handler) ServeImport(w http.ResponseWriter, r *http.Request) {
	templates.Render(w, r, "employees_import", importData{
		BaseVM: viewdata.NewBaseVM(r, "Import Employees", "/admin/employees"),
	})
}

// HandleImport handles POST /admin/employees/import. Each valid row is
// created through the backend; rows rejected locally or by the backend
// are reported with their line numbers.
func (h *Handler) HandleImport(w http.ResponseWriter, r *http.Request) {
	data := importData{BaseVM: viewdata.NewBaseVM(r, "Import Employees", "/admin/employees")}
	fail := func(msg string) {
		data.SetError(msg)
		templates.Render(w, r, "employees_import", data)
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxImportBytes)
	if err := r.ParseMultipartForm(maxImportBytes); err != nil {
		fail("The file is too large or the upload failed.")
		return
	}
	file, hdr, err := r.FormFile("file")
	if err != nil {
		fail("Please choose a file to import.")
		return
	}
	defer file.Close()
	data.Filename = hdr.Filename

	rows, err := spreadsheet.ReadRows(file, hdr.Filename)
	if err != nil {
		if errors.Is(err, spreadsheet.ErrUnsupported) || errors.Is(err, spreadsheet.ErrEmpty) ||
			errors.Is(err, spreadsheet.ErrNoSheet) || errors.Is(err, spreadsheet.ErrTooManyRows) {
			fail("Import failed: " + err.Error())
			return
		}
		h.Log.Warn("read import file failed", zap.Error(err), zap.String("file", hdr.Filename))
		fail("Import failed: the file could not be read.")
		return
	}

	parsed, rowErrs := spreadsheet.ParseEmployees(rows)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Batch())
	defer cancel()

	for _, row := range parsed {
		if _, err := h.API.CreateEmployee(ctx, row.Input); err != nil {
			rowErrs = append(rowErrs, spreadsheet.RowError{
				Line:    row.Line,
				Message: backendMessage(err, "backend rejected the row"),
			})
			if ctx.Err() != nil {
				break
			}
			continue
		}
		data.Created++
	}

	h.AuditLog.EmployeesImported(ctx, r, actor(r), hdr.Filename, data.Created, len(rowErrs))

	data.Done = true
	data.Errors = sortErrors(rowErrs)
	if data.Created > 0 {
		data.Success = "Imported " + plural(data.Created, "employee") + "."
	}
	templates.Render(w, r, "employees_import", data)
}

func sortErrors(errs []spreadsheet.RowError) []spreadsheet.RowError {
	sort.SliceStable(errs, func(i, j int) bool { return errs[i].Line < errs[j].Line })
	return errs
}

func plural(n int, word string) string {
	s := word
	if n != 1 {
		s += "s"
	}
	return strconv.Itoa(n) + " " + s
}
