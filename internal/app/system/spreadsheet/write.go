// internal/app/system/spreadsheet/write.go
package spreadsheet

import (
	"fmt"
	"io"

	"github.com/dalemusser/aftershift/internal/domain/models"
	"github.com/xuri/excelize/v2"
)

const exportSheet = "Employees"

var exportHeaders = []any{"Employee ID", "First Name", "Last Name", "Email", "Department"}

// WriteEmployees writes employees as an XLSX workbook with a header row.
func WriteEmployees(w io.Writer, employees []models.Employee) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), exportSheet); err != nil {
		return err
	}
	if err := f.SetSheetRow(exportSheet, "A1", &exportHeaders); err != nil {
		return err
	}
	for i, e := range employees {
		addr, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{e.EmployeeID, e.FirstName, e.LastName, e.Email, e.Department}
		if err := f.SetSheetRow(exportSheet, addr, &row); err != nil {
			return fmt.Errorf("row %d: %w", i+2, err)
		}
	}
	_ = f.SetColWidth(exportSheet, "A", "C", 16)
	_ = f.SetColWidth(exportSheet, "D", "D", 32)
	_ = f.SetColWidth(exportSheet, "E", "E", 20)
	_ = f.SetPanes(exportSheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})

	_, err := f.WriteTo(w)
	return err
}
