// internal/app/system/spreadsheet/read.go
//
// Package spreadsheet reads employee rosters from CSV, XLSX and XLS
// uploads and writes the employee list back out as XLSX.
package spreadsheet

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

// MaxRows caps the number of data rows accepted from one upload.
const MaxRows = 5000

var (
	ErrUnsupported = errors.New("unsupported file type; upload a .csv, .xlsx or .xls file")
	ErrEmpty       = errors.New("worksheet is empty")
	ErrNoSheet     = errors.New("no worksheet found")
	ErrTooManyRows = fmt.Errorf("too many rows; the limit is %d", MaxRows)
)

// Supported reports whether filename has an extension ReadRows accepts.
func Supported(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv", ".xlsx", ".xls":
		return true
	}
	return false
}

// Row is one row of an upload. Line is its 1-based position in the
// source file, counting blank lines.
type Row struct {
	Line  int
	Cells []string
}

// ReadRows returns the non-blank rows of the first worksheet (or the CSV
// file), header included.
func ReadRows(r io.Reader, filename string) ([]Row, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var rows []Row
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		rows, err = readCSV(data)
	case ".xlsx":
		rows, err = readXLSX(data)
	case ".xls":
		rows, err = readXLS(data)
	default:
		return nil, ErrUnsupported
	}
	if err != nil {
		return nil, err
	}
	rows = dropBlankRows(rows)
	if len(rows) == 0 {
		return nil, ErrEmpty
	}
	if len(rows)-1 > MaxRows {
		return nil, ErrTooManyRows
	}
	return rows, nil
}

func readCSV(data []byte) ([]Row, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	cr := csv.NewReader(bytes.NewReader(data))
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var rows []Row
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			return rows, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		line, _ := cr.FieldPos(0)
		rows = append(rows, Row{Line: line, Cells: rec})
	}
}

func readXLSX(data []byte) ([]Row, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, ErrNoSheet
	}
	cells, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read xlsx: %w", err)
	}
	// GetRows keeps interior empty rows, so the index is the sheet row.
	rows := make([]Row, len(cells))
	for i, c := range cells {
		rows[i] = Row{Line: i + 1, Cells: c}
	}
	return rows, nil
}

func readXLS(data []byte) ([]Row, error) {
	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, fmt.Errorf("open xls: %w", err)
	}
	return firstSheetRows(xlsBook{wb})
}

// sheetBook and sheetGrid are the parts of a legacy workbook the reader
// walks.
type sheetBook interface {
	NumSheets() int
	Sheet(i int) sheetGrid
}

type sheetGrid interface {
	// LastRow is the 0-based index of the last stored row.
	LastRow() int
	// Cells returns row i, or nil when the sheet has no such row.
	Cells(i int) []string
}

// firstSheetRows reads only the first worksheet; later sheets such as
// lookup lists are ignored.
func firstSheetRows(b sheetBook) ([]Row, error) {
	if b.NumSheets() == 0 {
		return nil, ErrNoSheet
	}
	sheet := b.Sheet(0)
	if sheet == nil {
		return nil, ErrNoSheet
	}
	last := sheet.LastRow()
	if last > MaxRows {
		return nil, ErrTooManyRows
	}
	rows := make([]Row, 0, last+1)
	for i := 0; i <= last; i++ {
		if cells := sheet.Cells(i); cells != nil {
			rows = append(rows, Row{Line: i + 1, Cells: cells})
		}
	}
	return rows, nil
}

// xlsScanCols is how many columns are scanned on rows whose record does
// not carry a column range.
const xlsScanCols = 32

type xlsBook struct{ wb *xls.WorkBook }

func (b xlsBook) NumSheets() int { return b.wb.NumSheets() }

func (b xlsBook) Sheet(i int) sheetGrid {
	ws := b.wb.GetSheet(i)
	if ws == nil {
		return nil
	}
	return xlsSheet{ws}
}

type xlsSheet struct{ ws *xls.WorkSheet }

func (s xlsSheet) LastRow() int { return int(s.ws.MaxRow) }

// Cells recovers from WorkSheet.Row, which panics on rows the file
// never stored.
func (s xlsSheet) Cells(i int) (cells []string) {
	defer func() {
		if recover() != nil {
			cells = nil
		}
	}()
	row := s.ws.Row(i)
	if row == nil {
		return nil
	}
	width := row.LastCol()
	if width < xlsScanCols {
		width = xlsScanCols
	}
	cells = make([]string, width)
	for c := range cells {
		cells[c] = row.Col(c)
	}
	end := len(cells)
	for end > 0 && strings.TrimSpace(cells[end-1]) == "" {
		end--
	}
	return cells[:end]
}

func dropBlankRows(rows []Row) []Row {
	out := rows[:0]
	for _, row := range rows {
		for _, c := range row.Cells {
			if strings.TrimSpace(c) != "" {
				out = append(out, row)
				break
			}
		}
	}
	return out
}
