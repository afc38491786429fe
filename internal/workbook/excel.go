// Package workbook reads hand-over records and inventory workbooks from disk
// and writes reconciled inventories back.
package workbook

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/a3tai/mcp-inventory-sync/internal/grid"
	"github.com/a3tai/mcp-inventory-sync/internal/inventory"
)

// Supported spreadsheet extensions
const (
	ExtXLSX = ".xlsx"
	ExtXLSM = ".xlsm"
	ExtXLS  = ".xls"
)

// SupportedFormats lists the extensions that can be read
var SupportedFormats = []string{ExtXLSX, ExtXLSM, ExtXLS}

// sheetData is one sheet read into memory
type sheetData struct {
	name string
	rows [][]grid.Value
}

// IsSpreadsheet reports whether the file name has a supported extension
func IsSpreadsheet(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ExtXLSX, ExtXLSM, ExtXLS:
		return true
	}
	return false
}

// readBook reads every sheet of the file, or only the first one
func readBook(path string, firstOnly bool) ([]sheetData, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ExtXLSX, ExtXLSM:
		return readXLSX(path, firstOnly)
	case ExtXLS:
		return readXLS(path, firstOnly)
	default:
		return nil, fmt.Errorf("unsupported file type: %s", filepath.Ext(path))
	}
}

// OpenDocument loads the first sheet of a hand-over record
func OpenDocument(path string) (*grid.Sheet, error) {
	sheets, err := readBook(path, true)
	if err != nil {
		return nil, err
	}
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheets found: %s", path)
	}
	return grid.NewSheetFromValues(sheets[0].name, sheets[0].rows), nil
}

// LoadInventory loads every sheet as a collection whose header is the first
// row.
func LoadInventory(path string) ([]*inventory.Collection, error) {
	sheets, err := readBook(path, false)
	if err != nil {
		return nil, err
	}

	cols := make([]*inventory.Collection, 0, len(sheets))
	for _, sh := range sheets {
		var header []string
		var rows [][]grid.Value
		if len(sh.rows) > 0 {
			header = make([]string, len(sh.rows[0]))
			for i, v := range sh.rows[0] {
				header[i] = v.Trimmed()
			}
			rows = sh.rows[1:]
		}
		cols = append(cols, inventory.NewCollection(sh.name, header, rows))
	}
	return cols, nil
}

func readXLSX(path string, firstOnly bool) ([]sheetData, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	names := f.GetSheetList()
	if firstOnly && len(names) > 1 {
		names = names[:1]
	}

	r := &xlsxReader{f: f, dateStyles: make(map[int]bool)}
	out := make([]sheetData, 0, len(names))
	for _, name := range names {
		rows, err := r.sheet(name)
		if err != nil {
			return nil, fmt.Errorf("read sheet %q: %w", name, err)
		}
		out = append(out, sheetData{name: name, rows: rows})
	}
	return out, nil
}

type xlsxReader struct {
	f          *excelize.File
	dateStyles map[int]bool
}

func (r *xlsxReader) sheet(name string) ([][]grid.Value, error) {
	raw, err := r.f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, err
	}

	rows := make([][]grid.Value, len(raw))
	for i, cells := range raw {
		row := make([]grid.Value, len(cells))
		for j, s := range cells {
			if strings.TrimSpace(s) == "" {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				return nil, err
			}
			row[j] = r.value(name, cell, s)
		}
		rows[i] = row
	}
	return rows, nil
}

// value types a raw cell. Numbers carrying a date format become dates.
func (r *xlsxReader) value(sheet, cell, raw string) grid.Value {
	typ, err := r.f.GetCellType(sheet, cell)
	if err != nil {
		return grid.Text(raw)
	}

	switch typ {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeError:
		return grid.Text(raw)
	case excelize.CellTypeBool:
		return grid.Bool(raw == "1" || strings.EqualFold(raw, "TRUE"))
	case excelize.CellTypeDate:
		for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
			if t, err := time.Parse(layout, raw); err == nil {
				return grid.Date(t)
			}
		}
		return grid.Text(raw)
	}

	n, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return grid.Text(raw)
	}
	if r.isDateCell(sheet, cell) {
		if t, err := excelize.ExcelDateToTime(n, false); err == nil {
			return grid.Date(t)
		}
	}
	return grid.Number(n)
}

func (r *xlsxReader) isDateCell(sheet, cell string) bool {
	id, err := r.f.GetCellStyle(sheet, cell)
	if err != nil || id == 0 {
		return false
	}
	if known, ok := r.dateStyles[id]; ok {
		return known
	}
	isDate := false
	if style, err := r.f.GetStyle(id); err == nil && style != nil {
		isDate = isDateFormat(style.NumFmt, style.CustomNumFmt)
	}
	r.dateStyles[id] = isDate
	return isDate
}

// isDateFormat recognizes the built-in date formats and custom formats made
// of day, month or year tokens.
func isDateFormat(numFmt int, custom *string) bool {
	switch {
	case numFmt >= 14 && numFmt <= 22, numFmt >= 27 && numFmt <= 36,
		numFmt >= 45 && numFmt <= 47, numFmt >= 50 && numFmt <= 58:
		return true
	}
	if custom == nil {
		return false
	}

	var b strings.Builder
	quoted, bracket := false, false
	for _, ch := range strings.ToLower(*custom) {
		switch {
		case ch == '"':
			quoted = !quoted
		case ch == '[':
			bracket = true
		case ch == ']':
			bracket = false
		case !quoted && !bracket:
			b.WriteRune(ch)
		}
	}
	f := b.String()
	return strings.ContainsAny(f, "dy") || (strings.Contains(f, "m") && !strings.ContainsAny(f, "0#"))
}

// SaveInventory writes the collections as one sheet each, in order, header
// first.
func SaveInventory(path string, cols []*inventory.Collection) error {
	if len(cols) == 0 {
		return fmt.Errorf("no collections to save")
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	for i, c := range cols {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), c.Name); err != nil {
				return fmt.Errorf("rename sheet %q: %w", c.Name, err)
			}
		} else if _, err := f.NewSheet(c.Name); err != nil {
			return fmt.Errorf("create sheet %q: %w", c.Name, err)
		}
		if err := writeCollection(f, c); err != nil {
			return fmt.Errorf("write sheet %q: %w", c.Name, err)
		}
	}
	f.SetActiveSheet(0)

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func writeCollection(f *excelize.File, c *inventory.Collection) error {
	if len(c.Header) > 0 {
		header := make([]any, len(c.Header))
		for i, h := range c.Header {
			header[i] = h
		}
		if err := f.SetSheetRow(c.Name, "A1", &header); err != nil {
			return err
		}
	}

	for i := range c.Len() {
		for j, v := range c.Row(inventory.RowID(i)) {
			cv, ok := cellValue(v)
			if !ok {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(j+1, i+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(c.Name, cell, cv); err != nil {
				return err
			}
		}
	}
	return nil
}

func cellValue(v grid.Value) (any, bool) {
	switch v.Kind {
	case grid.KindText:
		return v.Text, v.Text != ""
	case grid.KindNumber:
		return v.Number, true
	case grid.KindDate:
		return v.Time, true
	case grid.KindBool:
		return v.Bool, true
	default:
		return nil, false
	}
}
