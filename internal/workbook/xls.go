package workbook

import (
	"fmt"
	"strings"

	"github.com/extrame/xls"

	"github.com/a3tai/mcp-inventory-sync/internal/grid"
)

// readXLS reads legacy BIFF workbooks. Cells come back as text only, which
// keeps leading zeros in serial numbers intact.
func readXLS(path string, firstOnly bool) (out []sheetData, err error) {
	// The BIFF parser panics on some truncated files.
	defer func() {
		if r := recover(); r != nil {
			out, err = nil, fmt.Errorf("open workbook: malformed xls: %v", r)
		}
	}()

	wb, err := xls.Open(path, "utf-8")
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}

	count := wb.NumSheets()
	if firstOnly && count > 1 {
		count = 1
	}

	out = make([]sheetData, 0, count)
	for i := range count {
		sheet := wb.GetSheet(i)
		if sheet == nil {
			continue
		}
		out = append(out, sheetData{name: sheet.Name, rows: xlsRows(sheet)})
	}
	return out, nil
}

func xlsRows(sheet *xls.WorkSheet) [][]grid.Value {
	last := int(sheet.MaxRow)
	rows := make([][]grid.Value, 0, last+1)
	for i := 0; i <= last; i++ {
		row := sheet.Row(i)
		if row == nil {
			rows = append(rows, nil)
			continue
		}
		cells := make([]grid.Value, row.LastCol())
		for c := row.FirstCol(); c < row.LastCol(); c++ {
			if s := row.Col(c); strings.TrimSpace(s) != "" {
				cells[c] = grid.Text(s)
			}
		}
		rows = append(rows, cells)
	}

	for len(rows) > 0 && len(rows[len(rows)-1]) == 0 {
		rows = rows[:len(rows)-1]
	}
	return rows
}
