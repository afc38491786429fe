// Package inventory models the sheets of an inventory workbook as record
// collections addressed by semantic role rather than column position.
package inventory

import (
	"github.com/a3tai/mcp-inventory-sync/internal/grid"
	"github.com/a3tai/mcp-inventory-sync/internal/textnorm"
)

// RowID is the position of a data row inside its collection, 0-based and
// excluding the header. It is stable for the duration of a run: rows are
// only ever appended.
type RowID int

// Collection is one named sheet: a header and its data rows
type Collection struct {
	Name   string
	Header []string
	rows   [][]grid.Value
}

// NewCollection creates a collection. Rows are not copied.
func NewCollection(name string, header []string, rows [][]grid.Value) *Collection {
	return &Collection{Name: name, Header: header, rows: rows}
}

// Len returns the number of data rows
func (c *Collection) Len() int {
	return len(c.rows)
}

// Row returns the cells of a row as stored, which may be shorter than the
// header.
func (c *Collection) Row(id RowID) []grid.Value {
	if int(id) < 0 || int(id) >= len(c.rows) {
		return nil
	}
	return c.rows[id]
}

// Cell returns the value at (id, col) with col 0-based; out of range is
// empty.
func (c *Collection) Cell(id RowID, col int) grid.Value {
	row := c.Row(id)
	if col < 0 || col >= len(row) {
		return grid.Empty
	}
	return row[col]
}

// Text returns the trimmed text of a cell
func (c *Collection) Text(id RowID, col int) string {
	return c.Cell(id, col).Trimmed()
}

// Set stores v at (id, col), growing the row if needed. Writes outside the
// header width or past the last row are ignored.
func (c *Collection) Set(id RowID, col int, v grid.Value) {
	if int(id) < 0 || int(id) >= len(c.rows) || col < 0 || col >= len(c.Header) {
		return
	}
	row := c.rows[id]
	for len(row) <= col {
		row = append(row, grid.Empty)
	}
	row[col] = v
	c.rows[id] = row
}

// Append adds a row and returns its id
func (c *Collection) Append(row []grid.Value) RowID {
	c.rows = append(c.rows, row)
	return RowID(len(c.rows) - 1)
}

// ColumnIndex returns the first column whose normalized header equals the
// normalized label, or -1.
func (c *Collection) ColumnIndex(label string) int {
	want := textnorm.Header(label)
	for i, h := range c.Header {
		if textnorm.Header(h) == want {
			return i
		}
	}
	return -1
}

// EnsureColumn returns the column for label, appending it to the header when
// missing.
func (c *Collection) EnsureColumn(label string) int {
	if i := c.ColumnIndex(label); i >= 0 {
		return i
	}
	c.Header = append(c.Header, label)
	return len(c.Header) - 1
}
