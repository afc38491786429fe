package grid

import (
	"fmt"
	"time"
)

// Document is a random-access 2-D cell reader. Addresses are 1-based.
// Cell must return Empty for any address outside 1..MaxRow / 1..MaxColumn.
type Document interface {
	Cell(row, col int) Value
	MaxRow() int
	MaxColumn() int
}

// Sheet is an in-memory Document
type Sheet struct {
	name   string
	cells  [][]Value
	maxCol int
}

// NewSheet builds a Sheet from row-major values. Each element may be nil,
// a string, any integer or float type, a time.Time, a bool or a Value.
// Unsupported types are rendered with fmt.Sprint.
func NewSheet(name string, rows [][]any) *Sheet {
	s := &Sheet{name: name, cells: make([][]Value, len(rows))}
	for r, row := range rows {
		s.cells[r] = make([]Value, len(row))
		for c, raw := range row {
			s.cells[r][c] = toValue(raw)
		}
		if len(row) > s.maxCol {
			s.maxCol = len(row)
		}
	}
	return s
}

// NewSheetFromValues builds a Sheet from already typed values
func NewSheetFromValues(name string, rows [][]Value) *Sheet {
	s := &Sheet{name: name, cells: rows}
	for _, row := range rows {
		if len(row) > s.maxCol {
			s.maxCol = len(row)
		}
	}
	return s
}

// Name returns the sheet name
func (s *Sheet) Name() string { return s.name }

// Cell returns the value at (row, col), or Empty when out of range
func (s *Sheet) Cell(row, col int) Value {
	if row < 1 || row > len(s.cells) {
		return Empty
	}
	cells := s.cells[row-1]
	if col < 1 || col > len(cells) {
		return Empty
	}
	return cells[col-1]
}

// MaxRow returns the last used row
func (s *Sheet) MaxRow() int { return len(s.cells) }

// MaxColumn returns the last used column
func (s *Sheet) MaxColumn() int { return s.maxCol }

// Values converts raw values the same way NewSheet does
func Values(raw ...any) []Value {
	out := make([]Value, len(raw))
	for i, v := range raw {
		out[i] = toValue(v)
	}
	return out
}

func toValue(raw any) Value {
	switch v := raw.(type) {
	case nil:
		return Empty
	case Value:
		return v
	case string:
		if v == "" {
			return Empty
		}
		return Text(v)
	case int:
		return Number(float64(v))
	case int64:
		return Number(float64(v))
	case int32:
		return Number(float64(v))
	case float64:
		return Number(v)
	case float32:
		return Number(float64(v))
	case time.Time:
		return Date(v)
	case bool:
		return Bool(v)
	default:
		return Text(fmt.Sprint(v))
	}
}
