// Package grid models a spreadsheet-like document as a read-only 2-D cell source.
//
// Rows and columns are 1-based, the same way spreadsheet applications number
// them. A Document never fails on an out-of-range address; it returns an empty
// Value instead, which keeps the heuristic scanners free of bounds checks.
package grid

import (
	"strconv"
	"strings"
	"time"
)

// Kind identifies the type of value held by a cell
type Kind int

const (
	KindEmpty Kind = iota
	KindText
	KindNumber
	KindDate
	KindBool
)

// String returns the string representation of the kind
func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindText:
		return "text"
	case KindNumber:
		return "number"
	case KindDate:
		return "date"
	case KindBool:
		return "bool"
	default:
		return "unknown"
	}
}

// Value is a single typed cell value
type Value struct {
	Kind   Kind
	Text   string
	Number float64
	Time   time.Time
	Bool   bool
}

// Empty is the value of a cell that holds nothing
var Empty = Value{Kind: KindEmpty}

// Text returns a text value
func Text(s string) Value { return Value{Kind: KindText, Text: s} }

// Number returns a numeric value
func Number(f float64) Value { return Value{Kind: KindNumber, Number: f} }

// Date returns a calendar value
func Date(t time.Time) Value { return Value{Kind: KindDate, Time: t} }

// Bool returns a boolean value
func Bool(b bool) Value { return Value{Kind: KindBool, Bool: b} }

// IsEmpty reports whether the cell carries no usable content. Text made only of
// whitespace counts as empty.
func (v Value) IsEmpty() bool {
	switch v.Kind {
	case KindEmpty:
		return true
	case KindText:
		return strings.TrimSpace(v.Text) == ""
	default:
		return false
	}
}

// IsDate reports whether the cell holds a calendar value
func (v Value) IsDate() bool {
	return v.Kind == KindDate && !v.Time.IsZero()
}

// String renders the value the way it should appear in text searches.
// Integral numbers are rendered without a fractional part so that identity
// numbers stored as numbers keep their digits intact.
func (v Value) String() string {
	switch v.Kind {
	case KindText:
		return v.Text
	case KindNumber:
		if v.Number == float64(int64(v.Number)) {
			return strconv.FormatInt(int64(v.Number), 10)
		}
		return strconv.FormatFloat(v.Number, 'f', -1, 64)
	case KindDate:
		if v.Time.Hour() == 0 && v.Time.Minute() == 0 && v.Time.Second() == 0 {
			return v.Time.Format("2006-01-02")
		}
		return v.Time.Format("2006-01-02 15:04:05")
	case KindBool:
		if v.Bool {
			return "TRUE"
		}
		return "FALSE"
	default:
		return ""
	}
}

// Trimmed returns String() without surrounding whitespace
func (v Value) Trimmed() string {
	return strings.TrimSpace(v.String())
}

// Int returns the value as an integer when it is an integral number or a text
// made only of ASCII digits.
func (v Value) Int() (int, bool) {
	switch v.Kind {
	case KindNumber:
		if v.Number != float64(int64(v.Number)) {
			return 0, false
		}
		return int(v.Number), true
	case KindText:
		s := strings.TrimSpace(v.Text)
		if s == "" {
			return 0, false
		}
		for _, r := range s {
			if r < '0' || r > '9' {
				return 0, false
			}
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}
