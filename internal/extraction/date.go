package extraction

import (
	"regexp"
	"strings"
	"time"

	"github.com/a3tai/mcp-inventory-sync/internal/grid"
	"github.com/a3tai/mcp-inventory-sync/internal/textnorm"
)

var dateChain = []strategy[time.Time]{
	{name: "structured_cell", run: structuredDate},
	{name: "labeled_row", run: labeledRowDate},
	{name: "numeric_tokens", run: numericTokenDate},
	{name: "text_pattern", run: textPatternDate},
}

type datePart int

const (
	partNone datePart = iota
	partDay
	partMonth
	partYear
)

var dateLabels = map[string]datePart{
	"DD": partDay, "DIA": partDay, "DAY": partDay,
	"MM": partMonth, "MES": partMonth, "MONTH": partMonth,
	"AA": partYear, "AAAA": partYear, "ANO": partYear, "ANIO": partYear,
	"YY": partYear, "YYYY": partYear, "YEAR": partYear,
}

var (
	inlineDateLabel = regexp.MustCompile(`^(DD|DIA|DAY|MM|MES|MONTH|AAAA|AA|ANIO|ANO|YYYY|YY|YEAR)\s*[:./\-]?\s*(\d{1,4})$`)
	digitRun        = regexp.MustCompile(`\d+`)
	labelToken      = regexp.MustCompile(`[A-Z]+`)
	textDate        = regexp.MustCompile(`(?:^|[^\d])(\d{1,2}[/-]\d{1,2}[/-]\d{2,4})(?:[^\d]|$)`)

	// textDateLayouts are tried in order, first match wins
	textDateLayouts = []string{
		"2/1/2006",
		"2-1-2006",
		"2/1/06",
		"2-1-06",
		"2006-1-2",
		"1/2/2006",
		"1-2-2006",
	}
)

// structuredDate returns the first cell of the upper-left region that already
// holds a calendar value.
func structuredDate(s *scan) (time.Time, bool) {
	lastRow := min(dateScanLastRow, s.doc.MaxRow())
	lastCol := min(dateScanLastCol, s.doc.MaxColumn())
	for r := 1; r <= lastRow; r++ {
		for c := 1; c <= lastCol; c++ {
			if v := s.doc.Cell(r, c); v.IsDate() {
				t := v.Time
				return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
			}
		}
	}
	return time.Time{}, false
}

// labeledRowDate reads day, month and year values placed to the right of
// their label boxes.
func labeledRowDate(s *scan) (time.Time, bool) {
	for _, r := range dateLabelRows(s.doc) {
		day, month, year := 0, 0, 0
		for c := 1; c <= s.doc.MaxColumn(); c++ {
			part, inline := classifyDateCell(s.doc.Cell(r, c))
			if part == partNone {
				continue
			}
			v := grid.Text(inline)
			if inline == "" {
				right, ok := firstRightValue(s.doc, r, c, dateLookahead)
				if !ok {
					continue
				}
				v = right
			}
			n, ok := v.Int()
			if !ok {
				continue
			}
			switch part {
			case partDay:
				if day == 0 && n >= 1 && n <= 31 {
					day = n
				}
			case partMonth:
				if month == 0 && n >= 1 && n <= 12 {
					month = n
				}
			case partYear:
				if y, ok := normalizeYear(n); ok && year == 0 {
					year = y
				}
			}
		}
		if day > 0 && month > 0 && year > 0 {
			if t, ok := makeDate(day, month, year); ok {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

// numericTokenDate tests every ordered (day, month, year) triple of the
// numeric tokens of the label rows, left to right.
func numericTokenDate(s *scan) (time.Time, bool) {
	for _, r := range dateLabelRows(s.doc) {
		nums := rowNumbers(s.doc, r)
		for i := 0; i < len(nums); i++ {
			for j := i + 1; j < len(nums); j++ {
				for k := j + 1; k < len(nums); k++ {
					d, m := nums[i], nums[j]
					if d < 1 || d > 31 || m < 1 || m > 12 {
						continue
					}
					y, ok := normalizeYear(nums[k])
					if !ok {
						continue
					}
					if t, ok := makeDate(d, m, y); ok {
						return t, true
					}
				}
			}
		}
	}
	return time.Time{}, false
}

// textPatternDate searches the document text for a delimited day/month/year
func textPatternDate(s *scan) (time.Time, bool) {
	m := textDate.FindStringSubmatch(s.Blob())
	if m == nil {
		return time.Time{}, false
	}
	for _, layout := range textDateLayouts {
		if t, err := time.Parse(layout, m[1]); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// dateLabelRows returns the calibrated label row followed by any other row of
// the upper region that carries at least two different date labels.
func dateLabelRows(doc grid.Document) []int {
	rows := []int{dateLabelRow}
	lastRow := min(dateScanLastRow, doc.MaxRow())
	for r := 1; r <= lastRow; r++ {
		if r == dateLabelRow {
			continue
		}
		seen := map[datePart]bool{}
		for c := 1; c <= doc.MaxColumn(); c++ {
			v := doc.Cell(r, c)
			if v.Kind != grid.KindText {
				continue
			}
			for _, tok := range labelToken.FindAllString(textnorm.Header(v.Text), -1) {
				if part, ok := dateLabels[tok]; ok {
					seen[part] = true
				}
			}
		}
		if len(seen) >= 2 {
			rows = append(rows, r)
		}
	}
	return rows
}

// classifyDateCell recognizes a label box ("DD", "MES:", "AÑO") or a label
// carrying its own value ("DD:14").
func classifyDateCell(v grid.Value) (datePart, string) {
	if v.Kind != grid.KindText {
		return partNone, ""
	}
	h := strings.TrimRight(textnorm.Header(v.Text), ":. ")
	if part, ok := dateLabels[h]; ok {
		return part, ""
	}
	if m := inlineDateLabel.FindStringSubmatch(h); m != nil {
		return dateLabels[m[1]], m[2]
	}
	return partNone, ""
}

func firstRightValue(doc grid.Document, row, col, lookahead int) (grid.Value, bool) {
	for c := col + 1; c <= col+lookahead; c++ {
		if v := doc.Cell(row, c); !v.IsEmpty() {
			return v, true
		}
	}
	return grid.Empty, false
}

func rowNumbers(doc grid.Document, row int) []int {
	var nums []int
	for c := 1; c <= doc.MaxColumn(); c++ {
		v := doc.Cell(row, c)
		switch v.Kind {
		case grid.KindNumber:
			if n, ok := v.Int(); ok {
				nums = append(nums, n)
			}
		case grid.KindText:
			for _, tok := range digitRun.FindAllString(v.Text, -1) {
				if len(tok) > 4 {
					continue
				}
				if n, ok := grid.Text(tok).Int(); ok {
					nums = append(nums, n)
				}
			}
		}
	}
	return nums
}

// normalizeYear maps a 2-digit year to 2000+y and accepts 4-digit years in
// [1900, 2100].
func normalizeYear(y int) (int, bool) {
	switch {
	case y >= 0 && y <= 99:
		return 2000 + y, true
	case y >= 1900 && y <= 2100:
		return y, true
	default:
		return 0, false
	}
}

func makeDate(day, month, year int) (time.Time, bool) {
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day || int(t.Month()) != month {
		return time.Time{}, false
	}
	return t, true
}
