package grid

import "strings"

const (
	// CellSeparator joins cells of one row in a text blob
	CellSeparator = " | "
	// LineSeparator joins rows in a text blob
	LineSeparator = "\n"
)

// Window is an inclusive, 1-based rectangle of a document
type Window struct {
	FirstRow int
	LastRow  int
	FirstCol int
	LastCol  int
}

// clamp restricts the window to the document bounds. ok is false when nothing
// of the window remains.
func (w Window) clamp(doc Document) (Window, bool) {
	if w.FirstRow < 1 {
		w.FirstRow = 1
	}
	if w.FirstCol < 1 {
		w.FirstCol = 1
	}
	if w.LastRow > doc.MaxRow() {
		w.LastRow = doc.MaxRow()
	}
	if w.LastCol > doc.MaxColumn() {
		w.LastCol = doc.MaxColumn()
	}
	return w, w.FirstRow <= w.LastRow && w.FirstCol <= w.LastCol
}

// Blob flattens the non-empty cells of a window into a search-friendly text:
// one line per row that has content, cells joined by CellSeparator in column
// order. An out-of-range window yields "".
func Blob(doc Document, w Window) string {
	if doc == nil {
		return ""
	}
	w, ok := w.clamp(doc)
	if !ok {
		return ""
	}

	lines := make([]string, 0, w.LastRow-w.FirstRow+1)
	for r := w.FirstRow; r <= w.LastRow; r++ {
		if line := joinRow(doc, r, w.FirstCol, w.LastCol, CellSeparator); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, LineSeparator)
}

// RowText joins the non-empty cells of a single row between firstCol and
// lastCol with sep.
func RowText(doc Document, row, firstCol, lastCol int, sep string) string {
	if doc == nil {
		return ""
	}
	w, ok := Window{FirstRow: row, LastRow: row, FirstCol: firstCol, LastCol: lastCol}.clamp(doc)
	if !ok {
		return ""
	}
	return joinRow(doc, row, w.FirstCol, w.LastCol, sep)
}

func joinRow(doc Document, row, firstCol, lastCol int, sep string) string {
	var vals []string
	for c := firstCol; c <= lastCol; c++ {
		v := doc.Cell(row, c)
		if v.IsEmpty() {
			continue
		}
		vals = append(vals, v.String())
	}
	return strings.Join(vals, sep)
}
