package extraction

import (
	"regexp"
	"strings"

	"github.com/a3tai/mcp-inventory-sync/internal/grid"
	"github.com/a3tai/mcp-inventory-sync/internal/textnorm"
)

// recipient is the receiving officer named in the attendee table
type recipient struct {
	id    string
	name  string
	grade string
}

var recipientChain = []strategy[recipient]{
	{name: "header_table", run: headerTableRecipient},
	{name: "proximity_window", run: proximityRecipient},
}

var (
	recipientRole = regexp.MustCompile(`\bFUNCIONARIO\s+QUE\s+RECIBE\b`)

	gradeHeader    = regexp.MustCompile(`\bGRADO\b`)
	identityHeader = regexp.MustCompile(`\bCEDULA\b`)
	nameHeader     = regexp.MustCompile(`\bNOMBRES(\s+Y\s+APELLIDOS)?\b`)
	roleHeader     = regexp.MustCompile(`\bCARGO\b`)

	nameNoise   = regexp.MustCompile(`^(?:C\.?C|C[ÉE]DULA|DOCUMENTO|DOC|IDENTIDAD|NO|N[°º]|NOMBRES|APELLIDOS|CARGO|GRADO|FIRMA)\.?[:\-]?$`)
	longDigits  = regexp.MustCompile(`\d{6,}`)
	nonNameChar = regexp.MustCompile(`[^\p{L}\s.\-]`)
)

type attendeeColumns struct {
	grade, identity, name, role int
}

// headerTableRecipient finds the attendee table header and reads the row
// whose role cell names the receiving officer.
func headerTableRecipient(s *scan) (recipient, bool) {
	headerRow, cols, ok := findAttendeeHeader(s.doc)
	if !ok {
		return recipient{}, false
	}

	last := min(headerRow+recipientRowWindow, s.doc.MaxRow())
	for r := headerRow + 1; r <= last; r++ {
		role := textnorm.Header(s.doc.Cell(r, cols.role).String())
		if !recipientRole.MatchString(role) {
			continue
		}
		var rcp recipient
		if id, ok := textnorm.IdentityNumber(s.doc.Cell(r, cols.identity).String()); ok {
			rcp.id = id
		}
		rcp.name = textnorm.Collapse(s.doc.Cell(r, cols.name).String())
		if cols.grade > 0 {
			rcp.grade = strings.ToUpper(textnorm.Collapse(s.doc.Cell(r, cols.grade).String()))
		}
		return rcp, rcp.id != "" || rcp.name != ""
	}
	return recipient{}, false
}

func findAttendeeHeader(doc grid.Document) (int, attendeeColumns, bool) {
	lastRow := min(recipientHeaderLastRow, doc.MaxRow())
	lastCol := min(recipientHeaderLastCol, doc.MaxColumn())

	for r := 1; r <= lastRow; r++ {
		var cols attendeeColumns
		for c := 1; c <= lastCol; c++ {
			label := textnorm.Header(doc.Cell(r, c).String())
			if label == "" {
				continue
			}
			if cols.grade == 0 && gradeHeader.MatchString(label) {
				cols.grade = c
			}
			if cols.identity == 0 && identityHeader.MatchString(label) {
				cols.identity = c
			}
			if cols.name == 0 && nameHeader.MatchString(label) {
				cols.name = c
			}
			if cols.role == 0 && roleHeader.MatchString(label) {
				cols.role = c
			}
		}
		if cols.identity > 0 && cols.name > 0 && cols.role > 0 {
			return r, cols, true
		}
	}
	return 0, attendeeColumns{}, false
}

// proximityRecipient harvests the cells around the first role marker. Grade
// is never taken from this path.
func proximityRecipient(s *scan) (recipient, bool) {
	row, col, ok := findRoleMarker(s.doc)
	if !ok {
		return recipient{}, false
	}

	left, right := harvest(s.doc, row, col)

	var rcp recipient
	switch {
	case len(left.digits) > 0:
		rcp.id = left.digits[0]
	case len(right.digits) > 0:
		rcp.id = right.digits[0]
	}
	if rcp.name = cleanName(right.texts); rcp.name == "" {
		rcp.name = cleanName(left.texts)
	}
	return rcp, rcp.id != "" || rcp.name != ""
}

func findRoleMarker(doc grid.Document) (int, int, bool) {
	lastRow := min(recipientLabelLastRow, doc.MaxRow())
	lastCol := min(recipientLabelLastCol, doc.MaxColumn())
	for r := 1; r <= lastRow; r++ {
		for c := 1; c <= lastCol; c++ {
			v := doc.Cell(r, c)
			if v.Kind != grid.KindText {
				continue
			}
			if recipientRole.MatchString(textnorm.Header(v.Text)) {
				return r, c, true
			}
		}
	}
	return 0, 0, false
}

type harvested struct {
	texts  []string
	digits []string
}

func harvest(doc grid.Document, row, col int) (left, right harvested) {
	r0 := max(1, row-harvestRowsUp)
	r1 := min(doc.MaxRow(), row+harvestRowsDown)
	c0 := max(1, col-harvestCols)
	c1 := min(doc.MaxColumn(), col+harvestCols)

	// Harvested text keeps its accents; names are written back verbatim.
	collect := func(h *harvested, r, c int) {
		text := strings.ToUpper(textnorm.Collapse(doc.Cell(r, c).String()))
		if text == "" {
			return
		}
		h.texts = append(h.texts, text)
		if id, ok := textnorm.IdentityNumber(text); ok {
			h.digits = append(h.digits, id)
		}
	}

	for r := r0; r <= r1; r++ {
		for c := c0; c < col; c++ {
			collect(&left, r, c)
		}
		for c := col + 1; c <= c1; c++ {
			collect(&right, r, c)
		}
	}
	return left, right
}

// cleanName joins harvested cells and removes identity vocabulary, long
// digit runs and anything that cannot be part of a person's name. Noise
// words are matched as whole tokens.
func cleanName(texts []string) string {
	joined := strings.Join(texts, " ")
	joined = recipientRole.ReplaceAllString(joined, " ")
	joined = longDigits.ReplaceAllString(joined, " ")

	var kept []string
	for _, tok := range strings.Fields(joined) {
		if !nameNoise.MatchString(tok) {
			kept = append(kept, tok)
		}
	}

	joined = nonNameChar.ReplaceAllString(strings.Join(kept, " "), " ")
	return strings.Trim(textnorm.Collapse(joined), " .-")
}
