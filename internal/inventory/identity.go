package inventory

import (
	"regexp"
	"strings"

	"github.com/a3tai/mcp-inventory-sync/internal/textnorm"
)

var (
	identitySheetAliases = []string{"HOJA CC", "CC"}
	identitySheetWord    = regexp.MustCompile(`\bCC\b`)

	identityGradeHeader  = regexp.MustCompile(`GRADO`)
	identityNameHeader   = regexp.MustCompile(`NOMBRES|NOMBRE.*APELL`)
	identityNumberHeader = regexp.MustCompile(`\bCC\b|CEDULA`)
)

// IdentityMap resolves an identity number to its "GRADE. NAME" display label
type IdentityMap map[string]string

// Resolve looks up id after stripping everything but digits
func (m IdentityMap) Resolve(id string) (string, bool) {
	d := textnorm.Digits(id)
	if d == "" {
		return "", false
	}
	label, ok := m[d]
	return label, ok
}

// FindIdentityCollection selects the reference sheet: an exact alias or a
// name holding the word CC first, then any name containing "cc".
func FindIdentityCollection(cols []*Collection) *Collection {
	for _, c := range cols {
		n := textnorm.Header(c.Name)
		for _, alias := range identitySheetAliases {
			if n == alias {
				return c
			}
		}
		if identitySheetWord.MatchString(n) {
			return c
		}
	}
	for _, c := range cols {
		if strings.Contains(textnorm.Header(c.Name), "CC") {
			return c
		}
	}
	return nil
}

// BuildIdentityMap reads the reference sheet. The map is empty when there is
// no such sheet or it has no identity column; on duplicate numbers the last
// row wins.
func BuildIdentityMap(cols []*Collection) IdentityMap {
	m := make(IdentityMap)
	c := FindIdentityCollection(cols)
	if c == nil {
		return m
	}

	labels := make([]string, len(c.Header))
	for i, h := range c.Header {
		labels[i] = textnorm.Header(h)
	}
	idCol := matchHeader(labels, []*regexp.Regexp{identityNumberHeader})
	if idCol < 0 {
		return m
	}
	gradeCol := matchHeader(labels, []*regexp.Regexp{identityGradeHeader})
	nameCol := matchHeader(labels, []*regexp.Regexp{identityNameHeader})

	for i := range c.Len() {
		id := RowID(i)
		number := textnorm.Digits(c.Cell(id, idCol).String())
		if number == "" {
			continue
		}
		grade := textnorm.Collapse(c.Cell(id, gradeCol).String())
		name := textnorm.Collapse(c.Cell(id, nameCol).String())
		m[number] = DisplayLabel(grade, name, number)
	}
	return m
}

// DisplayLabel joins grade and name as "GRADE. NAME", dropping whichever is
// empty, and falls back to the identity number.
func DisplayLabel(grade, name, number string) string {
	label := strings.Trim(grade+". "+name, ". ")
	if label != "" {
		return label
	}
	if name != "" {
		return name
	}
	return number
}
