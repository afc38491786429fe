package inventory

import (
	"regexp"
	"strings"

	"github.com/a3tai/mcp-inventory-sync/internal/textnorm"
)

// Category classifies a collection by its sheet name
type Category string

const (
	CategoryTechnology Category = "TECNOLOGIA"
	CategoryFurniture  Category = "INMOBILIARIO"
	CategoryOffSite    Category = "FUERA"
	CategoryGeneral    Category = "GENERAL"
)

// Role is a field the reconciliation reads or writes
type Role string

const (
	RoleSerial          Role = "serial"
	RoleResponsible     Role = "responsible"
	RoleLocation        Role = "location"
	RoleDocumentLabel   Role = "document_label"
	RoleDate            Role = "date"
	RoleUnitObservation Role = "unit_observation"
)

// Roles lists every target role in resolution order
var Roles = []Role{
	RoleSerial, RoleResponsible, RoleLocation, RoleDocumentLabel, RoleDate, RoleUnitObservation,
}

type rolePatterns map[Role][]*regexp.Regexp

// Header patterns run against textnorm.Header output
var commonPatterns = rolePatterns{
	RoleSerial:          {regexp.MustCompile(`NUMERO DE SERIE`)},
	RoleResponsible:     {regexp.MustCompile(`\bRESPONSABLE\b`)},
	RoleLocation:        {regexp.MustCompile(`UBICACION`)},
	RoleDocumentLabel:   {regexp.MustCompile(`\bNO\.?\s*(DE\s+)?ACTA\b`), regexp.MustCompile(`NUMERO DE ACTA`)},
	RoleDate:            {regexp.MustCompile(`FECHA (DE )?ULTIMA ASIGNACION`)},
	RoleUnitObservation: {regexp.MustCompile(`OBSERVACION(ES)? UNIDAD`)},
}

// off-site sheets name the serial after the element it belongs to
var categoryPatterns = map[Category]rolePatterns{
	CategoryOffSite: {
		RoleSerial: {
			regexp.MustCompile(`NUMERO DE SERIE ELEMENTO`),
			regexp.MustCompile(`NUMERO DE SERIE`),
			regexp.MustCompile(`^SERIAL( ELEMENTO)?$`),
		},
	},
}

// Schema is the role-to-column mapping of one collection
type Schema struct {
	Category Category     `json:"category"`
	Columns  map[Role]int `json:"columns"`
}

// Column returns the 0-based column of a role
func (s Schema) Column(role Role) (int, bool) {
	c, ok := s.Columns[role]
	return c, ok
}

// Indexable reports whether the collection exposes a serial column
func (s Schema) Indexable() bool {
	_, ok := s.Columns[RoleSerial]
	return ok
}

// CategoryOf classifies a sheet name
func CategoryOf(name string) Category {
	n := textnorm.Header(name)
	switch {
	case strings.Contains(n, "FUERA"):
		return CategoryOffSite
	case strings.Contains(n, "TECNOL"):
		return CategoryTechnology
	case strings.Contains(n, "INMOB"):
		return CategoryFurniture
	default:
		return CategoryGeneral
	}
}

// DetectSchema resolves every role of the collection's category against its
// header. A role whose patterns match no column is absent from the schema.
func DetectSchema(c *Collection) Schema {
	s := Schema{
		Category: CategoryOf(c.Name),
		Columns:  make(map[Role]int),
	}

	labels := make([]string, len(c.Header))
	for i, h := range c.Header {
		labels[i] = textnorm.Header(h)
	}

	overrides := categoryPatterns[s.Category]
	for _, role := range Roles {
		patterns := commonPatterns[role]
		if p, ok := overrides[role]; ok {
			patterns = p
		}
		if col := matchHeader(labels, patterns); col >= 0 {
			s.Columns[role] = col
		}
	}
	return s
}

// matchHeader tries the patterns in priority order and returns the first
// column matching the earliest pattern that matches anything.
func matchHeader(labels []string, patterns []*regexp.Regexp) int {
	for _, p := range patterns {
		for i, l := range labels {
			if l != "" && p.MatchString(l) {
				return i
			}
		}
	}
	return -1
}
