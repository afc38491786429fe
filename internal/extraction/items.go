package extraction

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/a3tai/mcp-inventory-sync/internal/grid"
	"github.com/a3tai/mcp-inventory-sync/internal/textnorm"
)

// Role is the semantic meaning of an item table column
type Role string

const (
	RoleDescription  Role = "description"
	RoleDescription2 Role = "description2"
	RoleSerial       Role = "serial"
	RoleInventory    Role = "inventory_code"
	RoleValue        Role = "acquisition_value"
	RoleQuantity     Role = "quantity"
	RoleObservation  Role = "observation"
)

// ItemRoles lists the roles in the order columns are claimed
var ItemRoles = []Role{
	RoleDescription, RoleDescription2, RoleSerial, RoleInventory,
	RoleValue, RoleQuantity, RoleObservation,
}

// itemRolePatterns match header text after textnorm.Header, so accents are
// already folded.
var itemRolePatterns = map[Role][]*regexp.Regexp{
	RoleDescription: {
		regexp.MustCompile(`DESCRIPCION DEL ACTIVO`),
		regexp.MustCompile(`DESCRIPCION DEL BIEN`),
	},
	RoleDescription2: {
		regexp.MustCompile(`DESCRIPCION ADICIONAL`),
		regexp.MustCompile(`ACCESORIOS`),
	},
	RoleSerial: {
		regexp.MustCompile(`NUMERO DE SERIE`),
		regexp.MustCompile(`SERIE DEL BIEN`),
	},
	RoleInventory: {
		regexp.MustCompile(`NUMERO (DE )?INVENTARIO`),
		regexp.MustCompile(`CODIGO SAP`),
		regexp.MustCompile(`R6 SILOG`),
	},
	RoleValue: {
		regexp.MustCompile(`VALOR DE ADQUISICION`),
	},
	RoleQuantity: {
		regexp.MustCompile(`\bCANTIDAD\b`),
	},
	RoleObservation: {
		regexp.MustCompile(`\bOBSERVACION(ES)?\b`),
	},
}

var endMarker = regexp.MustCompile(`OBSERVACIONES\s+Y\s+RECOMENDACIONES`)

// ErrNoItemTable is returned when no column of the header row maps to an
// item role.
var ErrNoItemTable = errors.New("no item table header found")

// ItemRecord is one line of the item table. Text fields keep the cell
// content verbatim apart from surrounding whitespace, so placeholders such
// as "N/A" survive.
type ItemRecord struct {
	Row              int                 `json:"row" yaml:"row"`
	Description      string              `json:"description,omitempty" yaml:"description,omitempty"`
	Description2     string              `json:"description2,omitempty" yaml:"description2,omitempty"`
	SerialRaw        string              `json:"serial,omitempty" yaml:"serial,omitempty"`
	InventoryCode    string              `json:"inventory_code,omitempty" yaml:"inventory_code,omitempty"`
	AcquisitionValue string              `json:"acquisition_value,omitempty" yaml:"acquisition_value,omitempty"`
	Quantity         string              `json:"quantity,omitempty" yaml:"quantity,omitempty"`
	Observation      string              `json:"observation,omitempty" yaml:"observation,omitempty"`
	Amount           decimal.NullDecimal `json:"amount" yaml:"-"`
}

// SerialKey is the join key used against inventory serial columns
func (r ItemRecord) SerialKey() string {
	return textnorm.Serial(r.SerialRaw)
}

// ItemTable is the materialized item table of a document
type ItemTable struct {
	HeaderRow int             `json:"header_row" yaml:"header_row"`
	EndRow    int             `json:"end_row,omitempty" yaml:"end_row,omitempty"`
	Columns   map[Role]int    `json:"columns" yaml:"columns"`
	Headers   map[Role]string `json:"headers" yaml:"headers"`
	Items     []ItemRecord    `json:"items" yaml:"items"`
	Missing   []Role          `json:"missing_roles,omitempty" yaml:"missing_roles,omitempty"`
}

// TotalValue sums the parsable acquisition values
func (t *ItemTable) TotalValue() decimal.Decimal {
	total := decimal.Zero
	for _, it := range t.Items {
		if it.Amount.Valid {
			total = total.Add(it.Amount.Decimal)
		}
	}
	return total
}

// ItemTableReader reads the line-item table below a fixed header row
type ItemTableReader struct {
	opts Options
}

// NewItemTableReader creates a reader. Zero option fields take defaults.
func NewItemTableReader(opts Options) *ItemTableReader {
	return &ItemTableReader{opts: opts.withDefaults()}
}

// Read maps the header row to item roles and returns every non-empty row
// between the header and the closing marker, or the last used row when the
// marker is absent.
func (r *ItemTableReader) Read(doc grid.Document) (*ItemTable, error) {
	if doc == nil {
		return nil, errors.New("nil document")
	}
	header := r.opts.StartRow
	if header > doc.MaxRow() {
		return nil, fmt.Errorf("header row %d beyond last row %d: %w", header, doc.MaxRow(), ErrNoItemTable)
	}

	table := &ItemTable{
		HeaderRow: header,
		Columns:   make(map[Role]int),
		Headers:   make(map[Role]string),
	}
	mapColumns(doc, header, table)
	if len(table.Columns) == 0 {
		return nil, fmt.Errorf("row %d: %w", header, ErrNoItemTable)
	}

	last := doc.MaxRow()
	if end := findEndMarker(doc, header+1); end > 0 {
		table.EndRow = end
		last = end - 1
	}

	for row := header + 1; row <= last; row++ {
		rec, ok := readItem(doc, row, table.Columns)
		if ok {
			table.Items = append(table.Items, rec)
		}
	}
	return table, nil
}

func mapColumns(doc grid.Document, header int, table *ItemTable) {
	labels := make([]string, doc.MaxColumn()+1)
	for c := 1; c <= doc.MaxColumn(); c++ {
		labels[c] = textnorm.Header(doc.Cell(header, c).String())
	}

	claimed := make(map[int]bool)
	for _, role := range ItemRoles {
		col := matchColumn(labels, itemRolePatterns[role], claimed)
		if col == 0 {
			table.Missing = append(table.Missing, role)
			continue
		}
		claimed[col] = true
		table.Columns[role] = col
		table.Headers[role] = textnorm.Collapse(doc.Cell(header, col).String())
	}
}

// matchColumn returns the first unclaimed column whose label matches any
// pattern, 0 when none does.
func matchColumn(labels []string, patterns []*regexp.Regexp, claimed map[int]bool) int {
	for c := 1; c < len(labels); c++ {
		if labels[c] == "" || claimed[c] {
			continue
		}
		for _, p := range patterns {
			if p.MatchString(labels[c]) {
				return c
			}
		}
	}
	return 0
}

func findEndMarker(doc grid.Document, from int) int {
	for r := from; r <= doc.MaxRow(); r++ {
		for c := 1; c <= doc.MaxColumn(); c++ {
			v := doc.Cell(r, c)
			if v.Kind == grid.KindText && endMarker.MatchString(textnorm.Header(v.Text)) {
				return r
			}
		}
	}
	return 0
}

func readItem(doc grid.Document, row int, cols map[Role]int) (ItemRecord, bool) {
	rec := ItemRecord{Row: row}
	text := func(role Role) string {
		col, ok := cols[role]
		if !ok {
			return ""
		}
		return doc.Cell(row, col).Trimmed()
	}

	rec.Description = text(RoleDescription)
	rec.Description2 = text(RoleDescription2)
	rec.SerialRaw = text(RoleSerial)
	rec.InventoryCode = text(RoleInventory)
	rec.AcquisitionValue = text(RoleValue)
	rec.Quantity = text(RoleQuantity)
	rec.Observation = text(RoleObservation)

	if col, ok := cols[RoleValue]; ok {
		v := doc.Cell(row, col)
		if v.Kind == grid.KindNumber {
			rec.Amount = decimal.NewNullDecimal(decimal.NewFromFloat(v.Number))
		} else if d, ok := ParseAmount(rec.AcquisitionValue); ok {
			rec.Amount = decimal.NewNullDecimal(d)
		}
	}

	empty := rec.Description == "" && rec.Description2 == "" && rec.SerialRaw == "" &&
		rec.InventoryCode == "" && rec.AcquisitionValue == "" && rec.Quantity == "" &&
		rec.Observation == ""
	return rec, !empty
}

var amountNoise = regexp.MustCompile(`(?i)\$|COP|\s`)

// ParseAmount reads a currency amount written by hand. Both "1.500.000,50"
// and "1,500,000.50" are accepted; a lone separator followed by exactly three
// digits is a thousands separator.
func ParseAmount(s string) (decimal.Decimal, bool) {
	s = amountNoise.ReplaceAllString(s, "")
	if s == "" {
		return decimal.Zero, false
	}

	lastDot := strings.LastIndex(s, ".")
	lastComma := strings.LastIndex(s, ",")
	switch {
	case lastDot >= 0 && lastComma >= 0:
		if lastComma > lastDot {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case lastComma >= 0:
		s = normalizeSeparator(s, ",")
	case lastDot >= 0:
		s = normalizeSeparator(s, ".")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

func normalizeSeparator(s, sep string) string {
	if strings.Count(s, sep) > 1 || len(s)-strings.LastIndex(s, sep)-1 == 3 {
		return strings.ReplaceAll(s, sep, "")
	}
	return strings.Replace(s, sep, ".", 1)
}
