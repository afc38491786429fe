package inventory

import (
	"regexp"

	"github.com/a3tai/mcp-inventory-sync/internal/grid"
	"github.com/a3tai/mcp-inventory-sync/internal/textnorm"
)

// Overflow sheet columns, added in this order when missing
const (
	ColSequence        = "No"
	ColDescription     = "DESCRIPCIÓN DEL ACTIVO Ó BIEN"
	ColDescription2    = "DESCRIPCIÓN ADICIONAL - ACCESORIOS"
	ColSerial          = "NÚMERO DE SERIE DEL BIEN / O LOTE PARA EL CASO DE MUNICIÓN"
	ColInventoryCode   = "NÚMERO INVENTARIO (CÓDIGO SAP/R6 SILOG)"
	ColValue           = "VALOR DE ADQUISICIÓN"
	ColQuantity        = "CANTIDAD"
	ColUnitObservation = "OBSERVACIONES UNIDAD"
	ColInternalNote    = "OBSERVACION INTERNA"
	ColDocumentLabel   = "No ACTA"
	ColDate            = "FECHA"
	ColResponsible     = "RESPONSABLE"
)

// OverflowColumns is the required header of the overflow sheet
var OverflowColumns = []string{
	ColSequence, ColDescription, ColDescription2, ColSerial, ColInventoryCode, ColValue,
	ColQuantity, ColUnitObservation, ColInternalNote, ColDocumentLabel, ColDate, ColResponsible,
}

var overflowName = regexp.MustCompile(`SIN\s*SERIAL`)

// IsOverflowName reports whether a sheet name designates the overflow sheet
func IsOverflowName(name string) bool {
	return overflowName.MatchString(textnorm.Header(name))
}

// FindOverflow returns the first collection named like the overflow sheet
func FindOverflow(cols []*Collection) *Collection {
	for _, c := range cols {
		if IsOverflowName(c.Name) {
			return c
		}
	}
	return nil
}

// OverflowRow is one item appended to the overflow sheet. Item fields are
// copied verbatim.
type OverflowRow struct {
	Description     string
	Description2    string
	Serial          string
	InventoryCode   string
	Value           string
	Quantity        string
	UnitObservation string
	InternalNote    string
	DocumentLabel   string
	Date            string
	Responsible     string
}

// NextSequence returns one past the largest numeric sequence number, or 1
// when there is none. Non-numeric values are ignored.
func (c *Collection) NextSequence() int {
	col := c.ColumnIndex(ColSequence)
	if col < 0 {
		return 1
	}
	next := 1
	for i := range c.Len() {
		if n, ok := c.Cell(RowID(i), col).Int(); ok && n+1 > next {
			next = n + 1
		}
	}
	return next
}

// AppendOverflow adds the required columns when missing and appends rows
// numbered from NextSequence. It returns the sequence numbers assigned.
func (c *Collection) AppendOverflow(rows []OverflowRow) []int {
	if len(rows) == 0 {
		return nil
	}

	cols := make(map[string]int, len(OverflowColumns))
	for _, name := range OverflowColumns {
		cols[name] = c.EnsureColumn(name)
	}

	seq := c.NextSequence()
	assigned := make([]int, 0, len(rows))
	for _, r := range rows {
		values := make([]grid.Value, len(c.Header))
		put := func(name, v string) {
			if v != "" {
				values[cols[name]] = grid.Text(v)
			}
		}

		values[cols[ColSequence]] = grid.Number(float64(seq))
		put(ColDescription, r.Description)
		put(ColDescription2, r.Description2)
		put(ColSerial, r.Serial)
		put(ColInventoryCode, r.InventoryCode)
		put(ColValue, r.Value)
		put(ColQuantity, r.Quantity)
		put(ColUnitObservation, r.UnitObservation)
		put(ColInternalNote, r.InternalNote)
		put(ColDocumentLabel, r.DocumentLabel)
		put(ColDate, r.Date)
		put(ColResponsible, r.Responsible)

		c.Append(values)
		assigned = append(assigned, seq)
		seq++
	}
	return assigned
}
