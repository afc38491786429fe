package workbook

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/a3tai/mcp-inventory-sync/internal/extraction"
)

const testStartRow = 10

type testSheet struct {
	name string
	rows [][]any
}

// writeWorkbook creates an .xlsx file; nil cells are left blank
func writeWorkbook(t *testing.T, path string, sheets ...testSheet) string {
	t.Helper()

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	for i, sh := range sheets {
		if i == 0 {
			require.NoError(t, f.SetSheetName(f.GetSheetName(0), sh.name))
		} else {
			_, err := f.NewSheet(sh.name)
			require.NoError(t, err)
		}
		for r, row := range sh.rows {
			for c, v := range row {
				if v == nil {
					continue
				}
				cell, err := excelize.CoordinatesToCellName(c+1, r+1)
				require.NoError(t, err)
				require.NoError(t, f.SetCellValue(sh.name, cell, v))
			}
		}
	}
	require.NoError(t, f.SaveAs(path))
	return path
}

func actaRows() [][]any {
	g := make([][]any, 18)
	for i := range g {
		g[i] = make([]any, 6)
	}
	set := func(r, c int, v any) { g[r-1][c-1] = v }

	set(2, 1, "ACTA No. 243")
	set(4, 1, "DIPOL - GRISE - AMAZONAS OBJETIVO")
	set(8, 1, "DD:14")
	set(8, 2, "MM:11")
	set(8, 3, "AA:25")

	copy(g[testStartRow-1], []any{"No", "DESCRIPCIÓN DEL ACTIVO Ó BIEN", "NÚMERO DE SERIE DEL BIEN", "VALOR DE ADQUISICIÓN", "CANTIDAD", "OBSERVACIONES"})
	copy(g[10], []any{1, "PORTATIL", "AB12", "1.000.000", 1, "BUEN ESTADO"})
	copy(g[11], []any{2, "Radio", nil, "200000", 1, nil})
	copy(g[12], []any{3, "MONITOR", "ZZ-404", nil, 1, nil})
	set(15, 1, "OBSERVACIONES Y RECOMENDACIONES")
	set(17, 1, "GRADO")
	set(17, 2, "CÉDULA")
	set(17, 3, "NOMBRES")
	set(17, 4, "CARGO")
	set(18, 1, "PT")
	set(18, 2, "123456789")
	set(18, 3, "JUAN PEREZ")
	set(18, 4, "FUNCIONARIO QUE RECIBE")
	return g
}

func inventorySheets() []testSheet {
	return []testSheet{
		{name: "TECNOLOGIA", rows: [][]any{
			{"ITEM", "NUMERO DE SERIE", "RESPONSABLE", "UBICACIÓN", "No. ACTA", "FECHA ULTIMA ASIGNACION", "OBSERVACIONES UNIDAD"},
			{1, "ab-12", "OLD", "OLD", "OLD", "OLD"},
			{2, "X1", "KEEP"},
		}},
		{name: "Hoja CC", rows: [][]any{
			{"GRADO", "NOMBRES", "CC"},
			{"SV", "JUAN PEREZ GOMEZ", "123456789"},
		}},
		{name: "SIN SERIAL", rows: [][]any{
			{"No", "DESCRIPCIÓN DEL ACTIVO Ó BIEN"},
			{5, "VIEJO"},
		}},
	}
}

// newTestService creates a service rooted at a temp dir holding an acta and
// an inventory workbook.
func newTestService(t *testing.T) (*Service, string) {
	t.Helper()

	dir := t.TempDir()
	writeWorkbook(t, filepath.Join(dir, "acta 243.xlsx"), testSheet{name: "ACTA", rows: actaRows()})
	writeWorkbook(t, filepath.Join(dir, "INVENTARIO.xlsx"), inventorySheets()...)

	svc, err := NewService(Settings{
		WorkDirectory: dir,
		MaxFileSize:   10 * 1024 * 1024,
		Extraction:    extraction.Options{StartRow: testStartRow, LocationMode: extraction.LocationFull, LabelMode: extraction.LabelWithPrefix},
	}, nil)
	require.NoError(t, err)
	svc.now = func() time.Time { return time.Date(2025, time.November, 14, 10, 35, 0, 0, time.UTC) }
	return svc, dir
}
