package workbook

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/a3tai/mcp-inventory-sync/internal/grid"
	"github.com/a3tai/mcp-inventory-sync/internal/inventory"
)

func TestLoadInventory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inv.xlsx")
	writeWorkbook(t, path, inventorySheets()...)

	cols, err := LoadInventory(path)
	require.NoError(t, err)
	require.Len(t, cols, 3)

	tech := cols[0]
	assert.Equal(t, "TECNOLOGIA", tech.Name)
	assert.Equal(t, "UBICACIÓN", tech.Header[3])
	assert.Equal(t, 2, tech.Len())
	assert.Equal(t, grid.KindNumber, tech.Cell(0, 0).Kind)
	assert.Equal(t, "ab-12", tech.Text(0, 1))
	assert.Equal(t, "123456789", cols[1].Text(0, 2))
	assert.Equal(t, "SIN SERIAL", cols[2].Name)
}

func TestLoadInventory_Dates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dates.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetCellValue(sheet, "A1", "FECHA"))
	require.NoError(t, f.SetCellValue(sheet, "B1", "VALOR"))
	require.NoError(t, f.SetCellValue(sheet, "A2", time.Date(2025, time.March, 7, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, f.SetCellValue(sheet, "B2", 45723))
	style, err := f.NewStyle(&excelize.Style{NumFmt: 14})
	require.NoError(t, err)
	require.NoError(t, f.SetCellStyle(sheet, "A2", "A2", style))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	cols, err := LoadInventory(path)
	require.NoError(t, err)
	require.Len(t, cols, 1)

	date := cols[0].Cell(0, 0)
	assert.Equal(t, grid.KindDate, date.Kind)
	assert.Equal(t, "2025-03-07", date.String())
	assert.Equal(t, grid.KindNumber, cols[0].Cell(0, 1).Kind)
}

func TestSaveInventory(t *testing.T) {
	dir := t.TempDir()
	cols := []*inventory.Collection{
		inventory.NewCollection("TECNOLOGIA", []string{"ITEM", "NUMERO DE SERIE"}, [][]grid.Value{
			grid.Values(1, "AB12"),
			grid.Values(2, nil),
		}),
		inventory.NewCollection("SIN SERIAL", []string{"No", "FECHA"}, [][]grid.Value{
			grid.Values(6, "2025-11-14"),
		}),
	}

	path := filepath.Join(dir, "out.xlsx")
	require.NoError(t, SaveInventory(path, cols))

	loaded, err := LoadInventory(path)
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, "TECNOLOGIA", loaded[0].Name)
	assert.Equal(t, []string{"ITEM", "NUMERO DE SERIE"}, loaded[0].Header)
	assert.Equal(t, 2, loaded[0].Len())
	assert.Equal(t, grid.KindNumber, loaded[0].Cell(1, 0).Kind)
	assert.Equal(t, "AB12", loaded[0].Text(0, 1))
	assert.True(t, loaded[0].Cell(1, 1).IsEmpty())
	assert.Equal(t, "6", loaded[1].Text(0, 0))
	assert.Equal(t, "2025-11-14", loaded[1].Text(0, 1))

	assert.Error(t, SaveInventory(filepath.Join(dir, "none.xlsx"), nil))
}

func TestOpenDocument(t *testing.T) {
	dir := t.TempDir()
	path := writeWorkbook(t, filepath.Join(dir, "acta.xlsx"),
		testSheet{name: "ACTA", rows: actaRows()},
		testSheet{name: "OTRA", rows: [][]any{{"ignored"}}},
	)

	doc, err := OpenDocument(path)
	require.NoError(t, err)
	assert.Equal(t, "ACTA", doc.Name())
	assert.Equal(t, "ACTA No. 243", doc.Cell(2, 1).String())
	assert.Equal(t, "PORTATIL", doc.Cell(11, 2).String())
	assert.Equal(t, 18, doc.MaxRow())

	t.Run("unsupported extension", func(t *testing.T) {
		txt := filepath.Join(dir, "acta.txt")
		require.NoError(t, os.WriteFile(txt, []byte("x"), 0o644))
		_, err := OpenDocument(txt)
		assert.ErrorContains(t, err, "unsupported file type")
	})

	t.Run("corrupt workbook", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.xlsx")
		require.NoError(t, os.WriteFile(bad, []byte("not a zip"), 0o644))
		_, err := OpenDocument(bad)
		assert.Error(t, err)
	})

	t.Run("corrupt legacy workbook", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.xls")
		require.NoError(t, os.WriteFile(bad, []byte("not a compound file"), 0o644))
		_, err := OpenDocument(bad)
		assert.Error(t, err)
	})
}

func TestIsDateFormat(t *testing.T) {
	custom := func(s string) *string { return &s }

	tests := []struct {
		name   string
		numFmt int
		custom *string
		want   bool
	}{
		{"general", 0, nil, false},
		{"builtin short date", 14, nil, true},
		{"builtin date time", 22, nil, true},
		{"builtin number", 3, nil, false},
		{"custom date", 0, custom("dd/mm/yyyy"), true},
		{"custom quoted text", 0, custom(`"day" 0`), false},
		{"custom currency", 0, custom(`[$$-409]#,##0.00`), false},
		{"custom month only", 0, custom("mmm"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isDateFormat(tt.numFmt, tt.custom))
		})
	}
}

func TestIsSpreadsheet(t *testing.T) {
	assert.True(t, IsSpreadsheet("a.XLSX"))
	assert.True(t, IsSpreadsheet("a.xlsm"))
	assert.True(t, IsSpreadsheet("a.xls"))
	assert.False(t, IsSpreadsheet("a.csv"))
	assert.False(t, IsSpreadsheet("xlsx"))
}
