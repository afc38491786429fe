package workbook

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a3tai/mcp-inventory-sync/internal/inventory"
)

func TestValidateFile(t *testing.T) {
	dir := t.TempDir()
	inv := writeWorkbook(t, filepath.Join(dir, "inv.xlsx"), inventorySheets()...)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "empty.xlsx"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.xlsx"), []byte("garbage"), 0o644))

	v := NewValidator(10 * 1024 * 1024)

	tests := []struct {
		name    string
		path    string
		valid   bool
		message string
	}{
		{"workbook", inv, true, ""},
		{"empty path", "", false, "path cannot be empty"},
		{"missing", filepath.Join(dir, "missing.xlsx"), false, "does not exist"},
		{"directory", dir, false, "is a directory"},
		{"wrong extension", filepath.Join(dir, "notes.txt"), false, "not a spreadsheet"},
		{"empty file", filepath.Join(dir, "empty.xlsx"), false, "file is empty"},
		{"corrupt", filepath.Join(dir, "broken.xlsx"), false, "invalid workbook"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := v.ValidateFile(ValidateFileRequest{Path: tt.path})
			require.NoError(t, err)
			assert.Equal(t, tt.valid, res.Valid)
			assert.Equal(t, tt.path, res.Path)
			if tt.message != "" {
				assert.Contains(t, res.Message, tt.message)
			}
		})
	}
}

func TestValidateFile_TooLarge(t *testing.T) {
	path := writeWorkbook(t, filepath.Join(t.TempDir(), "inv.xlsx"), inventorySheets()...)

	res, err := NewValidator(10).ValidateFile(ValidateFileRequest{Path: path})
	require.NoError(t, err)
	assert.False(t, res.Valid)
	assert.Contains(t, res.Message, "file too large")
}

func TestValidateFile_Sheets(t *testing.T) {
	path := writeWorkbook(t, filepath.Join(t.TempDir(), "inv.xlsx"), inventorySheets()...)

	res, err := NewValidator(10 * 1024 * 1024).ValidateFile(ValidateFileRequest{Path: path})
	require.NoError(t, err)
	require.True(t, res.Valid)

	assert.Equal(t, []SheetInfo{
		{Name: "TECNOLOGIA", Category: inventory.CategoryTechnology, Rows: 2, Indexable: true},
		{Name: "Hoja CC", Category: inventory.CategoryGeneral, Rows: 1, Identity: true},
		{Name: "SIN SERIAL", Category: inventory.CategoryGeneral, Rows: 1, Overflow: true},
	}, res.Sheets)
}
