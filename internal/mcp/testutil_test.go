package mcp

import (
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/a3tai/mcp-inventory-sync/internal/config"
	"github.com/a3tai/mcp-inventory-sync/internal/workbook"
)

const testStartRow = 6

func writeSheets(t *testing.T, path string, sheets map[string][][]any, order ...string) {
	t.Helper()

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	for i, name := range order {
		if i == 0 {
			require.NoError(t, f.SetSheetName(f.GetSheetName(0), name))
		} else {
			_, err := f.NewSheet(name)
			require.NoError(t, err)
		}
		for r, row := range sheets[name] {
			for c, v := range row {
				if v == nil {
					continue
				}
				cell, err := excelize.CoordinatesToCellName(c+1, r+1)
				require.NoError(t, err)
				require.NoError(t, f.SetCellValue(name, cell, v))
			}
		}
	}
	require.NoError(t, f.SaveAs(path))
}

// writeFixtures puts an acta and an inventory workbook in dir
func writeFixtures(t *testing.T, dir string) {
	t.Helper()

	writeSheets(t, filepath.Join(dir, "acta 77.xlsx"), map[string][][]any{
		"ACTA": {
			{"ACTA No. 77"},
			{"DIPOL - GRISE - META OBJETIVO"},
			{"DD:03", "MM:02", "AA:25"},
			{},
			{},
			{"No", "DESCRIPCIÓN DEL ACTIVO Ó BIEN", "NÚMERO DE SERIE DEL BIEN", "VALOR DE ADQUISICIÓN"},
			{1, "PORTATIL", "SN-1", "500000"},
			{2, "SILLA", nil, "100000"},
			{},
			{"OBSERVACIONES Y RECOMENDACIONES"},
		},
	}, "ACTA")

	writeSheets(t, filepath.Join(dir, "INVENTARIO.xlsx"), map[string][][]any{
		"TECNOLOGIA": {
			{"ITEM", "NUMERO DE SERIE", "RESPONSABLE", "UBICACIÓN", "No. ACTA", "FECHA ULTIMA ASIGNACION"},
			{1, "sn1", "OLD", "OLD", "OLD", "OLD"},
		},
		"SIN SERIAL": {
			{"No", "DESCRIPCIÓN DEL ACTIVO Ó BIEN"},
		},
	}, "TECNOLOGIA", "SIN SERIAL")
}

func newTestConfig(dir string) *config.Config {
	return &config.Config{
		Mode:          config.ModeStdio,
		Host:          "127.0.0.1",
		Port:          0,
		WorkDirectory: dir,
		MaxFileSize:   10 * 1024 * 1024,
		StartRow:      testStartRow,
		LocationMode:  "full",
		ActaMode:      "prefix",
		ServerName:    "test-server",
		Version:       "1.0.0",
		LogLevel:      "info",
	}
}

func newTestServer(t *testing.T, cfg *config.Config) *Server {
	t.Helper()

	opts, err := cfg.ExtractionOptions()
	require.NoError(t, err)
	svc, err := workbook.NewService(workbook.Settings{
		WorkDirectory:   cfg.WorkDirectory,
		OutputDirectory: cfg.OutputDirectory,
		MaxFileSize:     cfg.MaxFileSize,
		Extraction:      opts,
	}, nil)
	require.NoError(t, err)

	s, err := NewServer(cfg, svc, nil)
	require.NoError(t, err)
	return s
}

func toolRequest(args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{Arguments: args},
	}
}

func extractTextFromResult(result *mcp.CallToolResult) string {
	if result == nil || len(result.Content) == 0 {
		return ""
	}
	if text, ok := result.Content[0].(mcp.TextContent); ok {
		return text.Text
	}
	return ""
}
