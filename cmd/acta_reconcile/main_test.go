package main

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"
)

func writeRows(t *testing.T, path, sheet string, rows [][]any) {
	t.Helper()

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	require.NoError(t, f.SetSheetName(f.GetSheetName(0), sheet))
	for r, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, r+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	require.NoError(t, f.SaveAs(path))
}

func fixtures(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	writeRows(t, filepath.Join(dir, "acta.xlsx"), "ACTA", [][]any{
		{"ACTA No. 12"},
		{"DIPOL - GRISE - CESAR OBJETIVO"},
		{"DD:01", "MM:10", "AA:25"},
		{"No", "DESCRIPCIÓN DEL ACTIVO Ó BIEN", "NÚMERO DE SERIE DEL BIEN", "VALOR DE ADQUISICIÓN"},
		{1, "IMPRESORA", "P-9", "300000"},
		{"OBSERVACIONES Y RECOMENDACIONES"},
	})
	writeRows(t, filepath.Join(dir, "inv.xlsx"), "TECNOLOGIA", [][]any{
		{"ITEM", "NUMERO DE SERIE", "RESPONSABLE", "UBICACIÓN", "No. ACTA", "FECHA ULTIMA ASIGNACION"},
		{1, "P9", "", "", "", ""},
	})
	return dir
}

func TestRun_ExtractOnly(t *testing.T) {
	dir := fixtures(t)

	var out bytes.Buffer
	err := run([]string{"--dir", dir, "--start-row", "4", "--extract-only", "--format", "json", "acta.xlsx"}, &out, io.Discard)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	md := decoded["metadata"].(map[string]any)
	assert.Equal(t, "ACTA No. 12", md["document_label"])
	assert.Equal(t, "CESAR", md["location_code"])
}

func TestRun_Items(t *testing.T) {
	dir := fixtures(t)

	var out bytes.Buffer
	err := run([]string{"--dir", dir, "--start-row", "4", "--items", "acta.xlsx"}, &out, io.Discard)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "1 items, total 300000.00 (header row 4)")
	assert.Contains(t, out.String(), "IMPRESORA")
}

func TestRun_PreviewYAML(t *testing.T) {
	dir := fixtures(t)

	var out bytes.Buffer
	err := run([]string{"--dir", dir, "--start-row", "4", "--preview", "--format", "yaml", "acta.xlsx", "inv.xlsx"}, &out, io.Discard)
	require.NoError(t, err)

	var decoded struct {
		OutputPath string `yaml:"output_path"`
		Summary    struct {
			Matched  int `yaml:"matched"`
			Overflow int `yaml:"overflow"`
		} `yaml:"summary"`
	}
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &decoded))
	assert.Empty(t, decoded.OutputPath)
	assert.Equal(t, 1, decoded.Summary.Matched)
	assert.Equal(t, 0, decoded.Summary.Overflow)
}

func TestRun_Reconcile(t *testing.T) {
	dir := fixtures(t)
	outDir := filepath.Join(dir, "out")

	var out bytes.Buffer
	err := run([]string{"--dir", dir, "--output-dir", outDir, "--start-row", "4", "acta.xlsx", "inv.xlsx"}, &out, io.Discard)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Written:")
	assert.Contains(t, out.String(), "Matched:     1 of 1 items, 1 rows updated")

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestRun_Errors(t *testing.T) {
	dir := fixtures(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no arguments", []string{"--dir", dir}, "acta path and inventory path required"},
		{"missing inventory", []string{"--dir", dir, "acta.xlsx"}, "acta path and inventory path required"},
		{"bad format", []string{"--dir", dir, "--format", "xml", "acta.xlsx", "inv.xlsx"}, "unsupported output format"},
		{"bad location mode", []string{"--dir", dir, "--location-mode", "nope", "acta.xlsx", "inv.xlsx"}, "location mode"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := run(tt.args, io.Discard, io.Discard)
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestRun_Version(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run([]string{"--version"}, &out, io.Discard))
	assert.Equal(t, "acta_reconcile dev\n", out.String())
}
