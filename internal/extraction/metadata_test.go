package extraction

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a3tai/mcp-inventory-sync/internal/grid"
)

// acta returns an empty rows x 12 grid ready to be filled with set
func acta(rows int) [][]any {
	g := make([][]any, rows)
	for i := range g {
		g[i] = make([]any, 12)
	}
	return g
}

func set(g [][]any, row, col int, v any) {
	g[row-1][col-1] = v
}

func scenarioActa() [][]any {
	g := acta(40)
	set(g, 2, 1, "ACTA No. 243")
	set(g, 4, 1, "DIPOL - GRISE - AMAZONAS OBJETIVO: ENTREGA DE ELEMENTOS")
	set(g, 8, 1, "DD:14")
	set(g, 8, 2, "MM:11")
	set(g, 8, 3, "AA:25")
	set(g, 20, 1, "GRADO")
	set(g, 20, 2, "CÉDULA")
	set(g, 20, 3, "NOMBRES Y APELLIDOS")
	set(g, 20, 4, "CARGO")
	set(g, 21, 1, "IT")
	set(g, 21, 2, "12.345.678")
	set(g, 21, 3, "CARLOS RUIZ")
	set(g, 21, 4, "FUNCIONARIO QUE ENTREGA")
	set(g, 22, 1, "pt ")
	set(g, 22, 2, 123456789)
	set(g, 22, 3, " JUAN   PEREZ ")
	set(g, 22, 4, "Funcionario que recibe")
	return g
}

func TestExtract_Scenario(t *testing.T) {
	doc := grid.NewSheet("acta", scenarioActa())

	meta := NewMetadataExtractor(DefaultOptions()).Extract(doc)

	assert.Equal(t, "2025-11-14", meta.DateString())
	assert.Equal(t, "ACTA No. 243", meta.DocumentLabel)
	assert.Equal(t, "243", meta.DocumentNumber)
	assert.Equal(t, "AMAZONAS", meta.LocationCode)
	assert.Equal(t, "123456789", meta.RecipientID)
	assert.Equal(t, "JUAN PEREZ", meta.RecipientName)
	assert.Equal(t, "PT", meta.RecipientGrade)
	assert.Empty(t, meta.Missing())
	assert.Equal(t, map[Field]string{
		FieldDate:          "labeled_row",
		FieldDocumentLabel: "blob_marker",
		FieldLocation:      "blob_marker",
		FieldRecipient:     "header_table",
	}, meta.Sources)
}

func TestExtract_Modes(t *testing.T) {
	g := scenarioActa()
	set(g, 4, 1, "DIPOL – GRISE – NORTE DE SANTANDER | FIRMA")
	doc := grid.NewSheet("acta", g)

	meta := NewMetadataExtractor(Options{
		LocationMode: LocationFirstToken,
		LabelMode:    LabelNumberOnly,
	}).Extract(doc)

	assert.Equal(t, "243", meta.DocumentLabel)
	assert.Equal(t, "NORTE", meta.LocationCode)
}

func TestExtract_EmptyDocument(t *testing.T) {
	meta := NewMetadataExtractor(DefaultOptions()).Extract(grid.NewSheet("acta", nil))

	assert.Equal(t, PlaceholderLabel, meta.DocumentLabel)
	assert.False(t, meta.HasDate())
	assert.Equal(t, "", meta.DateString())
	assert.Equal(t, AllFields, meta.Missing())

	meta = NewMetadataExtractor(DefaultOptions()).Extract(nil)
	assert.Equal(t, PlaceholderLabel, meta.DocumentLabel)
}

func TestExtract_Date(t *testing.T) {
	tests := []struct {
		name   string
		fill   func(g [][]any)
		want   string
		source string
	}{
		{
			name: "structured cell wins",
			fill: func(g [][]any) {
				set(g, 3, 5, time.Date(2024, 2, 29, 10, 30, 0, 0, time.UTC))
				set(g, 8, 1, "DD:14")
				set(g, 8, 2, "MM:11")
				set(g, 8, 3, "AA:25")
			},
			want:   "2024-02-29",
			source: "structured_cell",
		},
		{
			name: "label boxes",
			fill: func(g [][]any) {
				set(g, 8, 1, "DÍA")
				set(g, 8, 3, 14)
				set(g, 8, 4, "MES")
				set(g, 8, 5, "11")
				set(g, 8, 6, "AÑO")
				set(g, 8, 7, 2025)
			},
			want:   "2025-11-14",
			source: "labeled_row",
		},
		{
			name: "label boxes in any order",
			fill: func(g [][]any) {
				set(g, 8, 1, "AAAA")
				set(g, 8, 2, 2025)
				set(g, 8, 3, "MM")
				set(g, 8, 4, 11)
				set(g, 8, 5, "DD")
				set(g, 8, 6, 14)
			},
			want:   "2025-11-14",
			source: "labeled_row",
		},
		{
			name: "labels on another row",
			fill: func(g [][]any) {
				set(g, 10, 1, "DD/14")
				set(g, 10, 2, "MM/11")
				set(g, 10, 3, "AA/25")
			},
			want:   "2025-11-14",
			source: "labeled_row",
		},
		{
			name: "single cell with every label",
			fill: func(g [][]any) {
				set(g, 8, 1, "DD:14 MM:11 AA:25")
			},
			want:   "2025-11-14",
			source: "numeric_tokens",
		},
		{
			name: "numeric tokens skip invalid triples",
			fill: func(g [][]any) {
				set(g, 8, 1, "FECHA")
				set(g, 8, 2, "40")
				set(g, 8, 3, "14 / 11 / 25")
			},
			want:   "2025-11-14",
			source: "numeric_tokens",
		},
		{
			name: "text pattern",
			fill: func(g [][]any) {
				set(g, 3, 1, "Leticia, 05/03/2024")
			},
			want:   "2024-03-05",
			source: "text_pattern",
		},
		{
			name: "text pattern with two digit year",
			fill: func(g [][]any) {
				set(g, 3, 1, "FECHA 5-3-24")
			},
			want:   "2024-03-05",
			source: "text_pattern",
		},
		{
			name: "impossible calendar date",
			fill: func(g [][]any) {
				set(g, 3, 1, "31/02/2025")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := acta(30)
			tt.fill(g)

			meta := NewMetadataExtractor(DefaultOptions()).Extract(grid.NewSheet("acta", g))

			assert.Equal(t, tt.want, meta.DateString())
			if tt.source == "" {
				assert.False(t, meta.Found(FieldDate))
				return
			}
			assert.Equal(t, tt.source, meta.Sources[FieldDate])
		})
	}
}

func TestExtract_DateFormsAgree(t *testing.T) {
	forms := []struct {
		name   string
		fill   func(g [][]any)
		source string
	}{
		{
			name:   "structured cell",
			fill:   func(g [][]any) { set(g, 3, 5, time.Date(2025, 11, 14, 0, 0, 0, 0, time.UTC)) },
			source: "structured_cell",
		},
		{
			name: "labeled cells",
			fill: func(g [][]any) {
				set(g, 8, 1, "DD:14")
				set(g, 8, 2, "MM:11")
				set(g, 8, 3, "AA:25")
			},
			source: "labeled_row",
		},
		{
			name:   "text",
			fill:   func(g [][]any) { set(g, 3, 1, "Leticia, 14/11/2025") },
			source: "text_pattern",
		},
	}

	var dates []time.Time
	for _, form := range forms {
		g := acta(30)
		form.fill(g)

		meta := NewMetadataExtractor(DefaultOptions()).Extract(grid.NewSheet("acta", g))

		require.True(t, meta.HasDate(), form.name)
		assert.Equal(t, form.source, meta.Sources[FieldDate], form.name)
		dates = append(dates, meta.Date)
	}

	for i, d := range dates {
		assert.True(t, d.Equal(dates[0]), "%s gave %s, want %s", forms[i].name, d, dates[0])
		assert.Equal(t, "2025-11-14", d.Format(DateLayout), forms[i].name)
	}
}

func TestExtract_LocationFixedRows(t *testing.T) {
	g := acta(30)
	set(g, 14, 1, "DIPOL")
	set(g, 14, 2, "- GRISE -")
	set(g, 14, 3, "CAQUETA")

	meta := NewMetadataExtractor(DefaultOptions()).Extract(grid.NewSheet("acta", g))

	assert.Equal(t, "CAQUETA", meta.LocationCode)
	assert.Equal(t, "fixed_rows", meta.Sources[FieldLocation])
}

func TestCleanLocation(t *testing.T) {
	tests := []struct {
		raw  string
		mode LocationMode
		want string
	}{
		{"AMAZONAS OBJETIVO: ENTREGA", LocationFull, "AMAZONAS"},
		{"SECCIONAL META - | ", LocationFull, "SECCIONAL META"},
		{"PUTUMAYO RESPONSABLES DEL BIEN", LocationFull, "PUTUMAYO"},
		{"UNO DOS TRES CUATRO CINCO SEIS", LocationFull, "UNO DOS TRES CUATRO"},
		{"NORTE DE SANTANDER", LocationFirstToken, "NORTE"},
		{"ASIGNACIÓN", LocationFull, ""},
		{"", LocationFull, ""},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanLocation(tt.raw, tt.mode))
		})
	}
}

func TestExtract_RecipientProximity(t *testing.T) {
	tests := []struct {
		name     string
		cell     string
		wantName string
	}{
		{"plain name", "ANA NOVOA", "ANA NOVOA"},
		{"accents kept", "María Núñez", "MARÍA NÚÑEZ"},
		{"name after noise words", "CÉDULA: NOMBRES: Nohora Ñañez", "NOHORA ÑAÑEZ"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := acta(40)
			set(g, 30, 2, "CC 1.098.765.432")
			set(g, 30, 3, "FUNCIONARIO QUE RECIBE")
			set(g, 30, 4, tt.cell)
			set(g, 31, 5, "FIRMA")

			meta := NewMetadataExtractor(DefaultOptions()).Extract(grid.NewSheet("acta", g))

			require.True(t, meta.Found(FieldRecipient))
			assert.Equal(t, "proximity_window", meta.Sources[FieldRecipient])
			assert.Equal(t, "1098765432", meta.RecipientID)
			assert.Equal(t, tt.wantName, meta.RecipientName)
			assert.Empty(t, meta.RecipientGrade)
		})
	}
}

func TestExtract_RecipientRejectsShortIdentity(t *testing.T) {
	g := acta(30)
	set(g, 20, 1, "CEDULA")
	set(g, 20, 2, "NOMBRES")
	set(g, 20, 3, "CARGO")
	set(g, 21, 1, "12345")
	set(g, 21, 2, "LUISA GOMEZ")
	set(g, 21, 3, "FUNCIONARIO QUE RECIBE")

	meta := NewMetadataExtractor(DefaultOptions()).Extract(grid.NewSheet("acta", g))

	assert.Equal(t, "", meta.RecipientID)
	assert.Equal(t, "LUISA GOMEZ", meta.RecipientName)
	assert.Equal(t, "header_table", meta.Sources[FieldRecipient])
}

func TestCleanName(t *testing.T) {
	assert.Equal(t, "PEDRO NOVOA", cleanName([]string{"C.C. NO. 80123456", "PEDRO NOVOA"}))
	assert.Equal(t, "", cleanName([]string{"CEDULA", "123456789"}))
	assert.Equal(t, "", cleanName([]string{"CÉDULA:", "N° 123456789"}))
	assert.Equal(t, "NOÑA TORRES", cleanName([]string{"NOÑA TORRES"}))
}
