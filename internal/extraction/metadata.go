package extraction

import (
	"time"

	"github.com/a3tai/mcp-inventory-sync/internal/grid"
)

// Field names a metadata field
type Field string

const (
	FieldDate          Field = "date"
	FieldDocumentLabel Field = "document_label"
	FieldLocation      Field = "location"
	FieldRecipient     Field = "recipient"
)

// AllFields lists the metadata fields in extraction order
var AllFields = []Field{FieldDate, FieldDocumentLabel, FieldLocation, FieldRecipient}

// PlaceholderLabel is used when no document number is found
const PlaceholderLabel = "ACTA"

// DateLayout is the layout used when a date is written to a record
const DateLayout = "2006-01-02"

// Metadata holds the per-document facts. Any field may be empty; extraction
// is best-effort.
type Metadata struct {
	Date           time.Time `json:"date,omitzero" yaml:"date,omitempty"`
	DocumentLabel  string    `json:"document_label" yaml:"document_label"`
	DocumentNumber string    `json:"document_number,omitempty" yaml:"document_number,omitempty"`
	LocationCode   string    `json:"location_code,omitempty" yaml:"location_code,omitempty"`
	RecipientID    string    `json:"recipient_id,omitempty" yaml:"recipient_id,omitempty"`
	RecipientName  string    `json:"recipient_name,omitempty" yaml:"recipient_name,omitempty"`
	RecipientGrade string    `json:"recipient_grade,omitempty" yaml:"recipient_grade,omitempty"`

	// Sources records which strategy produced each field that was found
	Sources map[Field]string `json:"sources,omitempty" yaml:"sources,omitempty"`
}

// HasDate reports whether a date was extracted
func (m Metadata) HasDate() bool {
	return !m.Date.IsZero()
}

// DateString returns the date as YYYY-MM-DD, or "" when absent
func (m Metadata) DateString() string {
	if !m.HasDate() {
		return ""
	}
	return m.Date.Format(DateLayout)
}

// Found reports whether a field was produced by one of its strategies
func (m Metadata) Found(f Field) bool {
	_, ok := m.Sources[f]
	return ok
}

// Missing lists the fields whose strategies all failed
func (m Metadata) Missing() []Field {
	var missing []Field
	for _, f := range AllFields {
		if !m.Found(f) {
			missing = append(missing, f)
		}
	}
	return missing
}

// MetadataExtractor runs the field heuristics over a document
type MetadataExtractor struct {
	opts Options
}

// NewMetadataExtractor creates an extractor. Zero option fields take their
// defaults.
func NewMetadataExtractor(opts Options) *MetadataExtractor {
	return &MetadataExtractor{opts: opts.withDefaults()}
}

// Extract resolves every field independently. It never fails: a field whose
// fallback chain is exhausted is left empty.
func (e *MetadataExtractor) Extract(doc grid.Document) Metadata {
	meta := Metadata{
		DocumentLabel: PlaceholderLabel,
		Sources:       make(map[Field]string),
	}
	if doc == nil {
		return meta
	}
	s := newScan(doc, e.opts)

	if d, src, ok := firstMatch(s, dateChain); ok {
		meta.Date = d
		meta.Sources[FieldDate] = src
	}

	if num, src, ok := firstMatch(s, labelChain); ok {
		meta.DocumentNumber = num
		meta.DocumentLabel = renderLabel(num, e.opts.LabelMode)
		meta.Sources[FieldDocumentLabel] = src
	}

	if loc, src, ok := firstMatch(s, locationChain); ok {
		meta.LocationCode = loc
		meta.Sources[FieldLocation] = src
	}

	if rcp, src, ok := firstMatch(s, recipientChain); ok {
		meta.RecipientID = rcp.id
		meta.RecipientName = rcp.name
		meta.RecipientGrade = rcp.grade
		meta.Sources[FieldRecipient] = src
	}

	return meta
}
