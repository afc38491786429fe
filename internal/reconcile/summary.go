package reconcile

import (
	"github.com/shopspring/decimal"

	"github.com/a3tai/mcp-inventory-sync/internal/extraction"
	"github.com/a3tai/mcp-inventory-sync/internal/inventory"
)

// Outcome is what happened to one extracted item
type Outcome string

const (
	OutcomeMatched  Outcome = "matched"
	OutcomeNoSerial Outcome = "no_serial"
	OutcomeNotFound Outcome = "not_found"
)

// ResponsibleSource tells where the responsible-party value came from
type ResponsibleSource string

const (
	ResponsibleFromIdentityMap ResponsibleSource = "identity_map"
	ResponsibleFromDocument    ResponsibleSource = "document"
	ResponsiblePlaceholder     ResponsibleSource = "placeholder"
)

// ItemResult records the fate of one item in table order
type ItemResult struct {
	Row         int     `json:"row" yaml:"row"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
	SerialKey   string  `json:"serial_key,omitempty" yaml:"serial_key,omitempty"`
	Outcome     Outcome `json:"outcome" yaml:"outcome"`
	Collection  string  `json:"collection,omitempty" yaml:"collection,omitempty"`
	RowsUpdated int     `json:"rows_updated,omitempty" yaml:"rows_updated,omitempty"`
	Sequence    int     `json:"sequence,omitempty" yaml:"sequence,omitempty"`
}

// CollectionReport describes how a target collection took part in the run
type CollectionReport struct {
	Name        string             `json:"name" yaml:"name"`
	Category    inventory.Category `json:"category" yaml:"category"`
	Indexed     bool               `json:"indexed" yaml:"indexed"`
	SerialKeys  int                `json:"serial_keys,omitempty" yaml:"serial_keys,omitempty"`
	Matched     int                `json:"matched,omitempty" yaml:"matched,omitempty"`
	RowsUpdated int                `json:"rows_updated,omitempty" yaml:"rows_updated,omitempty"`
}

// Summary is the result of a run
type Summary struct {
	RunID             string              `json:"run_id" yaml:"run_id"`
	Metadata          extraction.Metadata `json:"metadata" yaml:"metadata"`
	Responsible       string              `json:"responsible" yaml:"responsible"`
	ResponsibleSource ResponsibleSource   `json:"responsible_source" yaml:"responsible_source"`

	Items       int `json:"items" yaml:"items"`
	Matched     int `json:"matched" yaml:"matched"`
	Overflow    int `json:"overflow" yaml:"overflow"`
	NoSerial    int `json:"no_serial" yaml:"no_serial"`
	NotFound    int `json:"not_found" yaml:"not_found"`
	RowsUpdated int `json:"rows_updated" yaml:"rows_updated"`

	// OverflowCollection is empty when no overflow sheet exists; the
	// overflow items are then counted but not persisted.
	OverflowCollection string `json:"overflow_collection,omitempty" yaml:"overflow_collection,omitempty"`
	Sequences          []int  `json:"sequences,omitempty" yaml:"sequences,omitempty"`

	MatchedValue  decimal.Decimal `json:"matched_value" yaml:"matched_value"`
	OverflowValue decimal.Decimal `json:"overflow_value" yaml:"overflow_value"`

	Collections []CollectionReport `json:"collections" yaml:"collections"`
	Results     []ItemResult       `json:"results" yaml:"results"`
	Warnings    []Warning          `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// OverflowPersisted reports whether overflow items were written
func (s *Summary) OverflowPersisted() bool {
	return s.OverflowCollection != ""
}

func (s *Summary) warn(t ErrorType, detail string) {
	s.Warnings = append(s.Warnings, Warning{Type: t, Detail: detail})
}
