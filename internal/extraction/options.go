package extraction

import (
	"fmt"
	"strings"
)

// LocationMode controls how much of the captured location code is kept
type LocationMode string

// LabelMode controls how the document number is rendered
type LabelMode string

const (
	LocationFull       LocationMode = "full"
	LocationFirstToken LocationMode = "first_token"

	LabelWithPrefix LabelMode = "prefix"
	LabelNumberOnly LabelMode = "number_only"

	// DefaultStartRow is the row holding the item table header in the
	// calibration documents.
	DefaultStartRow = 26
)

// Calibration layout of the hand-over documents. Windows are inclusive and
// 1-based.
const (
	blobLastRow = 79
	blobLastCol = 19

	dateScanLastRow = 40
	dateScanLastCol = 14
	dateLabelRow    = 8
	dateLookahead   = 6

	locationRetryLastCol = 14

	recipientHeaderLastRow = 400
	recipientHeaderLastCol = 60
	recipientRowWindow     = 120
	recipientLabelLastRow  = 200
	recipientLabelLastCol  = 50
	harvestCols            = 12
	harvestRowsUp          = 1
	harvestRowsDown        = 2
)

var locationRetryRows = []int{14, 15}

// Options configures the extractors
type Options struct {
	StartRow     int
	LocationMode LocationMode
	LabelMode    LabelMode
}

// DefaultOptions returns the options matching the calibration documents
func DefaultOptions() Options {
	return Options{
		StartRow:     DefaultStartRow,
		LocationMode: LocationFull,
		LabelMode:    LabelWithPrefix,
	}
}

// Validate checks that every option holds a known value
func (o Options) Validate() error {
	if o.StartRow < 1 {
		return fmt.Errorf("start row must be at least 1, got %d", o.StartRow)
	}
	if _, err := ParseLocationMode(string(o.LocationMode)); err != nil {
		return err
	}
	if _, err := ParseLabelMode(string(o.LabelMode)); err != nil {
		return err
	}
	return nil
}

// withDefaults fills zero fields from DefaultOptions
func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.StartRow == 0 {
		o.StartRow = def.StartRow
	}
	if o.LocationMode == "" {
		o.LocationMode = def.LocationMode
	}
	if o.LabelMode == "" {
		o.LabelMode = def.LabelMode
	}
	return o
}

// ParseLocationMode accepts the canonical names plus the aliases used by
// older configuration files.
func ParseLocationMode(s string) (LocationMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "full", "raw":
		return LocationFull, nil
	case "first_token", "firsttokenonly", "first-token":
		return LocationFirstToken, nil
	default:
		return "", fmt.Errorf("invalid location mode: %q (must be one of: full, first_token)", s)
	}
}

// ParseLabelMode accepts the canonical names plus their aliases
func ParseLabelMode(s string) (LabelMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "prefix", "withprefix", "with_prefix":
		return LabelWithPrefix, nil
	case "number_only", "numberonly", "number-only":
		return LabelNumberOnly, nil
	default:
		return "", fmt.Errorf("invalid acta mode: %q (must be one of: prefix, number_only)", s)
	}
}
