package extraction

import (
	"regexp"
	"strings"

	"github.com/a3tai/mcp-inventory-sync/internal/grid"
)

// LabelPrefix is the canonical phrase of the document-number marker
const LabelPrefix = "ACTA No."

var (
	documentNumber = regexp.MustCompile(`(?i)ACTA\s*No\.?\s*([A-Za-z0-9\-_/]+)`)

	// the capture stays on one logical line of the blob
	locationMarker = regexp.MustCompile(`(?i)DIPOL\s*[-–—]\s*GRISE\s*[-–—]\s*([\p{L}\p{N} \t\-–—:|.,]+)`)
	locationStop   = regexp.MustCompile(`(?i)\b(OBJETIVO|ASIGNACI[ÓO]N|RESPONSABLES?|NOMBRES?|INFORMACI[ÓO]N\s+P[ÚU]BLICA|FIRMA|CARGO)`)
	trailingDashes = regexp.MustCompile(`(?:\s*[-–—]\s*)+$`)
	trailingPunct  = regexp.MustCompile(`[|:;,.]+$`)
	locationNoise  = regexp.MustCompile(`[^\p{L}\p{N}\s\-]`)
)

var labelChain = []strategy[string]{
	{name: "blob_marker", run: blobDocumentNumber},
}

var locationChain = []strategy[string]{
	{name: "blob_marker", run: blobLocation},
	{name: "fixed_rows", run: fixedRowLocation},
}

func blobDocumentNumber(s *scan) (string, bool) {
	m := documentNumber.FindStringSubmatch(s.Blob())
	if m == nil {
		return "", false
	}
	num := strings.TrimSpace(m[1])
	return num, num != ""
}

func renderLabel(number string, mode LabelMode) string {
	if number == "" {
		return PlaceholderLabel
	}
	if mode == LabelNumberOnly {
		return number
	}
	return LabelPrefix + " " + number
}

func blobLocation(s *scan) (string, bool) {
	return matchLocation(s.Blob(), s.opts.LocationMode)
}

// fixedRowLocation retries the rows that carry the location marker in the
// calibration documents, cells joined by a plain space.
func fixedRowLocation(s *scan) (string, bool) {
	for _, r := range locationRetryRows {
		text := grid.RowText(s.doc, r, 1, locationRetryLastCol, " ")
		if loc, ok := matchLocation(text, s.opts.LocationMode); ok {
			return loc, true
		}
	}
	return "", false
}

func matchLocation(text string, mode LocationMode) (string, bool) {
	m := locationMarker.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	loc := CleanLocation(m[1], mode)
	return loc, loc != ""
}

// CleanLocation trims a captured location down to the code itself: text after
// the first stop word is dropped, trailing separators and punctuation are
// removed, whitespace is collapsed and only the first four tokens of a long
// capture survive.
func CleanLocation(raw string, mode LocationMode) string {
	if loc := locationStop.FindStringIndex(raw); loc != nil {
		raw = raw[:loc[0]]
	}

	for {
		trimmed := strings.TrimSpace(trailingPunct.ReplaceAllString(trailingDashes.ReplaceAllString(raw, ""), ""))
		if trimmed == raw {
			break
		}
		raw = trimmed
	}

	raw = locationNoise.ReplaceAllString(raw, " ")
	tokens := strings.Fields(raw)
	for len(tokens) > 0 && strings.Trim(tokens[0], "-") == "" {
		tokens = tokens[1:]
	}
	for len(tokens) > 0 && strings.Trim(tokens[len(tokens)-1], "-") == "" {
		tokens = tokens[:len(tokens)-1]
	}
	if len(tokens) == 0 {
		return ""
	}
	if len(tokens) >= 5 {
		tokens = tokens[:4]
	}
	if mode == LocationFirstToken {
		return strings.Trim(tokens[0], "-")
	}
	out := strings.Join(tokens, " ")
	return strings.Trim(out, "- ")
}
