// Package textnorm holds the string normalizations shared by the extraction
// and reconciliation code: accent folding for label matching, whitespace
// collapsing and serial-key normalization.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold removes combining marks so that "CÉDULA" and "CEDULA" compare equal.
// Ñ folds to N.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Collapse trims s and replaces every whitespace run with a single space
func Collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Header normalizes a free-text label for pattern matching: accents folded,
// upper-cased, whitespace collapsed.
func Header(s string) string {
	return Collapse(strings.ToUpper(Fold(s)))
}

// Serial normalizes a physical serial number into its join key: every
// whitespace and dash character is removed and the rest is upper-cased.
// The result is idempotent: Serial(Serial(s)) == Serial(s).
func Serial(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsSpace(r) || isDash(r) {
			continue
		}
		b.WriteRune(r)
	}
	return strings.ToUpper(b.String())
}

// Digits keeps only the ASCII digits of s
func Digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// IdentityNumber returns the digits of s when there are between 6 and 12 of
// them, the accepted length of a national identity number.
func IdentityNumber(s string) (string, bool) {
	d := Digits(s)
	if len(d) < 6 || len(d) > 12 {
		return "", false
	}
	return d, true
}

func isDash(r rune) bool {
	switch r {
	case '-', '‐', '‑', '‒', '–', '—', '−':
		return true
	}
	return false
}
