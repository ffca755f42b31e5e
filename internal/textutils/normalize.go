// Package textutils provides text normalization helpers shared by the
// abbreviation expander and the response parser.
package textutils

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var stripD = strings.NewReplacer("đ", "d", "Đ", "D")

// Normalize returns s in Unicode NFC form. Spreadsheets exported on some
// platforms store Vietnamese diacritics decomposed, which would otherwise
// defeat exact lookups.
func Normalize(s string) string {
	return norm.NFC.String(s)
}

// Fold returns the NFC, case-folded form of s for case-insensitive matching.
// A Caser is not safe for concurrent use, so one is built per call.
func Fold(s string) string {
	return cases.Fold().String(norm.NFC.String(s))
}

// Key returns the comparison key used to match a remark echoed by the
// model against the remark that was sent: trimmed, inner whitespace
// collapsed, NFC normalized and case-folded.
func Key(s string) string {
	return Fold(strings.Join(strings.Fields(s), " "))
}

// LooseKey is Key with diacritics removed, so "Ăn trưa" and "an trua" share
// a key. Vietnamese đ maps to d.
func LooseKey(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, stripD.Replace(Key(s)))
	if err != nil {
		return Key(s)
	}
	return out
}

// Tokenize splits s on runs of Unicode whitespace.
func Tokenize(s string) []string {
	return strings.Fields(s)
}

// SplitList splits a separator-delimited list, trimming every item and
// dropping empty ones.
func SplitList(s, sep string) []string {
	parts := strings.Split(s, sep)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Truncate shortens s to at most n runes, appending "..." when cut.
func Truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
