package models

import (
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// ParseAmount parses a ledger amount cell. It tolerates currency codes and
// symbols, spaces, and both "1.234.567,89" and "1,234,567.89" grouping.
// A single separator followed by exactly three digits is a thousands
// separator ("150.000" is one hundred fifty thousand). Unparseable input
// yields decimal.Zero and false.
func ParseAmount(raw string) (decimal.Decimal, bool) {
	var b strings.Builder
	for _, r := range strings.TrimSpace(raw) {
		switch {
		case unicode.IsDigit(r), r == '.', r == ',', r == '-':
			b.WriteRune(r)
		case r == '(':
			// accounting negative: (1,000)
			b.WriteRune('-')
		}
	}
	s := b.String()
	if s == "" || s == "-" {
		return decimal.Zero, false
	}

	lastDot := strings.LastIndex(s, ".")
	lastComma := strings.LastIndex(s, ",")

	switch {
	case lastDot >= 0 && lastComma >= 0:
		if lastComma > lastDot {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case lastComma >= 0:
		s = normalizeSingleSeparator(s, ",")
	case lastDot >= 0:
		s = normalizeSingleSeparator(s, ".")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

func normalizeSingleSeparator(s, sep string) string {
	if strings.Count(s, sep) > 1 {
		return strings.ReplaceAll(s, sep, "")
	}
	idx := strings.Index(s, sep)
	if len(s)-idx-1 == 3 {
		return strings.Replace(s, sep, "", 1)
	}
	return strings.Replace(s, sep, ".", 1)
}

// FormatAmount renders an amount with two decimals, or "" for zero when
// the source cell was empty.
func FormatAmount(d decimal.Decimal, present bool) string {
	if !present {
		return ""
	}
	return d.StringFixed(2)
}
