package csvparser

// numeric.go decodes Brazilian-formatted numeric cells.
//
// Cleaning steps, in order:
//   1. drop 'R', '$' and all whitespace ("R$ 1.234,56" -> "1.234,56")
//   2. drop every '.' (thousands separator)
//   3. turn the first ',' into '.' (decimal separator)
//   4. parse the longest leading number, like a lenient float parser
//
// Empty or unparsable text decodes to 0, and so does a number too large for
// a float64. That is intentional: a malformed cell never rejects its row.

import (
	"math"
	"regexp"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// leadingNumber matches the numeric prefix left after cleaning.
var leadingNumber = regexp.MustCompile(`^[+-]?(\d+(\.\d+)?|\.\d+)([eE][+-]?\d+)?`)

// ParseNumeric decodes a numeric cell. It never fails.
func ParseNumeric(value string) float64 {
	d, ok := ParseDecimal(value)
	if !ok {
		return 0
	}
	return d.InexactFloat64()
}

// ParseDecimal decodes a numeric cell exactly. ok is false when no number
// could be read.
func ParseDecimal(value string) (decimal.Decimal, bool) {
	cleaned := CleanNumeric(value)
	if cleaned == "" {
		return decimal.Zero, false
	}

	match := leadingNumber.FindString(cleaned)
	if match == "" {
		return decimal.Zero, false
	}

	match = strings.TrimPrefix(match, "+")
	if strings.HasPrefix(match, ".") {
		match = "0" + match
	} else if strings.HasPrefix(match, "-.") {
		match = "-0" + match[1:]
	}

	d, err := decimal.NewFromString(match)
	if err != nil || !IsFinite(d) {
		return decimal.Zero, false
	}
	return d, true
}

// IsFinite reports whether d converts to a finite float64.
func IsFinite(d decimal.Decimal) bool {
	f := d.InexactFloat64()
	return !math.IsInf(f, 0) && !math.IsNaN(f)
}

// CleanNumeric applies the separator rules and returns the text that is
// handed to the number parser.
func CleanNumeric(value string) string {
	cleaned := strings.Map(func(r rune) rune {
		if r == 'R' || r == '$' || r == '.' || unicode.IsSpace(r) {
			return -1
		}
		return r
	}, value)
	return strings.Replace(cleaned, ",", ".", 1)
}
