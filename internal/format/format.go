// Package format renders values with the Brazilian convention used by the
// dashboard: thousands ".", decimal ",", currency symbol prefix "R$ ".
//
// Digit grouping and separators come from the CLDR data in golang.org/x/text.
// Signs are applied here so every helper prints "-" the same way.
package format

import (
	"math"
	"unicode/utf8"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// CurrencySymbol prefixes monetary values.
const CurrencySymbol = "R$"

// Locale is the formatting locale.
var Locale = language.BrazilianPortuguese

var printer = message.NewPrinter(Locale)

// Currency formats v with two decimals: "R$ 1.234,56", "-R$ 10,00".
func Currency(v float64) string {
	return sign(v) + CurrencySymbol + " " + decimal(math.Abs(v), 2, 2)
}

// Number formats v with up to three decimals: "1.234", "0,125".
func Number(v float64) string {
	return sign(v) + decimal(math.Abs(v), 0, 3)
}

// Percentage formats a value already expressed in percent with two
// decimals: 12.345 -> "12,35%".
func Percentage(v float64) string {
	return sign(v) + printer.Sprintf("%v", number.Percent(math.Abs(v)/100,
		number.MinFractionDigits(2),
		number.MaxFractionDigits(2),
	))
}

// Indicator formats an indicator value as currency or as a plain number.
func Indicator(v float64, monetary bool) string {
	if monetary {
		return Currency(v)
	}
	return Number(v)
}

// Difference formats a delta with an explicit sign: "+R$ 500,00", "-3", "0".
func Difference(v float64, monetary bool) string {
	base := Indicator(math.Abs(v), monetary)
	switch {
	case v > 0:
		return "+" + base
	case v < 0:
		return "-" + base
	default:
		return base
	}
}

// EmptyCell fills a table cell that has no data for its indicator.
const EmptyCell = "\u2014"

// Change classes used to color a delta.
const (
	ClassPositive = "positive"
	ClassNegative = "negative"
	ClassNeutral  = "neutral"
)

// DiffClass returns the color class of a delta.
func DiffClass(v float64) string {
	switch {
	case v > 0:
		return ClassPositive
	case v < 0:
		return ClassNegative
	default:
		return ClassNeutral
	}
}

// TruncateLabel shortens labels longer than max runes to max runes + "...".
func TruncateLabel(label string, max int) string {
	if max <= 0 || utf8.RuneCountInString(label) <= max {
		return label
	}
	return string([]rune(label)[:max]) + "..."
}

func decimal(v float64, minDigits, maxDigits int) string {
	return printer.Sprintf("%v", number.Decimal(v,
		number.MinFractionDigits(minDigits),
		number.MaxFractionDigits(maxDigits),
	))
}

func sign(v float64) string {
	if v < 0 {
		return "-"
	}
	return ""
}
