// Package format renders amounts the way payout statements show them:
// euro amounts and percentages with German digit grouping.
package format

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.German)

// Currency returns a euro string with German separators (e.g., "-€1.234,56").
func Currency(amount float64) string {
	if amount < 0 {
		return "-€" + printer.Sprintf("%.2f", math.Abs(amount))
	}
	return "€" + printer.Sprintf("%.2f", amount)
}

// NumericCurrency returns an amount with German separators and no symbol.
func NumericCurrency(amount float64) string {
	return printer.Sprintf("%.2f", amount)
}

// Percent renders a percentage with one decimal (e.g., "12,5%").
func Percent(value float64) string {
	return printer.Sprintf("%.1f", value) + "%"
}

// Ratio renders a revenue-to-payout ratio (e.g., "33,2:1").
func Ratio(value float64) string {
	return printer.Sprintf("%.1f", value) + ":1"
}
