package ui

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// CurrencySymbol prefixes every displayed amount.
const CurrencySymbol = "₹"

var printer = message.NewPrinter(language.English)

// Money formats an already rounded amount as "₹ 1,234.56".
func Money(d decimal.Decimal) string {
	return CurrencySymbol + " " + printer.Sprint(number.Decimal(d.InexactFloat64(), number.Scale(2)))
}

// MoneyOrNA formats an optional amount, "n/a" when unavailable.
func MoneyOrNA(d *decimal.Decimal) string {
	if d == nil {
		return "n/a"
	}
	return Money(*d)
}

// Percent formats a rate in [0,1] as "42.0%".
func Percent(rate float64) string {
	return printer.Sprintf("%.1f%%", rate*100)
}
