package report

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Locale is the display locale of every formatted number.
var Locale = language.French

var printer = message.NewPrinter(Locale)

// FormatNumber renders x in the display locale with at most three fraction
// digits, e.g. 1234.5 -> "1 234,5" (the group separator is a narrow
// no-break space).
func FormatNumber(x float64) string {
	switch {
	case math.IsNaN(x):
		return "NaN"
	case math.IsInf(x, 1):
		return "∞"
	case math.IsInf(x, -1):
		return "-∞"
	}
	return printer.Sprint(number.Decimal(x, number.MaxFractionDigits(3)))
}
