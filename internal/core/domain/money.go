package domain

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// FormatLira renders an amount the way the storefront shows prices, e.g. "199,99".
// The currency sign is left to the caller.
func FormatLira(amount decimal.Decimal) string {
	p := message.NewPrinter(language.Turkish)
	return p.Sprintf("%v", number.Decimal(amount.InexactFloat64(), number.MaxFractionDigits(2)))
}
