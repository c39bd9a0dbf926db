// Package report renders ledger data for the terminal.
package report

import (
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// FormatAmount formats amount in the given ISO 4217 currency, e.g. "$1,234.50".
// The amount is rounded to the currency's minor unit. Unknown currencies fall
// back to two decimals followed by the code.
func FormatAmount(amount decimal.Decimal, currency string) string {
	code := strings.ToUpper(currency)
	cur := money.GetCurrency(code)
	if cur == nil {
		return amount.StringFixed(2) + " " + code
	}

	minor := amount.Round(int32(cur.Fraction)).Shift(int32(cur.Fraction))
	return money.New(minor.IntPart(), code).Display()
}
