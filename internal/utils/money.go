package utils

import "github.com/shopspring/decimal"

// HasValidScale reports whether a monetary amount fits the fixed-point
// representation used by the ledger (at most two fraction digits).
func HasValidScale(amount decimal.Decimal) bool {
	return amount.Equal(amount.Round(2))
}
