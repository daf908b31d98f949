package domain

import "github.com/shopspring/decimal"

// DefaultBalanceCeiling is the maximum permitted balance for a non-primary
// account. Deployments may override it through configuration.
var DefaultBalanceCeiling = decimal.NewFromInt(50000)

// OverflowAmount computes the portion of a proposed credit that would push a
// non-primary account past the balance ceiling. Primary accounts are exempt
// and always return zero. The result is never negative.
func OverflowAmount(account Account, proposedCredit decimal.Decimal, ceiling decimal.Decimal) decimal.Decimal {
	if account.IsPrimary {
		return decimal.Zero
	}
	overflow := account.Balance.Add(proposedCredit).Sub(ceiling)
	if overflow.IsNegative() {
		return decimal.Zero
	}
	return overflow
}
