package models

import (
	"database/sql"

	"github.com/shopspring/decimal"
)

// Deposit is the database representation of a deposit row.
type Deposit struct {
	DepositID   string          `db:"deposit_id"`
	AccountID   string          `db:"account_id"`
	Amount      decimal.Decimal `db:"amount"`
	Description string          `db:"description"`
	AuditFields
	DeletedAt sql.NullTime `db:"deleted_at"`
}
