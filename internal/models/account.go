package models

import (
	"database/sql"

	"github.com/shopspring/decimal"
)

// Account is the database representation of an account row.
// Balance is NUMERIC(12,2); never a binary float.
type Account struct {
	AccountID string          `db:"account_id"`
	UserID    string          `db:"user_id"`
	Name      string          `db:"name"`
	Category  string          `db:"category"`
	Balance   decimal.Decimal `db:"balance"`
	IBAN      string          `db:"iban"`
	IsPrimary bool            `db:"is_primary"`
	AuditFields
	DeletedAt sql.NullTime `db:"deleted_at"`
}
