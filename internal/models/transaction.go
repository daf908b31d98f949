package models

import (
	"database/sql"

	"github.com/shopspring/decimal"
)

// Transaction is the database representation of a transaction row.
// Sender and receiver are nullable; sweep records may omit one side.
type Transaction struct {
	TransactionID     string          `db:"transaction_id"`
	SenderAccountID   sql.NullString  `db:"sender_account_id"`
	ReceiverAccountID sql.NullString  `db:"receiver_account_id"`
	Amount            decimal.Decimal `db:"amount"`
	Description       string          `db:"description"`
	Status            string          `db:"status"`
	AuditFields
	DeletedAt sql.NullTime `db:"deleted_at"`
}
