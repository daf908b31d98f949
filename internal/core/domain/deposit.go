package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Deposit is an inbound credit to one account. Immutable once created,
// except for soft deletion alongside its account.
type Deposit struct {
	DepositID   string          `json:"depositID"` // Primary Key (UUID)
	AccountID   string          `json:"accountID"` // FK -> accounts.account_id (Not Null)
	Amount      decimal.Decimal `json:"amount"`    // Strictly positive
	Description string          `json:"description"`
	AuditFields
	DeletedAt *time.Time `json:"deletedAt,omitempty"`
}
