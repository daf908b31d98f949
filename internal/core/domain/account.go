package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account represents a named balance holder owned by a single user.
// The IBAN is the external identifier used to address the account in transfers.
type Account struct {
	AccountID string          `json:"accountID"` // Primary Key (UUID)
	UserID    string          `json:"userID"`    // FK -> users.user_id (Not Null)
	Name      string          `json:"name"`
	Category  string          `json:"category"` // Free-form label ("current", "savings", ...)
	Balance   decimal.Decimal `json:"balance"`  // Fixed point, 2 fraction digits, never negative
	IBAN      string          `json:"iban"`     // Unique external identifier
	IsPrimary bool            `json:"isPrimary"`
	AuditFields
	DeletedAt *time.Time `json:"deletedAt,omitempty"` // Soft delete
}
