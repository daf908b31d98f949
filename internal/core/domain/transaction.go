package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionStatus is the settlement state of a transfer.
// Lifecycle: PENDING -> SETTLED or PENDING -> CANCELLED; terminal states
// never transition further.
type TransactionStatus string

const (
	TransactionPending   TransactionStatus = "PENDING"
	TransactionSettled   TransactionStatus = "SETTLED"
	TransactionCancelled TransactionStatus = "CANCELLED"
)

// SweepDescription marks transactions created by the balance-ceiling sweep.
const SweepDescription = "ceiling exceeded"

// Transaction is a transfer between two accounts. The sender is debited
// synchronously at creation; the receiver is credited by the deferred
// settlement task. Sweep records created by ceiling enforcement reference
// the overflowing account as sender and its primary account as receiver.
type Transaction struct {
	TransactionID     string            `json:"transactionID"` // Primary Key (UUID)
	SenderAccountID   string            `json:"senderAccountID,omitempty"`
	ReceiverAccountID string            `json:"receiverAccountID,omitempty"`
	Amount            decimal.Decimal   `json:"amount"` // Strictly positive
	Description       string            `json:"description"`
	Status            TransactionStatus `json:"status"`
	AuditFields
	DeletedAt *time.Time `json:"deletedAt,omitempty"`
}

// IsTerminal reports whether the status permits no further transition.
func (s TransactionStatus) IsTerminal() bool {
	return s == TransactionSettled || s == TransactionCancelled
}
