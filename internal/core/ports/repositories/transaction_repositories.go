package repositories

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/plarivier/corebank/internal/core/domain"
)

// TransactionReader defines read operations for transaction data
type TransactionReader interface {
	// FindTransactionByID retrieves a non-deleted transaction by ID.
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// ListTransactionsByAccountID retrieves non-deleted transactions where the
	// account is sender or receiver, newest first.
	ListTransactionsByAccountID(ctx context.Context, accountID string) ([]domain.Transaction, error)

	// CountPendingByAccountID counts non-deleted PENDING transactions that
	// reference the account as sender or receiver.
	CountPendingByAccountID(ctx context.Context, accountID string) (int, error)
}

// TransactionWriter defines write operations for transaction data
type TransactionWriter interface {
	// SaveTransactionWithChanges inserts the transaction (when non-nil) and
	// applies every balance delta in changes, all within one storage
	// transaction. Used for the synchronous debit at creation, for the
	// settlement credit with its ceiling sweep, and for closure sweeps. A
	// positive ceiling is enforced on every credit to a non-primary account
	// inside the transaction; a split computed from a stale balance fails
	// whole with apperrors.ErrCeilingExceeded so the caller can re-split. A
	// non-positive ceiling disables the check (refunds restore the sender in
	// full regardless of the ceiling).
	SaveTransactionWithChanges(ctx context.Context, txn *domain.Transaction, changes map[string]decimal.Decimal, ceiling decimal.Decimal, userID string, now time.Time) error

	// UpdateTransactionStatus flips the status from one value to another as a
	// single atomic compare-and-set. It fails with apperrors.ErrNotFound when
	// the transaction is missing or deleted, and apperrors.ErrConflict when
	// the current status does not match from.
	UpdateTransactionStatus(ctx context.Context, transactionID string, from, to domain.TransactionStatus, userID string, now time.Time) error
}

// TransactionRepositoryFacade combines all transaction-related repository interfaces
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionWriter
}
