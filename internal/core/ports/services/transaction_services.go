package services

import (
	"context"

	"github.com/plarivier/corebank/internal/core/domain"
	"github.com/plarivier/corebank/internal/dto"
)

// TransactionSvcFacade is the transaction engine: transfer creation with a
// synchronous debit, deferred settlement of the credit side, cancellation,
// account closing and the ledger query.
type TransactionSvcFacade interface {
	// CreateTransaction validates and creates a transfer, debits the sender
	// immediately and schedules settlement after the configured delay.
	CreateTransaction(ctx context.Context, req dto.CreateTransactionRequest, callerUserID string) (*domain.Transaction, error)

	// GetTransactionByID retrieves a transaction visible to the caller.
	GetTransactionByID(ctx context.Context, transactionID string, callerUserID string) (*domain.Transaction, error)

	// CancelTransaction refunds the sender of a still-pending transaction.
	CancelTransaction(ctx context.Context, transactionID string, callerUserID string) error

	// ListTransactions returns the account's transactions, newest first.
	ListTransactions(ctx context.Context, accountID string, callerUserID string) ([]domain.Transaction, error)

	// CloseAccount sweeps the remaining balance to the primary account and
	// soft-deletes the account.
	CloseAccount(ctx context.Context, accountID string, callerUserID string) (*domain.Account, error)
}

// TransactionSettler is the deferred half of the transaction engine. The
// settlement scheduler invokes it once per transaction after the delay.
type TransactionSettler interface {
	// Settle credits the receiver of a pending transaction, applying ceiling
	// sweep logic, and marks it settled. Errors are terminal for the task:
	// they are logged, never retried and never surfaced to the creator.
	Settle(ctx context.Context, transactionID string) error
}
