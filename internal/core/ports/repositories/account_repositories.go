package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/plarivier/corebank/internal/core/domain"
)

// AccountReader defines read operations for account data
type AccountReader interface {
	// FindAccountByID retrieves a non-deleted account by its unique identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// FindAccountByIBAN retrieves a non-deleted account by its IBAN.
	FindAccountByIBAN(ctx context.Context, iban string) (*domain.Account, error)

	// FindPrimaryAccountByUserID retrieves the single non-deleted primary
	// account of the given user.
	FindPrimaryAccountByUserID(ctx context.Context, userID string) (*domain.Account, error)

	// ListAccountsByUserID retrieves all non-deleted accounts of a user.
	ListAccountsByUserID(ctx context.Context, userID string) ([]domain.Account, error)
}

// AccountWriter defines write operations for account data
type AccountWriter interface {
	// SaveAccount persists a new account.
	SaveAccount(ctx context.Context, account domain.Account) error

	// SoftDeleteAccount marks an account as deleted.
	SoftDeleteAccount(ctx context.Context, accountID string, userID string, now time.Time) error
}

// AccountBalanceMutator defines the atomic per-account balance update.
// Implementations must apply balance += delta as a single atomic step with
// respect to concurrent updates on the same account, and must fail with
// apperrors.ErrInsufficientFunds when a debit would drive the balance
// negative, or apperrors.ErrNotFound when the account is missing or deleted.
// A positive ceiling additionally rejects credits that would push a
// non-primary account past it with apperrors.ErrCeilingExceeded; the check
// must run inside the same atomic step as the update so a stale balance read
// by the caller can never let a credit through. A non-positive ceiling
// disables the check.
type AccountBalanceMutator interface {
	ApplyBalanceDelta(ctx context.Context, accountID string, delta decimal.Decimal, ceiling decimal.Decimal, userID string, now time.Time) (*domain.Account, error)
}

// AccountTransactionSupport defines balance operations usable inside an
// enclosing database transaction owned by another repository.
type AccountTransactionSupport interface {
	ApplyBalanceDeltaInTx(ctx context.Context, tx pgx.Tx, accountID string, delta decimal.Decimal, ceiling decimal.Decimal, userID string, now time.Time) (*domain.Account, error)
}

// AccountRepositoryFacade combines all account-related repository interfaces
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
	AccountBalanceMutator
	AccountTransactionSupport
}
