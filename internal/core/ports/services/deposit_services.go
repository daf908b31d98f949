package services

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/plarivier/corebank/internal/core/domain"
)

// DepositSvcFacade is the deposit engine: it applies inbound credits and
// enforces the balance ceiling by sweeping overflow into the owner's
// primary account.
type DepositSvcFacade interface {
	// Deposit credits an account. When the credit would push a non-primary
	// account past the ceiling, the excess is deposited into the owner's
	// primary account instead. Returns the last deposit record created.
	Deposit(ctx context.Context, accountID string, amount decimal.Decimal, description string, callerUserID string) (*domain.Deposit, error)

	// ListDeposits returns the account's deposits, newest first.
	ListDeposits(ctx context.Context, accountID string, callerUserID string) ([]domain.Deposit, error)
}
