package repositories

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/plarivier/corebank/internal/core/domain"
)

// DepositRepositoryFacade persists deposits together with their balance effect.
type DepositRepositoryFacade interface {
	// SaveDeposits inserts the given deposit records and credits each deposit's
	// account by its amount, all within one storage transaction. A ceiling
	// split (target credit plus sweep to primary) must therefore be applied
	// fully or not at all. A positive ceiling is enforced on every credit to a
	// non-primary account inside the transaction; when the split was computed
	// from a balance that has since moved past the ceiling, the whole batch
	// fails with apperrors.ErrCeilingExceeded and the caller re-splits.
	SaveDeposits(ctx context.Context, deposits []domain.Deposit, ceiling decimal.Decimal) error

	// ListDepositsByAccountID retrieves non-deleted deposits of an account,
	// newest first.
	ListDepositsByAccountID(ctx context.Context, accountID string) ([]domain.Deposit, error)
}
