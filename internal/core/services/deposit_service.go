package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/plarivier/corebank/internal/apperrors"
	"github.com/plarivier/corebank/internal/core/domain"
	portsrepo "github.com/plarivier/corebank/internal/core/ports/repositories"
	portssvc "github.com/plarivier/corebank/internal/core/ports/services"
	"github.com/plarivier/corebank/internal/middleware"
	"github.com/plarivier/corebank/internal/utils"
)

var (
	ErrInvalidAmount          = errors.New("amount must be positive with at most two fraction digits")
	ErrPrimaryAccountNotFound = errors.New("owner has no primary account to receive swept funds")
	ErrSweepDidNotConverge    = errors.New("ceiling sweep did not converge")
)

// maxSweepIterations caps the split-recompute loop. The only sweep target is
// the ceiling-exempt primary account, so a single recompute normally
// converges; the cap keeps a pathological credit race on the same account
// from looping forever.
const maxSweepIterations = 4

// depositService is the deposit engine. It credits accounts and enforces the
// balance ceiling on non-primary accounts by sweeping overflow into the
// owner's primary account.
type depositService struct {
	depositRepo portsrepo.DepositRepositoryFacade
	accountRepo portsrepo.AccountReader
	ceiling     decimal.Decimal
}

// NewDepositService creates a new deposit service. A non-positive ceiling
// falls back to the default.
func NewDepositService(depositRepo portsrepo.DepositRepositoryFacade, accountRepo portsrepo.AccountReader, ceiling decimal.Decimal) portssvc.DepositSvcFacade {
	if !ceiling.IsPositive() {
		ceiling = domain.DefaultBalanceCeiling
	}
	return &depositService{
		depositRepo: depositRepo,
		accountRepo: accountRepo,
		ceiling:     ceiling,
	}
}

// Ensure depositService implements the portssvc.DepositSvcFacade interface
var _ portssvc.DepositSvcFacade = (*depositService)(nil)

func (s *depositService) Deposit(ctx context.Context, accountID string, amount decimal.Decimal, description string, callerUserID string) (*domain.Deposit, error) {
	if !amount.IsPositive() || !utils.HasValidScale(amount) {
		return nil, fmt.Errorf("%w: %w", ErrInvalidAmount, apperrors.ErrValidation)
	}

	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account.UserID != callerUserID {
		return nil, fmt.Errorf("account %s does not belong to the caller: %w", accountID, apperrors.ErrForbidden)
	}

	now := time.Now()
	newDeposit := func(targetAccountID string, portion decimal.Decimal, desc string) domain.Deposit {
		return domain.Deposit{
			DepositID:   uuid.NewString(),
			AccountID:   targetAccountID,
			Amount:      portion,
			Description: desc,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     callerUserID,
				LastUpdatedAt: now,
				LastUpdatedBy: callerUserID,
			},
		}
	}

	logger := middleware.GetLoggerFromCtx(ctx)

	// The split is computed from a balance snapshot, so the storage layer
	// re-checks the ceiling inside its own atomic update. A concurrent credit
	// that lands between the read and the write fails the whole batch with
	// ErrCeilingExceeded, and the split is recomputed from a fresh balance,
	// bounded by maxSweepIterations.
	for attempt := 0; attempt < maxSweepIterations; attempt++ {
		// Resolve the sweep target before any mutation so the whole deposit
		// can be rejected up front when the owner has no primary account.
		overflow := domain.OverflowAmount(*account, amount, s.ceiling)
		var deposits []domain.Deposit
		if overflow.IsPositive() {
			primary, err := s.accountRepo.FindPrimaryAccountByUserID(ctx, account.UserID)
			if err != nil {
				if errors.Is(err, apperrors.ErrNotFound) {
					return nil, fmt.Errorf("%w: %w", ErrPrimaryAccountNotFound, apperrors.ErrConflict)
				}
				return nil, fmt.Errorf("failed to resolve primary account for sweep: %w", err)
			}
			retained := amount.Sub(overflow)
			if retained.IsPositive() {
				deposits = append(deposits, newDeposit(account.AccountID, retained, description))
			}
			deposits = append(deposits, newDeposit(primary.AccountID, overflow, domain.SweepDescription))

			logger.InfoContext(ctx, "deposit overflow swept to primary account",
				"account_id", account.AccountID,
				"primary_account_id", primary.AccountID,
				"retained", retained.String(),
				"swept", overflow.String(),
			)
		} else {
			deposits = append(deposits, newDeposit(account.AccountID, amount, description))
		}

		err := s.depositRepo.SaveDeposits(ctx, deposits, s.ceiling)
		if err == nil {
			return &deposits[len(deposits)-1], nil
		}
		if !errors.Is(err, apperrors.ErrCeilingExceeded) {
			return nil, fmt.Errorf("failed to persist deposit: %w", err)
		}

		account, err = s.accountRepo.FindAccountByID(ctx, accountID)
		if err != nil {
			return nil, fmt.Errorf("failed to re-read account %s for sweep recompute: %w", accountID, err)
		}
	}

	logger.ErrorContext(ctx, "deposit sweep kept losing ceiling races, giving up",
		"account_id", accountID,
		"amount", amount.String(),
		"attempts", maxSweepIterations,
	)
	return nil, fmt.Errorf("%w after %d attempts: %w", ErrSweepDidNotConverge, maxSweepIterations, apperrors.ErrConflict)
}

func (s *depositService) ListDeposits(ctx context.Context, accountID string, callerUserID string) ([]domain.Deposit, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account.UserID != callerUserID {
		return nil, fmt.Errorf("account %s does not belong to the caller: %w", accountID, apperrors.ErrForbidden)
	}
	return s.depositRepo.ListDepositsByAccountID(ctx, accountID)
}
