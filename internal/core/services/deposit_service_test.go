package services_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/plarivier/corebank/internal/apperrors"
	"github.com/plarivier/corebank/internal/core/domain"
	portssvc "github.com/plarivier/corebank/internal/core/ports/services"
	"github.com/plarivier/corebank/internal/core/services"
)

// overflowingDepositRepo rejects every batch as a ceiling breach, as if a
// rival credit kept landing between each split recompute and its write.
type overflowingDepositRepo struct {
	attempts int
}

func (r *overflowingDepositRepo) SaveDeposits(ctx context.Context, deposits []domain.Deposit, ceiling decimal.Decimal) error {
	r.attempts++
	return fmt.Errorf("credit rejected: %w", apperrors.ErrCeilingExceeded)
}

func (r *overflowingDepositRepo) ListDepositsByAccountID(ctx context.Context, accountID string) ([]domain.Deposit, error) {
	return nil, nil
}

type DepositServiceTestSuite struct {
	suite.Suite
	store       *fakeAccountStore
	depositRepo *fakeDepositRepo
	service     portssvc.DepositSvcFacade

	primary domain.Account
	savings domain.Account
}

func (s *DepositServiceTestSuite) SetupTest() {
	s.primary = domain.Account{
		AccountID: uuid.NewString(),
		UserID:    "alice",
		Name:      "Current Account",
		Balance:   decimal.NewFromInt(100),
		IBAN:      "FR20000000000000000001",
		IsPrimary: true,
	}
	s.savings = domain.Account{
		AccountID: uuid.NewString(),
		UserID:    "alice",
		Name:      "Savings",
		Balance:   decimal.NewFromInt(49000),
		IBAN:      "FR20000000000000000002",
	}
	s.store = newFakeAccountStore(s.primary, s.savings)
	s.depositRepo = newFakeDepositRepo(s.store)
	s.service = services.NewDepositService(s.depositRepo, s.store, decimal.NewFromInt(50000))
}

func (s *DepositServiceTestSuite) TestDeposit_Simple() {
	dep, err := s.service.Deposit(context.Background(), s.savings.AccountID, decimal.NewFromInt(500), "salary", "alice")
	s.Require().NoError(err)

	s.Equal(s.savings.AccountID, dep.AccountID)
	s.True(dep.Amount.Equal(decimal.NewFromInt(500)))
	s.True(s.store.balance(s.savings.AccountID).Equal(decimal.NewFromInt(49500)))
	s.True(s.store.balance(s.primary.AccountID).Equal(decimal.NewFromInt(100)))
}

func (s *DepositServiceTestSuite) TestDeposit_SplitsOverflowToPrimary() {
	// 49000 + 2000 against a 50000 ceiling: 1000 stays, 1000 is swept.
	dep, err := s.service.Deposit(context.Background(), s.savings.AccountID, decimal.NewFromInt(2000), "bonus", "alice")
	s.Require().NoError(err)

	s.True(s.store.balance(s.savings.AccountID).Equal(decimal.NewFromInt(50000)))
	s.True(s.store.balance(s.primary.AccountID).Equal(decimal.NewFromInt(1100)))

	// Both records land in one batch so the split is all-or-nothing.
	s.Require().Len(s.depositRepo.batches, 1)
	batch := s.depositRepo.batches[0]
	s.Require().Len(batch, 2)
	s.Equal(s.savings.AccountID, batch[0].AccountID)
	s.True(batch[0].Amount.Equal(decimal.NewFromInt(1000)))
	s.Equal("bonus", batch[0].Description)
	s.Equal(s.primary.AccountID, batch[1].AccountID)
	s.True(batch[1].Amount.Equal(decimal.NewFromInt(1000)))
	s.Equal(domain.SweepDescription, batch[1].Description)

	// The returned record is the last one created.
	s.Equal(batch[1].DepositID, dep.DepositID)
}

func (s *DepositServiceTestSuite) TestDeposit_FullySweptWhenAtCeiling() {
	_, err := s.service.Deposit(context.Background(), s.savings.AccountID, decimal.NewFromInt(1000), "", "alice")
	s.Require().NoError(err)

	dep, err := s.service.Deposit(context.Background(), s.savings.AccountID, decimal.NewFromInt(300), "", "alice")
	s.Require().NoError(err)

	// The savings account was already full, so the whole amount moved on.
	s.Equal(s.primary.AccountID, dep.AccountID)
	s.True(s.store.balance(s.savings.AccountID).Equal(decimal.NewFromInt(50000)))
	s.True(s.store.balance(s.primary.AccountID).Equal(decimal.NewFromInt(400)))
	s.Require().Len(s.depositRepo.batches, 2)
	s.Len(s.depositRepo.batches[1], 1)
}

func (s *DepositServiceTestSuite) TestDeposit_PrimaryExemptFromCeiling() {
	dep, err := s.service.Deposit(context.Background(), s.primary.AccountID, decimal.NewFromInt(80000), "", "alice")
	s.Require().NoError(err)

	s.Equal(s.primary.AccountID, dep.AccountID)
	s.True(s.store.balance(s.primary.AccountID).Equal(decimal.NewFromInt(80100)))
}

func (s *DepositServiceTestSuite) TestDeposit_InvalidAmounts() {
	for _, amount := range []decimal.Decimal{
		decimal.Zero,
		decimal.NewFromInt(-10),
		decimal.RequireFromString("1.005"),
	} {
		_, err := s.service.Deposit(context.Background(), s.savings.AccountID, amount, "", "alice")
		s.Require().ErrorIs(err, apperrors.ErrValidation, "amount %s", amount)
	}
	s.Empty(s.depositRepo.batches)
}

func (s *DepositServiceTestSuite) TestDeposit_NotOwnAccount() {
	_, err := s.service.Deposit(context.Background(), s.savings.AccountID, decimal.NewFromInt(10), "", "bob")
	s.Require().ErrorIs(err, apperrors.ErrForbidden)
}

func (s *DepositServiceTestSuite) TestDeposit_UnknownAccount() {
	_, err := s.service.Deposit(context.Background(), uuid.NewString(), decimal.NewFromInt(10), "", "alice")
	s.Require().ErrorIs(err, apperrors.ErrNotFound)
}

func (s *DepositServiceTestSuite) TestDeposit_NoPrimaryForSweep() {
	orphan := domain.Account{
		AccountID: uuid.NewString(),
		UserID:    "carol",
		Balance:   decimal.NewFromInt(49990),
		IBAN:      "FR20000000000000000003",
	}
	s.store.SaveAccount(context.Background(), orphan)

	// Nothing may be credited when the sweep target is missing.
	_, err := s.service.Deposit(context.Background(), orphan.AccountID, decimal.NewFromInt(100), "", "carol")
	s.Require().ErrorIs(err, services.ErrPrimaryAccountNotFound)
	s.True(s.store.balance(orphan.AccountID).Equal(decimal.NewFromInt(49990)))
	s.Empty(s.depositRepo.batches)
}

func (s *DepositServiceTestSuite) TestDeposit_ConcurrentCreditsHoldCeiling() {
	// Both depositors snapshot the balance before either writes, so each
	// computes a split with no overflow. The storage guard rejects the
	// loser's stale credit and its split is recomputed from a fresh balance.
	savings := s.savings
	savings.Balance = decimal.NewFromInt(49500)
	store := newFakeAccountStore(s.primary, savings)
	gated := newGatedReadAccountStore(store, 2)
	depositRepo := newFakeDepositRepo(store)
	service := services.NewDepositService(depositRepo, gated, decimal.NewFromInt(50000))

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = service.Deposit(context.Background(), savings.AccountID, decimal.NewFromInt(400), "payroll", "alice")
		}(i)
	}
	wg.Wait()

	s.Require().NoError(errs[0])
	s.Require().NoError(errs[1])

	// 49500 + 800 against a 50000 ceiling: the account fills exactly and the
	// overflowing 300 lands on the primary.
	s.True(store.balance(savings.AccountID).LessThanOrEqual(decimal.NewFromInt(50000)),
		"non-primary balance is %s after concurrent deposits", store.balance(savings.AccountID))
	s.True(store.balance(savings.AccountID).Equal(decimal.NewFromInt(50000)))
	s.True(store.balance(s.primary.AccountID).Equal(decimal.NewFromInt(400)))
}

func (s *DepositServiceTestSuite) TestDeposit_SweepRetriesAreBounded() {
	repo := &overflowingDepositRepo{}
	service := services.NewDepositService(repo, s.store, decimal.NewFromInt(50000))

	_, err := service.Deposit(context.Background(), s.savings.AccountID, decimal.NewFromInt(100), "", "alice")

	s.Require().ErrorIs(err, services.ErrSweepDidNotConverge)
	s.Require().ErrorIs(err, apperrors.ErrConflict)
	s.Equal(4, repo.attempts)
}

func (s *DepositServiceTestSuite) TestListDeposits_NewestFirst() {
	_, err := s.service.Deposit(context.Background(), s.savings.AccountID, decimal.NewFromInt(10), "first", "alice")
	s.Require().NoError(err)
	_, err = s.service.Deposit(context.Background(), s.savings.AccountID, decimal.NewFromInt(20), "second", "alice")
	s.Require().NoError(err)

	deposits, err := s.service.ListDeposits(context.Background(), s.savings.AccountID, "alice")
	s.Require().NoError(err)
	s.Require().Len(deposits, 2)
	s.Equal("second", deposits[0].Description)
	s.Equal("first", deposits[1].Description)
}

func TestDepositServiceTestSuite(t *testing.T) {
	suite.Run(t, new(DepositServiceTestSuite))
}
