package services_test

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/plarivier/corebank/internal/apperrors"
	"github.com/plarivier/corebank/internal/core/domain"
	portssvc "github.com/plarivier/corebank/internal/core/ports/services"
	"github.com/plarivier/corebank/internal/core/services"
	"github.com/plarivier/corebank/internal/dto"
)

type AccountServiceTestSuite struct {
	suite.Suite
	store   *fakeAccountStore
	service portssvc.AccountSvcFacade
}

func (s *AccountServiceTestSuite) SetupTest() {
	s.store = newFakeAccountStore()
	s.service = services.NewAccountService(s.store)
}

func (s *AccountServiceTestSuite) TestCreateAccount() {
	account, err := s.service.CreateAccount(context.Background(), dto.CreateAccountRequest{
		Name:     "Holiday fund",
		Category: "savings",
	}, "alice")
	s.Require().NoError(err)

	s.NotEmpty(account.AccountID)
	s.Equal("alice", account.UserID)
	s.Equal("Holiday fund", account.Name)
	s.Equal("savings", account.Category)
	s.False(account.IsPrimary)
	s.True(account.Balance.IsZero())
	s.True(strings.HasPrefix(account.IBAN, "FR"))
	s.Len(account.IBAN, 22)
}

func (s *AccountServiceTestSuite) TestCreateAccount_DefaultCategory() {
	account, err := s.service.CreateAccount(context.Background(), dto.CreateAccountRequest{Name: "Plain"}, "alice")
	s.Require().NoError(err)
	s.Equal("current", account.Category)
}

func (s *AccountServiceTestSuite) TestCreatePrimaryAccount() {
	account, err := s.service.CreatePrimaryAccount(context.Background(), "alice")
	s.Require().NoError(err)
	s.True(account.IsPrimary)
	s.Equal(services.PrimaryAccountName, account.Name)

	// A second primary for the same user is refused.
	_, err = s.service.CreatePrimaryAccount(context.Background(), "alice")
	s.Require().ErrorIs(err, apperrors.ErrDuplicate)
}

func (s *AccountServiceTestSuite) TestGetAccountByID_OwnershipEnforced() {
	account := domain.Account{
		AccountID: uuid.NewString(),
		UserID:    "alice",
		Balance:   decimal.NewFromInt(10),
		IBAN:      "FR30000000000000000001",
	}
	s.Require().NoError(s.store.SaveAccount(context.Background(), account))

	got, err := s.service.GetAccountByID(context.Background(), account.AccountID, "alice")
	s.Require().NoError(err)
	s.Equal(account.AccountID, got.AccountID)

	_, err = s.service.GetAccountByID(context.Background(), account.AccountID, "bob")
	s.Require().ErrorIs(err, apperrors.ErrForbidden)
}

func (s *AccountServiceTestSuite) TestGetAccountByIBAN_AnyOwner() {
	account := domain.Account{
		AccountID: uuid.NewString(),
		UserID:    "alice",
		IBAN:      "FR30000000000000000002",
	}
	s.Require().NoError(s.store.SaveAccount(context.Background(), account))

	// Transfer addressing works across users, so no ownership check here.
	got, err := s.service.GetAccountByIBAN(context.Background(), account.IBAN)
	s.Require().NoError(err)
	s.Equal(account.AccountID, got.AccountID)
}

func (s *AccountServiceTestSuite) TestListAccounts() {
	_, err := s.service.CreatePrimaryAccount(context.Background(), "alice")
	s.Require().NoError(err)
	_, err = s.service.CreateAccount(context.Background(), dto.CreateAccountRequest{Name: "Extra"}, "alice")
	s.Require().NoError(err)
	_, err = s.service.CreatePrimaryAccount(context.Background(), "bob")
	s.Require().NoError(err)

	accounts, err := s.service.ListAccounts(context.Background(), "alice")
	s.Require().NoError(err)
	s.Len(accounts, 2)
}

func TestAccountServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}
