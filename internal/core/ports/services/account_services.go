package services

import (
	"context"

	"github.com/plarivier/corebank/internal/core/domain"
	"github.com/plarivier/corebank/internal/dto"
)

// AccountReaderSvc defines read operations for account data
type AccountReaderSvc interface {
	// GetAccountByID retrieves an account owned by the requesting user.
	GetAccountByID(ctx context.Context, accountID string, requestingUserID string) (*domain.Account, error)

	// GetAccountByIBAN retrieves an account by IBAN regardless of owner
	// (transfer addressing).
	GetAccountByIBAN(ctx context.Context, iban string) (*domain.Account, error)

	// GetPrimaryAccount retrieves the user's primary account.
	GetPrimaryAccount(ctx context.Context, userID string) (*domain.Account, error)

	// ListAccounts retrieves all accounts of the requesting user.
	ListAccounts(ctx context.Context, userID string) ([]domain.Account, error)
}

// AccountWriterSvc defines write operations for account data
type AccountWriterSvc interface {
	// CreateAccount opens a new non-primary account for the user.
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest, userID string) (*domain.Account, error)

	// CreatePrimaryAccount opens the user's primary account. Called once at
	// registration; fails with apperrors.ErrDuplicate if one already exists.
	CreatePrimaryAccount(ctx context.Context, userID string) (*domain.Account, error)
}

// AccountSvcFacade combines all account-related service interfaces
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
}
