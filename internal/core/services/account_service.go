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
	"github.com/plarivier/corebank/internal/dto"
	"github.com/plarivier/corebank/internal/middleware"
	"github.com/plarivier/corebank/internal/utils"
)

// PrimaryAccountName is the name given to the account opened at registration.
const PrimaryAccountName = "Current Account"

const defaultAccountCategory = "current"

// accountService provides account lifecycle operations.
type accountService struct {
	accountRepo portsrepo.AccountRepositoryFacade
}

// NewAccountService creates a new account service.
func NewAccountService(accountRepo portsrepo.AccountRepositoryFacade) portssvc.AccountSvcFacade {
	return &accountService{accountRepo: accountRepo}
}

// Ensure accountService implements the portssvc.AccountSvcFacade interface
var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func (s *accountService) createAccount(ctx context.Context, userID string, name string, category string, isPrimary bool) (*domain.Account, error) {
	now := time.Now()
	iban, err := utils.GenerateIBAN()
	if err != nil {
		return nil, fmt.Errorf("failed to generate IBAN: %w", err)
	}

	account := domain.Account{
		AccountID: uuid.NewString(),
		UserID:    userID,
		Name:      name,
		Category:  category,
		Balance:   decimal.Zero,
		IBAN:      iban,
		IsPrimary: isPrimary,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to save account: %w", err)
	}

	logger := middleware.GetLoggerFromCtx(ctx)
	logger.InfoContext(ctx, "account created",
		"account_id", account.AccountID,
		"user_id", userID,
		"is_primary", isPrimary,
	)
	return &account, nil
}

func (s *accountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, userID string) (*domain.Account, error) {
	category := req.Category
	if category == "" {
		category = defaultAccountCategory
	}
	return s.createAccount(ctx, userID, req.Name, category, false)
}

func (s *accountService) CreatePrimaryAccount(ctx context.Context, userID string) (*domain.Account, error) {
	existing, err := s.accountRepo.FindPrimaryAccountByUserID(ctx, userID)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check for existing primary account: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("user %s already has a primary account: %w", userID, apperrors.ErrDuplicate)
	}
	return s.createAccount(ctx, userID, PrimaryAccountName, defaultAccountCategory, true)
}

func (s *accountService) GetAccountByID(ctx context.Context, accountID string, requestingUserID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account.UserID != requestingUserID {
		return nil, fmt.Errorf("account %s does not belong to the requesting user: %w", accountID, apperrors.ErrForbidden)
	}
	return account, nil
}

func (s *accountService) GetAccountByIBAN(ctx context.Context, iban string) (*domain.Account, error) {
	return s.accountRepo.FindAccountByIBAN(ctx, iban)
}

func (s *accountService) GetPrimaryAccount(ctx context.Context, userID string) (*domain.Account, error) {
	return s.accountRepo.FindPrimaryAccountByUserID(ctx, userID)
}

func (s *accountService) ListAccounts(ctx context.Context, userID string) ([]domain.Account, error) {
	return s.accountRepo.ListAccountsByUserID(ctx, userID)
}
