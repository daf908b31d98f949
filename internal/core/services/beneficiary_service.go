package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/plarivier/corebank/internal/apperrors"
	"github.com/plarivier/corebank/internal/core/domain"
	portsrepo "github.com/plarivier/corebank/internal/core/ports/repositories"
	portssvc "github.com/plarivier/corebank/internal/core/ports/services"
	"github.com/plarivier/corebank/internal/dto"
)

var ErrOwnAccountBeneficiary = errors.New("cannot add your own account as a beneficiary")

// beneficiaryService manages saved transfer targets.
type beneficiaryService struct {
	beneficiaryRepo portsrepo.BeneficiaryRepositoryFacade
	accountRepo     portsrepo.AccountReader
}

// NewBeneficiaryService creates a new beneficiary service.
func NewBeneficiaryService(beneficiaryRepo portsrepo.BeneficiaryRepositoryFacade, accountRepo portsrepo.AccountReader) portssvc.BeneficiarySvcFacade {
	return &beneficiaryService{
		beneficiaryRepo: beneficiaryRepo,
		accountRepo:     accountRepo,
	}
}

// Ensure beneficiaryService implements the portssvc.BeneficiarySvcFacade interface
var _ portssvc.BeneficiarySvcFacade = (*beneficiaryService)(nil)

func (s *beneficiaryService) AddBeneficiary(ctx context.Context, req dto.CreateBeneficiaryRequest, userID string) (*domain.Beneficiary, error) {
	account, err := s.accountRepo.FindAccountByIBAN(ctx, req.IBAN)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("no account with IBAN %s: %w", req.IBAN, apperrors.ErrNotFound)
		}
		return nil, err
	}
	if account.UserID == userID {
		return nil, fmt.Errorf("%w: %w", ErrOwnAccountBeneficiary, apperrors.ErrValidation)
	}

	now := time.Now()
	beneficiary := domain.Beneficiary{
		BeneficiaryID: uuid.NewString(),
		UserID:        userID,
		Alias:         req.Alias,
		AccountID:     account.AccountID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	if err := s.beneficiaryRepo.SaveBeneficiary(ctx, beneficiary); err != nil {
		return nil, err
	}
	return &beneficiary, nil
}

func (s *beneficiaryService) ListBeneficiaries(ctx context.Context, userID string) ([]domain.Beneficiary, error) {
	return s.beneficiaryRepo.ListBeneficiariesByUserID(ctx, userID)
}
