package services

import (
	"context"

	"github.com/plarivier/corebank/internal/core/domain"
	"github.com/plarivier/corebank/internal/dto"
)

// BeneficiarySvcFacade manages saved transfer targets.
type BeneficiarySvcFacade interface {
	// AddBeneficiary saves another user's account under an alias. Adding one
	// of the caller's own accounts fails with a validation error.
	AddBeneficiary(ctx context.Context, req dto.CreateBeneficiaryRequest, userID string) (*domain.Beneficiary, error)

	// ListBeneficiaries returns the caller's saved beneficiaries.
	ListBeneficiaries(ctx context.Context, userID string) ([]domain.Beneficiary, error)
}
