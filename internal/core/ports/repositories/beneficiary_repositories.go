package repositories

import (
	"context"

	"github.com/plarivier/corebank/internal/core/domain"
)

// BeneficiaryRepositoryFacade persists saved transfer targets.
type BeneficiaryRepositoryFacade interface {
	// SaveBeneficiary persists a new beneficiary. The same (user, account)
	// pair fails with apperrors.ErrDuplicate.
	SaveBeneficiary(ctx context.Context, beneficiary domain.Beneficiary) error

	// ListBeneficiariesByUserID retrieves all beneficiaries saved by a user.
	ListBeneficiariesByUserID(ctx context.Context, userID string) ([]domain.Beneficiary, error)
}
