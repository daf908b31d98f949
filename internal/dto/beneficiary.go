package dto

import (
	"time"

	"github.com/plarivier/corebank/internal/core/domain"
)

// CreateBeneficiaryRequest defines the data needed to save a transfer target.
type CreateBeneficiaryRequest struct {
	Alias string `json:"alias" binding:"required"`
	IBAN  string `json:"iban" binding:"required,iban"`
}

// BeneficiaryResponse defines the data returned for a beneficiary.
type BeneficiaryResponse struct {
	BeneficiaryID string    `json:"beneficiaryID"`
	Alias         string    `json:"alias"`
	AccountID     string    `json:"accountID"`
	CreatedAt     time.Time `json:"createdAt"`
}

// ToBeneficiaryResponse converts a domain.Beneficiary to BeneficiaryResponse DTO
func ToBeneficiaryResponse(b *domain.Beneficiary) BeneficiaryResponse {
	return BeneficiaryResponse{
		BeneficiaryID: b.BeneficiaryID,
		Alias:         b.Alias,
		AccountID:     b.AccountID,
		CreatedAt:     b.CreatedAt,
	}
}

// ToListBeneficiaryResponse converts a slice of domain.Beneficiary to BeneficiaryResponse DTOs
func ToListBeneficiaryResponse(bs []domain.Beneficiary) []BeneficiaryResponse {
	res := make([]BeneficiaryResponse, len(bs))
	for i, b := range bs {
		res[i] = ToBeneficiaryResponse(&b)
	}
	return res
}
