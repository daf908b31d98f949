package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/plarivier/corebank/internal/core/domain"
)

// CreateDepositRequest defines the data needed to credit an account.
// Amount validity (positive, two fraction digits) is checked by the engine.
type CreateDepositRequest struct {
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Description string          `json:"description"`
}

// DepositResponse defines the data returned for a deposit.
type DepositResponse struct {
	DepositID   string          `json:"depositID"`
	AccountID   string          `json:"accountID"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// ToDepositResponse converts a domain.Deposit to DepositResponse DTO
func ToDepositResponse(dep *domain.Deposit) DepositResponse {
	return DepositResponse{
		DepositID:   dep.DepositID,
		AccountID:   dep.AccountID,
		Amount:      dep.Amount,
		Description: dep.Description,
		CreatedAt:   dep.CreatedAt,
	}
}

// ToListDepositResponse converts a slice of domain.Deposit to DepositResponse DTOs
func ToListDepositResponse(deposits []domain.Deposit) []DepositResponse {
	res := make([]DepositResponse, len(deposits))
	for i, dep := range deposits {
		res[i] = ToDepositResponse(&dep)
	}
	return res
}
