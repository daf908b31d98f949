package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/plarivier/corebank/internal/core/domain"
)

// CreateAccountRequest defines the data needed to open a new account.
// The IBAN is generated internally; the balance starts at zero.
type CreateAccountRequest struct {
	Name     string `json:"name" binding:"required"`
	Category string `json:"category"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID string          `json:"accountID"`
	Name      string          `json:"name"`
	Category  string          `json:"category"`
	Balance   decimal.Decimal `json:"balance"`
	IBAN      string          `json:"iban"`
	IsPrimary bool            `json:"isPrimary"`
	CreatedAt time.Time       `json:"createdAt"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID: acc.AccountID,
		Name:      acc.Name,
		Category:  acc.Category,
		Balance:   acc.Balance,
		IBAN:      acc.IBAN,
		IsPrimary: acc.IsPrimary,
		CreatedAt: acc.CreatedAt,
	}
}

// ToListAccountResponse converts a slice of domain.Account to AccountResponse DTOs
func ToListAccountResponse(accounts []domain.Account) []AccountResponse {
	res := make([]AccountResponse, len(accounts))
	for i, acc := range accounts {
		res[i] = ToAccountResponse(&acc)
	}
	return res
}
