package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/plarivier/corebank/internal/core/domain"
)

// CreateTransactionRequest defines the data needed to initiate a transfer.
// Accounts are addressed by IBAN, as on a wire form.
type CreateTransactionRequest struct {
	SenderIBAN   string          `json:"senderIBAN" binding:"required,iban"`
	ReceiverIBAN string          `json:"receiverIBAN" binding:"required,iban"`
	Amount       decimal.Decimal `json:"amount" binding:"required"`
	Description  string          `json:"description"`
}

// TransactionResponse defines the data returned for a transaction.
type TransactionResponse struct {
	TransactionID     string                   `json:"transactionID"`
	SenderAccountID   string                   `json:"senderAccountID,omitempty"`
	ReceiverAccountID string                   `json:"receiverAccountID,omitempty"`
	Amount            decimal.Decimal          `json:"amount"`
	Description       string                   `json:"description"`
	Status            domain.TransactionStatus `json:"status"`
	CreatedAt         time.Time                `json:"createdAt"`
}

// ToTransactionResponse converts a domain.Transaction to TransactionResponse DTO
func ToTransactionResponse(txn *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID:     txn.TransactionID,
		SenderAccountID:   txn.SenderAccountID,
		ReceiverAccountID: txn.ReceiverAccountID,
		Amount:            txn.Amount,
		Description:       txn.Description,
		Status:            txn.Status,
		CreatedAt:         txn.CreatedAt,
	}
}

// ToListTransactionResponse converts a slice of domain.Transaction to TransactionResponse DTOs
func ToListTransactionResponse(txns []domain.Transaction) []TransactionResponse {
	res := make([]TransactionResponse, len(txns))
	for i, txn := range txns {
		res[i] = ToTransactionResponse(&txn)
	}
	return res
}
