package mapping

import (
	"database/sql"

	"github.com/plarivier/corebank/internal/core/domain"
	"github.com/plarivier/corebank/internal/models"
)

// ToModelTransaction converts a domain Transaction to a model Transaction
func ToModelTransaction(d domain.Transaction) models.Transaction {
	m := models.Transaction{
		TransactionID: d.TransactionID,
		Amount:        d.Amount,
		Description:   d.Description,
		Status:        string(d.Status),
		AuditFields:   ToModelAuditFields(d.AuditFields),
		DeletedAt:     toNullTime(d.DeletedAt),
	}
	if d.SenderAccountID != "" {
		m.SenderAccountID = sql.NullString{String: d.SenderAccountID, Valid: true}
	}
	if d.ReceiverAccountID != "" {
		m.ReceiverAccountID = sql.NullString{String: d.ReceiverAccountID, Valid: true}
	}
	return m
}

// ToDomainTransaction converts a model Transaction to a domain Transaction
func ToDomainTransaction(m models.Transaction) domain.Transaction {
	return domain.Transaction{
		TransactionID:     m.TransactionID,
		SenderAccountID:   m.SenderAccountID.String,
		ReceiverAccountID: m.ReceiverAccountID.String,
		Amount:            m.Amount,
		Description:       m.Description,
		Status:            domain.TransactionStatus(m.Status),
		AuditFields:       ToDomainAuditFields(m.AuditFields),
		DeletedAt:         fromNullTime(m.DeletedAt),
	}
}

// ToDomainTransactionSlice converts a slice of model Transactions to domain Transactions
func ToDomainTransactionSlice(ms []models.Transaction) []domain.Transaction {
	ds := make([]domain.Transaction, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainTransaction(m)
	}
	return ds
}
