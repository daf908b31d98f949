package mapping

import (
	"github.com/plarivier/corebank/internal/core/domain"
	"github.com/plarivier/corebank/internal/models"
)

// ToModelDeposit converts a domain Deposit to a model Deposit
func ToModelDeposit(d domain.Deposit) models.Deposit {
	return models.Deposit{
		DepositID:   d.DepositID,
		AccountID:   d.AccountID,
		Amount:      d.Amount,
		Description: d.Description,
		AuditFields: ToModelAuditFields(d.AuditFields),
		DeletedAt:   toNullTime(d.DeletedAt),
	}
}

// ToDomainDeposit converts a model Deposit to a domain Deposit
func ToDomainDeposit(m models.Deposit) domain.Deposit {
	return domain.Deposit{
		DepositID:   m.DepositID,
		AccountID:   m.AccountID,
		Amount:      m.Amount,
		Description: m.Description,
		AuditFields: ToDomainAuditFields(m.AuditFields),
		DeletedAt:   fromNullTime(m.DeletedAt),
	}
}

// ToDomainDepositSlice converts a slice of model Deposits to domain Deposits
func ToDomainDepositSlice(ms []models.Deposit) []domain.Deposit {
	ds := make([]domain.Deposit, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainDeposit(m)
	}
	return ds
}
