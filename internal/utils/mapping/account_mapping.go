package mapping

import (
	"github.com/plarivier/corebank/internal/core/domain"
	"github.com/plarivier/corebank/internal/models"
)

// ToModelAccount converts a domain Account to a model Account
func ToModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID:   d.AccountID,
		UserID:      d.UserID,
		Name:        d.Name,
		Category:    d.Category,
		Balance:     d.Balance,
		IBAN:        d.IBAN,
		IsPrimary:   d.IsPrimary,
		AuditFields: ToModelAuditFields(d.AuditFields),
		DeletedAt:   toNullTime(d.DeletedAt),
	}
}

// ToDomainAccount converts a model Account to a domain Account
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:   m.AccountID,
		UserID:      m.UserID,
		Name:        m.Name,
		Category:    m.Category,
		Balance:     m.Balance,
		IBAN:        m.IBAN,
		IsPrimary:   m.IsPrimary,
		AuditFields: ToDomainAuditFields(m.AuditFields),
		DeletedAt:   fromNullTime(m.DeletedAt),
	}
}

// ToDomainAccountSlice converts a slice of model Accounts to domain Accounts
func ToDomainAccountSlice(ms []models.Account) []domain.Account {
	ds := make([]domain.Account, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainAccount(m)
	}
	return ds
}
