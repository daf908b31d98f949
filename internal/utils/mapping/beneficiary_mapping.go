package mapping

import (
	"github.com/plarivier/corebank/internal/core/domain"
	"github.com/plarivier/corebank/internal/models"
)

// ToModelBeneficiary converts a domain Beneficiary to a model Beneficiary
func ToModelBeneficiary(d domain.Beneficiary) models.Beneficiary {
	return models.Beneficiary{
		BeneficiaryID: d.BeneficiaryID,
		UserID:        d.UserID,
		Alias:         d.Alias,
		AccountID:     d.AccountID,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainBeneficiary converts a model Beneficiary to a domain Beneficiary
func ToDomainBeneficiary(m models.Beneficiary) domain.Beneficiary {
	return domain.Beneficiary{
		BeneficiaryID: m.BeneficiaryID,
		UserID:        m.UserID,
		Alias:         m.Alias,
		AccountID:     m.AccountID,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainBeneficiarySlice converts a slice of model Beneficiaries to domain Beneficiaries
func ToDomainBeneficiarySlice(ms []models.Beneficiary) []domain.Beneficiary {
	ds := make([]domain.Beneficiary, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainBeneficiary(m)
	}
	return ds
}
