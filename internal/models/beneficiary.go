package models

// Beneficiary is the database representation of a beneficiary row.
type Beneficiary struct {
	BeneficiaryID string `db:"beneficiary_id"`
	UserID        string `db:"user_id"`
	Alias         string `db:"alias"`
	AccountID     string `db:"account_id"`
	AuditFields
}
