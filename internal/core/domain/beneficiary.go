package domain

// Beneficiary is a saved association from a user to another user's account,
// used to simplify future transfers. It has no balance effect.
type Beneficiary struct {
	BeneficiaryID string `json:"beneficiaryID"` // Primary Key (UUID)
	UserID        string `json:"userID"`        // Owner of the alias
	Alias         string `json:"alias"`
	AccountID     string `json:"accountID"` // Target account (another user's)
	AuditFields
}
