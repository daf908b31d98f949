package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const ibanDigits = 20

// GenerateIBAN returns a new account identifier of the form "FR" followed by
// twenty random digits. Uniqueness is enforced by the accounts table; callers
// retry on a duplicate-key error.
func GenerateIBAN() (string, error) {
	digits := make([]byte, ibanDigits)
	max := big.NewInt(10)
	for i := range digits {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate IBAN digit: %w", err)
		}
		digits[i] = byte('0' + n.Int64())
	}
	return "FR" + string(digits), nil
}
