package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateIBAN(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 50; i++ {
		iban, err := GenerateIBAN()
		require.NoError(t, err)
		assert.Len(t, iban, 22)
		assert.Equal(t, "FR", iban[:2])
		for _, c := range iban[2:] {
			assert.True(t, c >= '0' && c <= '9', "unexpected character %q in %s", c, iban)
		}
		seen[iban] = struct{}{}
	}
	// 50 collisions in a 10^20 space would mean the generator is broken.
	assert.Len(t, seen, 50)
}
