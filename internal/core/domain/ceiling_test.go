package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestOverflowAmount(t *testing.T) {
	ceiling := decimal.NewFromInt(50000)

	tests := []struct {
		name      string
		balance   int64
		credit    int64
		isPrimary bool
		expected  int64
	}{
		{"no overflow well under ceiling", 1000, 2000, false, 0},
		{"exactly at ceiling", 48000, 2000, false, 0},
		{"one unit over ceiling", 48000, 2001, false, 1},
		{"classic split", 49000, 2000, false, 1000},
		{"credit alone exceeds ceiling", 0, 60000, false, 10000},
		{"primary account exempt", 49000, 2000, true, 0},
		{"primary far above ceiling still exempt", 200000, 100000, true, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			acc := Account{
				Balance:   decimal.NewFromInt(tc.balance),
				IsPrimary: tc.isPrimary,
			}
			got := OverflowAmount(acc, decimal.NewFromInt(tc.credit), ceiling)
			assert.True(t, got.Equal(decimal.NewFromInt(tc.expected)),
				"expected %d, got %s", tc.expected, got.String())
		})
	}
}

func TestOverflowAmountFractional(t *testing.T) {
	ceiling := decimal.NewFromInt(50000)
	acc := Account{Balance: decimal.RequireFromString("49999.50")}

	got := OverflowAmount(acc, decimal.RequireFromString("0.75"), ceiling)
	assert.True(t, got.Equal(decimal.RequireFromString("0.25")), "got %s", got.String())
}
