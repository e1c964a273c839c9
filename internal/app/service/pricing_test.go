package service

import (
	"testing"

	"github.com/oakmart/oakmart-backend/internal/app/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quantityBreakTiers() []model.PriceTier {
	return []model.PriceTier{
		{MinQuantity: 1, UnitPrice: decimal.RequireFromString("20.00")},
		{MinQuantity: 3, UnitPrice: decimal.RequireFromString("16.00")},
		{MinQuantity: 6, UnitPrice: decimal.RequireFromString("12.00")},
	}
}

func TestResolveTierPrice(t *testing.T) {
	tests := []struct {
		name     string
		quantity int
		want     string
	}{
		{"single unit hits base tier", 1, "20.00"},
		{"below first break stays on base tier", 2, "20.00"},
		{"exactly on a break", 3, "16.00"},
		{"between breaks keeps lower break", 4, "16.00"},
		{"deepest break", 6, "12.00"},
		{"beyond deepest break", 100, "12.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			price, err := ResolveTierPrice(quantityBreakTiers(), tt.quantity)
			require.NoError(t, err)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(price),
				"want %s, got %s", tt.want, price)
		})
	}
}

func TestResolveTierPrice_NoMatch(t *testing.T) {
	// All tiers start above the requested quantity
	tiers := []model.PriceTier{
		{MinQuantity: 5, UnitPrice: decimal.RequireFromString("10.00")},
		{MinQuantity: 10, UnitPrice: decimal.RequireFromString("8.00")},
	}

	_, err := ResolveTierPrice(tiers, 4)
	assert.ErrorIs(t, err, ErrNoMatchingPrice)
}

func TestResolveTierPrice_EmptyTiers(t *testing.T) {
	_, err := ResolveTierPrice(nil, 3)
	assert.ErrorIs(t, err, ErrNoMatchingPrice)
}

func TestResolveTierPrice_NonPositiveQuantity(t *testing.T) {
	_, err := ResolveTierPrice(quantityBreakTiers(), 0)
	assert.ErrorIs(t, err, ErrNoMatchingPrice)

	_, err = ResolveTierPrice(quantityBreakTiers(), -2)
	assert.ErrorIs(t, err, ErrNoMatchingPrice)
}

func TestResolveTierPrice_UnorderedTiers(t *testing.T) {
	// Selection does not depend on slice order
	tiers := []model.PriceTier{
		{MinQuantity: 6, UnitPrice: decimal.RequireFromString("12.00")},
		{MinQuantity: 1, UnitPrice: decimal.RequireFromString("20.00")},
		{MinQuantity: 3, UnitPrice: decimal.RequireFromString("16.00")},
	}

	price, err := ResolveTierPrice(tiers, 4)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("16.00").Equal(price))
}
