package service

import (
	"errors"

	"github.com/oakmart/oakmart-backend/internal/app/model"
	"github.com/shopspring/decimal"
)

var ErrNoMatchingPrice = errors.New("no price tier matches the requested quantity")

// ResolveTierPrice picks the unit price for a quantity from a product's
// quantity-break tiers. The tier with the greatest minimum quantity that is
// still <= the requested quantity wins, so larger quantities can only reach
// deeper discounts. A product whose tiers all start above the requested
// quantity has no price for it, which is a policy error on the price data,
// not a server fault.
func ResolveTierPrice(tiers []model.PriceTier, quantity int) (decimal.Decimal, error) {
	if quantity < 1 {
		return decimal.Zero, ErrNoMatchingPrice
	}

	var selected *model.PriceTier
	for i := range tiers {
		tier := &tiers[i]
		if tier.MinQuantity > quantity {
			continue
		}
		if selected == nil || tier.MinQuantity > selected.MinQuantity {
			selected = tier
		}
	}
	if selected == nil {
		return decimal.Zero, ErrNoMatchingPrice
	}
	return selected.UnitPrice, nil
}
