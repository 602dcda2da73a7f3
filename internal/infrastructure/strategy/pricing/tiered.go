package pricing

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared/strategy"
)

// TieredPricingStrategy implements quantity-based tiered discounts.
// The unit price is base price plus selected variant modifiers; the first tier
// (by ascending MinQuantity) whose range contains the quantity supplies the discount.
type TieredPricingStrategy struct {
	strategy.Named
}

// NewTieredPricingStrategy creates a new tiered pricing strategy
func NewTieredPricingStrategy() *TieredPricingStrategy {
	return &TieredPricingStrategy{
		Named: strategy.NewNamed("tiered", "Base price plus variant modifiers with quantity tier discounts"),
	}
}

// CalculatePrice prices pricingCtx.Quantity units.
// The discounted unit price is rounded to strategy.UnitPriceScale places once;
// TotalPrice is exactly that UnitPrice × Quantity.
func (s *TieredPricingStrategy) CalculatePrice(
	ctx context.Context,
	pricingCtx strategy.PricingContext,
) (strategy.PricingResult, error) {
	if pricingCtx.Quantity <= 0 {
		return strategy.PricingResult{}, fmt.Errorf("quantity must be positive, got %d", pricingCtx.Quantity)
	}

	listUnit := pricingCtx.BasePrice
	for _, m := range pricingCtx.Modifiers {
		listUnit = listUnit.Add(m)
	}

	tiers := sortTiers(pricingCtx.Tiers)
	appliedRules := []string{}
	discountPercent := decimal.Zero

	var applied *strategy.QuantityTier
	for i := range tiers {
		if tiers[i].Contains(pricingCtx.Quantity) {
			t := tiers[i]
			applied = &t
			discountPercent = t.DiscountPercent
			appliedRules = append(appliedRules, "tiered_pricing")
			break
		}
	}

	var next *strategy.QuantityTier
	for i := range tiers {
		if tiers[i].MinQuantity > pricingCtx.Quantity {
			t := tiers[i]
			next = &t
			break
		}
	}

	qty := decimal.NewFromInt(int64(pricingCtx.Quantity))
	factor := decimal.NewFromInt(1).Sub(discountPercent.Shift(-2))
	unitPrice := listUnit.Mul(factor).Round(strategy.UnitPriceScale)
	totalPrice := unitPrice.Mul(qty)

	return strategy.PricingResult{
		ListUnitPrice:   listUnit,
		UnitPrice:       unitPrice,
		TotalPrice:      totalPrice,
		DiscountAmount:  listUnit.Mul(qty).Sub(totalPrice),
		DiscountPercent: discountPercent,
		AppliedTier:     applied,
		NextTier:        next,
		Currency:        pricingCtx.Currency,
		AppliedRules:    appliedRules,
	}, nil
}

// SupportsTieredPricing returns true as this is a tiered pricing strategy
func (s *TieredPricingStrategy) SupportsTieredPricing() bool {
	return true
}

// sortTiers returns a copy ordered by MinQuantity. The sort is stable so
// tiers sharing a minimum keep their configured order.
func sortTiers(tiers []strategy.QuantityTier) []strategy.QuantityTier {
	sorted := make([]strategy.QuantityTier, len(tiers))
	copy(sorted, tiers)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].MinQuantity < sorted[j].MinQuantity
	})
	return sorted
}

var _ strategy.PricingStrategy = (*TieredPricingStrategy)(nil)
