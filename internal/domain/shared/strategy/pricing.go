package strategy

import (
	"context"

	"github.com/shopspring/decimal"
)

// UnitPriceScale is the number of decimal places a unit price carries.
// It matches the scale of the stored money columns, so a persisted subtotal is
// never rounded again and order totals stay equal to the sum of their items.
const UnitPriceScale int32 = 4

// QuantityTier is a quantity range with a discount. A nil MaxQuantity is unbounded.
type QuantityTier struct {
	MinQuantity     int
	MaxQuantity     *int
	DiscountPercent decimal.Decimal
}

// Contains reports whether quantity falls inside the tier's range
func (t QuantityTier) Contains(quantity int) bool {
	if quantity < t.MinQuantity {
		return false
	}
	return t.MaxQuantity == nil || quantity <= *t.MaxQuantity
}

// PricingContext provides context for pricing calculation
type PricingContext struct {
	ProductID string
	Quantity  int
	BasePrice decimal.Decimal
	// Modifiers are the price modifiers of the variant values the customer selected
	Modifiers []decimal.Decimal
	Tiers     []QuantityTier
	Currency  string
}

// PricingResult contains the result of pricing calculation
type PricingResult struct {
	// ListUnitPrice is base price plus modifiers, before any tier discount
	ListUnitPrice decimal.Decimal
	// UnitPrice is the discounted per-unit price
	UnitPrice       decimal.Decimal
	TotalPrice      decimal.Decimal
	DiscountAmount  decimal.Decimal
	DiscountPercent decimal.Decimal
	AppliedTier     *QuantityTier
	NextTier        *QuantityTier
	Currency        string
	AppliedRules    []string
}

// PricingStrategy defines the interface for pricing calculation
type PricingStrategy interface {
	Strategy
	// CalculatePrice calculates the final price for a given pricing context
	CalculatePrice(ctx context.Context, pricingCtx PricingContext) (PricingResult, error)
	// SupportsTieredPricing returns true if the strategy supports quantity-based tiered pricing
	SupportsTieredPricing() bool
}
