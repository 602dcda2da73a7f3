package catalog

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/strategy"
)

var (
	ErrInvalidTier     = shared.NewDomainError("INVALID_PRICE_TIER", "Invalid price tier")
	ErrOverlappingTier = shared.NewDomainError("OVERLAPPING_PRICE_TIER", "Price tiers must not overlap")
	ErrUnboundedTier   = shared.NewDomainError("UNBOUNDED_PRICE_TIER", "Only the last price tier may be open-ended")
)

// PriceTier is a quantity range with a discount. A nil MaxQuantity is open-ended.
type PriceTier struct {
	ID              uuid.UUID
	MinQuantity     int
	MaxQuantity     *int
	DiscountPercent decimal.Decimal
}

// NewPriceTier creates a tier with a fresh id
func NewPriceTier(minQty int, maxQty *int, discountPercent decimal.Decimal) PriceTier {
	return PriceTier{
		ID:              uuid.New(),
		MinQuantity:     minQty,
		MaxQuantity:     maxQty,
		DiscountPercent: discountPercent,
	}
}

// Contains reports whether quantity falls inside the tier
func (t PriceTier) Contains(quantity int) bool {
	return t.quantityTier().Contains(quantity)
}

func (t PriceTier) quantityTier() strategy.QuantityTier {
	return strategy.QuantityTier{
		MinQuantity:     t.MinQuantity,
		MaxQuantity:     t.MaxQuantity,
		DiscountPercent: t.DiscountPercent,
	}
}

// PriceTierSet is a product's tiers in ascending MinQuantity order
type PriceTierSet []PriceTier

// Sorted returns a copy ordered by MinQuantity
func (s PriceTierSet) Sorted() PriceTierSet {
	out := make(PriceTierSet, len(s))
	copy(out, s)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].MinQuantity < out[j].MinQuantity
	})
	return out
}

// QuantityTiers converts the set for the pricing strategy
func (s PriceTierSet) QuantityTiers() []strategy.QuantityTier {
	out := make([]strategy.QuantityTier, 0, len(s))
	for _, t := range s.Sorted() {
		out = append(out, t.quantityTier())
	}
	return out
}

// Validate checks the set is usable as configuration: each tier has a
// positive minimum, a maximum no lower than its minimum and a discount in
// [0, 100]; tiers ascend without overlap and only the last may be open-ended.
// Gaps between tiers are allowed.
func (s PriceTierSet) Validate() error {
	sorted := s.Sorted()
	for i, t := range sorted {
		if t.MinQuantity < 1 {
			return fmt.Errorf("%w: minimum quantity must be at least 1", ErrInvalidTier)
		}
		if t.MaxQuantity != nil && *t.MaxQuantity < t.MinQuantity {
			return fmt.Errorf("%w: maximum %d below minimum %d", ErrInvalidTier, *t.MaxQuantity, t.MinQuantity)
		}
		if t.DiscountPercent.IsNegative() || t.DiscountPercent.GreaterThan(decimal.NewFromInt(100)) {
			return fmt.Errorf("%w: discount %s%% outside 0-100", ErrInvalidTier, t.DiscountPercent.String())
		}
		if i == 0 {
			continue
		}
		prev := sorted[i-1]
		if prev.MaxQuantity == nil {
			return fmt.Errorf("%w: tier from %d is followed by tier from %d", ErrUnboundedTier, prev.MinQuantity, t.MinQuantity)
		}
		if t.MinQuantity <= *prev.MaxQuantity {
			return fmt.Errorf("%w: %d-%d and tier from %d", ErrOverlappingTier, prev.MinQuantity, *prev.MaxQuantity, t.MinQuantity)
		}
	}
	return nil
}
