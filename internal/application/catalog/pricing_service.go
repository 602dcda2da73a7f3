package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/strategy"
)

// PricingService prices a product selection for the editor's price panel.
// The order materializer uses the same strategy when it recomputes submitted prices.
type PricingService struct {
	productRepo catalog.ProductRepository
	strategy    strategy.PricingStrategy
}

// NewPricingService creates a new PricingService
func NewPricingService(productRepo catalog.ProductRepository, pricing strategy.PricingStrategy) *PricingService {
	return &PricingService{productRepo: productRepo, strategy: pricing}
}

// Quote prices quantity units of the selection on an active product
func (s *PricingService) Quote(ctx context.Context, productID uuid.UUID, req QuoteRequest) (*QuoteResponse, error) {
	if req.Quantity < 1 {
		return nil, shared.NewValidationError("quantity must be at least 1")
	}
	product, err := s.productRepo.FindActiveByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	result, err := s.Price(ctx, product, catalog.Selection{Size: req.Size, Color: req.Color}, req.Quantity)
	if err != nil {
		return nil, err
	}
	resp := ToQuoteResponse(product.ID, req.Quantity, result)
	return &resp, nil
}

// Price runs the pricing strategy over an already loaded product
func (s *PricingService) Price(
	ctx context.Context,
	product *catalog.Product,
	sel catalog.Selection,
	quantity int,
) (strategy.PricingResult, error) {
	return s.strategy.CalculatePrice(ctx, product.PricingContext(sel, quantity))
}
