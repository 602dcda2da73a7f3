package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
)

// ProductService handles product-related business operations
type ProductService struct {
	productRepo    catalog.ProductRepository
	categoryRepo   catalog.CategoryRepository
	eventPublisher shared.EventPublisher
	now            func() time.Time
}

// NewProductService creates a new ProductService
func NewProductService(
	productRepo catalog.ProductRepository,
	categoryRepo catalog.CategoryRepository,
) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		now:          time.Now,
	}
}

// SetEventPublisher sets the event publisher for the service
func (s *ProductService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// List returns active products, newest first, optionally limited to one category slug
func (s *ProductService) List(ctx context.Context, categorySlug string) ([]ProductListItemResponse, error) {
	products, err := s.productRepo.FindAll(ctx, catalog.ProductListFilter{
		CategorySlug: categorySlug,
		ActiveOnly:   true,
	})
	if err != nil {
		return nil, err
	}

	names := s.categoryNames(ctx)
	out := make([]ProductListItemResponse, 0, len(products))
	for i := range products {
		item := ToProductListItemResponse(&products[i])
		item.CategoryName = names[products[i].CategoryID]
		out = append(out, item)
	}
	return out, nil
}

// categoryNames is best effort; a listing without category names is still useful
func (s *ProductService) categoryNames(ctx context.Context) map[uuid.UUID]string {
	names := map[uuid.UUID]string{}
	categories, err := s.categoryRepo.FindAll(ctx)
	if err != nil {
		return names
	}
	for _, c := range categories {
		names[c.ID] = c.Name
	}
	return names
}

// GetByID returns an active product with grouped variants and ascending tiers
func (s *ProductService) GetByID(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindActiveByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToProductResponse(product)
	return &resp, nil
}

// Create creates a new product with its views, variants and price tiers
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	if req.BasePrice == nil {
		return nil, shared.NewValidationError("basePrice is required")
	}

	if _, err := s.categoryRepo.FindByID(ctx, req.CategoryID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("INVALID_CATEGORY", "Category not found")
		}
		return nil, err
	}

	slug, err := s.uniqueSlug(ctx, req.Slug)
	if err != nil {
		return nil, err
	}

	product, err := catalog.NewProduct(req.CategoryID, req.Name, slug, *req.BasePrice)
	if err != nil {
		return nil, err
	}
	product.Description = req.Description
	product.ImageURL = req.ImageURL

	addViews(product, req.Views)
	if err := addVariants(product, req.Variants); err != nil {
		return nil, err
	}
	if err := product.SetTiers(buildTiers(req.PriceTiers)); err != nil {
		return nil, err
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	s.publish(ctx, product)

	resp := ToProductResponse(product)
	return &resp, nil
}

// Update edits a product's details and replaces the child sets the request carries.
// The tier set is validated before anything is written; the repository replaces
// views, variants and tiers in one transaction.
func (s *ProductService) Update(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	if req.BasePrice == nil {
		return nil, shared.NewValidationError("basePrice is required")
	}

	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.CategoryID != product.CategoryID {
		if _, err := s.categoryRepo.FindByID(ctx, req.CategoryID); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewDomainError("INVALID_CATEGORY", "Category not found")
			}
			return nil, err
		}
	}

	slug := product.Slug
	if req.Slug != product.Slug {
		if slug, err = s.uniqueSlug(ctx, req.Slug); err != nil {
			return nil, err
		}
	}

	if err := product.Update(req.CategoryID, req.Name, slug, req.Description, req.ImageURL, *req.BasePrice); err != nil {
		return nil, err
	}
	if req.IsActive != nil && *req.IsActive != product.IsActive {
		if *req.IsActive {
			product.Activate()
		} else {
			product.Deactivate()
		}
	}

	if req.PriceTiers != nil {
		if err := product.SetTiers(buildTiers(req.PriceTiers)); err != nil {
			return nil, err
		}
	}
	if req.Views != nil {
		product.ClearViews()
		addViews(product, req.Views)
	}
	if req.Variants != nil {
		product.ClearVariants()
		if err := addVariants(product, req.Variants); err != nil {
			return nil, err
		}
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	s.publish(ctx, product)

	resp := ToProductResponse(product)
	return &resp, nil
}

// ListAll returns every product, inactive ones included, newest first
func (s *ProductService) ListAll(ctx context.Context) ([]ProductResponse, error) {
	products, err := s.productRepo.FindAll(ctx, catalog.ProductListFilter{})
	if err != nil {
		return nil, err
	}

	names := s.categoryNames(ctx)
	out := make([]ProductResponse, 0, len(products))
	for i := range products {
		resp := ToProductResponse(&products[i])
		resp.CategoryName = names[products[i].CategoryID]
		out = append(out, resp)
	}
	return out, nil
}

// addViews appends the requested views. A product left without any gets the default Front view.
func addViews(product *catalog.Product, views []ViewRequest) {
	for _, v := range views {
		product.AddView(v.Name, v.ImageURL, v.PrintArea.toDomain())
	}
	product.EnsureDefaultView()
}

func addVariants(product *catalog.Product, variants []VariantRequest) error {
	for _, v := range variants {
		modifier := decimal.Zero
		if v.PriceModifier != nil {
			modifier = *v.PriceModifier
		}
		if _, err := product.AddVariant(catalog.VariantType(v.Type), v.Value, modifier); err != nil {
			return err
		}
	}
	return nil
}

func buildTiers(reqs []PriceTierRequest) catalog.PriceTierSet {
	tiers := make(catalog.PriceTierSet, 0, len(reqs))
	for _, t := range reqs {
		tiers = append(tiers, catalog.NewPriceTier(t.MinQuantity, t.MaxQuantity, t.DiscountPercent))
	}
	return tiers
}

// uniqueSlug appends a millisecond suffix when slug is already taken
func (s *ProductService) uniqueSlug(ctx context.Context, slug string) (string, error) {
	exists, err := s.productRepo.ExistsBySlug(ctx, slug)
	if err != nil {
		return "", err
	}
	if !exists {
		return slug, nil
	}
	return fmt.Sprintf("%s-%d", slug, s.now().UnixMilli()), nil
}

// Delete removes a product that no order item references
func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	inUse, err := s.productRepo.IsReferenced(ctx, id)
	if err != nil {
		return err
	}
	if inUse {
		return catalog.ErrProductInUse
	}

	if err := s.productRepo.Delete(ctx, id); err != nil {
		return err
	}

	product.AddDomainEvent(catalog.NewProductDeletedEvent(product))
	s.publish(ctx, product)
	return nil
}

func (s *ProductService) publish(ctx context.Context, product *catalog.Product) {
	if s.eventPublisher == nil {
		product.ClearDomainEvents()
		return
	}
	events := product.PullDomainEvents()
	if len(events) > 0 {
		// Events are notifications only; a failed publish does not undo the write
		_ = s.eventPublisher.Publish(ctx, events...)
	}
}
