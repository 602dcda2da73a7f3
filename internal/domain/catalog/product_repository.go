package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

var (
	ErrProductNotFound = shared.NewDomainError(shared.CodeProductNotFound, "Product not found")
	ErrProductInUse    = shared.NewDomainError("PRODUCT_IN_USE", "Cannot delete a product that has orders")
)

// ProductListFilter narrows a storefront product listing
type ProductListFilter struct {
	CategorySlug string
	ActiveOnly   bool
}

// ProductRepository defines the interface for product persistence.
// Loaded products carry their views, variants and tiers.
type ProductRepository interface {
	// FindByID finds a product by its ID, returning ErrProductNotFound if absent
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindActiveByID finds a product that is visible on the storefront
	FindActiveByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindAll lists products newest first
	FindAll(ctx context.Context, filter ProductListFilter) ([]Product, error)

	// ExistsBySlug checks whether any product already uses slug
	ExistsBySlug(ctx context.Context, slug string) (bool, error)

	// Save creates or updates a product together with its children
	Save(ctx context.Context, product *Product) error

	// IsReferenced reports whether any order item references the product
	IsReferenced(ctx context.Context, id uuid.UUID) (bool, error)

	// Delete removes views, variants and tiers, then the product, atomically
	Delete(ctx context.Context, id uuid.UUID) error
}
