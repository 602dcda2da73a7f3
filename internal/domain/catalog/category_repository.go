package catalog

import (
	"context"

	"github.com/google/uuid"
)

// CategoryRepository defines the interface for category persistence
type CategoryRepository interface {
	// FindAll returns every category ordered by sort order, then name
	FindAll(ctx context.Context) ([]Category, error)

	// FindByID finds a category by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Category, error)

	// FindBySlug finds a category by its slug
	FindBySlug(ctx context.Context, slug string) (*Category, error)

	// Save creates or updates a category
	Save(ctx context.Context, category *Category) error
}
