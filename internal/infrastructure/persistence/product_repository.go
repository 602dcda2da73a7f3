package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormProductRepository implements ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// withChildren preloads views, variants and tiers in display order
func withChildren(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Views", func(db *gorm.DB) *gorm.DB {
			return db.Order("is_default DESC, sort_order ASC")
		}).
		Preload("Variants", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		Preload("Tiers", func(db *gorm.DB) *gorm.DB {
			return db.Order("min_quantity ASC")
		})
}

// FindByID finds a product by its ID, returning ErrProductNotFound if absent
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	return r.findOne(r.db.WithContext(ctx).Where("id = ?", id))
}

// FindActiveByID finds a product that is visible on the storefront
func (r *GormProductRepository) FindActiveByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	return r.findOne(r.db.WithContext(ctx).Where("id = ? AND is_active = ?", id, true))
}

func (r *GormProductRepository) findOne(query *gorm.DB) (*catalog.Product, error) {
	var model models.ProductModel
	if err := query.Scopes(withChildren).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, catalog.ErrProductNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll lists products newest first
func (r *GormProductRepository) FindAll(ctx context.Context, filter catalog.ProductListFilter) ([]catalog.Product, error) {
	query := r.db.WithContext(ctx).Model(&models.ProductModel{})
	if filter.ActiveOnly {
		query = query.Where("products.is_active = ?", true)
	}
	if filter.CategorySlug != "" {
		query = query.
			Joins("JOIN categories ON categories.id = products.category_id").
			Where("categories.slug = ?", filter.CategorySlug)
	}

	var rows []models.ProductModel
	if err := query.Scopes(withChildren).
		Order("products.created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	products := make([]catalog.Product, len(rows))
	for i := range rows {
		products[i] = *rows[i].ToDomain()
	}
	return products, nil
}

// ExistsBySlug checks whether any product already uses slug
func (r *GormProductRepository) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.ProductModel{}).
		Where("slug = ?", slug).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a product. Children are replaced as a set.
func (r *GormProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	model := models.ProductModelFromDomain(product)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(model).Error; err != nil {
			return err
		}
		if err := deleteProductChildren(tx, product.ID); err != nil {
			return err
		}
		if len(model.Views) > 0 {
			if err := tx.Create(&model.Views).Error; err != nil {
				return err
			}
		}
		if len(model.Variants) > 0 {
			if err := tx.Create(&model.Variants).Error; err != nil {
				return err
			}
		}
		if len(model.Tiers) > 0 {
			if err := tx.Create(&model.Tiers).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// IsReferenced reports whether any order item references the product
func (r *GormProductRepository) IsReferenced(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.OrderItemModel{}).
		Where("product_id = ?", id).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Delete removes views, variants and tiers, then the product, atomically
func (r *GormProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deleteProductChildren(tx, id); err != nil {
			return err
		}
		result := tx.Delete(&models.ProductModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return catalog.ErrProductNotFound
		}
		return nil
	})
}

func deleteProductChildren(tx *gorm.DB, productID uuid.UUID) error {
	for _, child := range []any{&models.PriceTierModel{}, &models.ProductVariantModel{}, &models.ProductViewModel{}} {
		if err := tx.Where("product_id = ?", productID).Delete(child).Error; err != nil {
			return err
		}
	}
	return nil
}

// Ensure GormProductRepository implements ProductRepository
var _ catalog.ProductRepository = (*GormProductRepository)(nil)
