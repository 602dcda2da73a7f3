package persistence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestGormCategoryRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormCategoryRepository(db)
	ctx := context.Background()

	mugs := seedCategory(t, db, "Mugs", "mugs")
	mugs.SortOrder = 2
	require.NoError(t, repo.Save(ctx, mugs))
	seedCategory(t, db, "T-Shirts", "t-shirts")
	seedCategory(t, db, "Hoodies", "hoodies")

	t.Run("FindAll orders by sort order then name", func(t *testing.T) {
		all, err := repo.FindAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, []string{"Hoodies", "T-Shirts", "Mugs"}, []string{all[0].Name, all[1].Name, all[2].Name})
	})

	t.Run("FindBySlug", func(t *testing.T) {
		c, err := repo.FindBySlug(ctx, "mugs")
		require.NoError(t, err)
		assert.Equal(t, mugs.ID, c.ID)
		assert.Equal(t, 2, c.SortOrder)
	})

	t.Run("missing category is ErrNotFound", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
		_, err = repo.FindBySlug(ctx, "caps")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormProductRepository_SaveAndFind(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()
	cat := seedCategory(t, db, "T-Shirts", "t-shirts")

	tee := newTee(t, cat.ID, "classic-tee")
	require.NoError(t, repo.Save(ctx, tee))

	got, err := repo.FindByID(ctx, tee.ID)
	require.NoError(t, err)

	assert.Equal(t, "Classic Tee", got.Name)
	assert.True(t, decimal.RequireFromString("12.50").Equal(got.BasePrice))
	assert.True(t, got.IsActive)

	t.Run("default view first", func(t *testing.T) {
		require.Len(t, got.Views, 2)
		assert.Equal(t, catalog.DefaultViewName, got.Views[0].Name)
		assert.True(t, got.Views[0].IsDefault)
		assert.Equal(t, "Back", got.Views[1].Name)
		assert.Equal(t, 200.0, got.Views[0].PrintArea.MMWidth)
	})

	t.Run("variants keep insertion order", func(t *testing.T) {
		sizes := got.VariantsOf(catalog.VariantTypeSize)
		require.Len(t, sizes, 3)
		assert.Equal(t, []string{"S", "M", "XL"}, []string{sizes[0].Value, sizes[1].Value, sizes[2].Value})
		assert.True(t, decimal.NewFromInt(2).Equal(sizes[2].PriceModifier))
		assert.True(t, sizes[0].IsAvailable)
	})

	t.Run("tiers ascend with open-ended last", func(t *testing.T) {
		require.Len(t, got.Tiers, 3)
		assert.Equal(t, 1, got.Tiers[0].MinQuantity)
		assert.Equal(t, 4, *got.Tiers[0].MaxQuantity)
		assert.Equal(t, 10, got.Tiers[2].MinQuantity)
		assert.Nil(t, got.Tiers[2].MaxQuantity)
		assert.True(t, decimal.NewFromInt(20).Equal(got.Tiers[2].DiscountPercent))
	})

	t.Run("save replaces children", func(t *testing.T) {
		require.NoError(t, got.SetTiers(catalog.PriceTierSet{catalog.NewPriceTier(1, nil, decimal.Zero)}))
		got.Deactivate()
		require.NoError(t, repo.Save(ctx, got))

		again, err := repo.FindByID(ctx, tee.ID)
		require.NoError(t, err)
		assert.Len(t, again.Tiers, 1)
		assert.Len(t, again.Views, 2)
		assert.False(t, again.IsActive)

		_, err = repo.FindActiveByID(ctx, tee.ID)
		assert.ErrorIs(t, err, catalog.ErrProductNotFound)
	})

	t.Run("missing product", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, catalog.ErrProductNotFound)
	})
}

func TestGormProductRepository_Save_FailureMidwayKeepsChildren(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()
	cat := seedCategory(t, db, "T-Shirts", "t-shirts")

	tee := newTee(t, cat.ID, "classic-tee")
	require.NoError(t, repo.Save(ctx, tee))

	edited, err := repo.FindByID(ctx, tee.ID)
	require.NoError(t, err)
	require.NoError(t, edited.Update(cat.ID, "Heavy Tee", "classic-tee", "", "", decimal.RequireFromString("20")))
	edited.ClearViews()
	edited.EnsureDefaultView()
	require.NoError(t, edited.SetTiers(catalog.PriceTierSet{catalog.NewPriceTier(1, nil, decimal.Zero)}))

	boom := errors.New("disk full")
	require.NoError(t, db.Callback().Create().Before("gorm:create").Register("test:fail_tiers", func(tx *gorm.DB) {
		if tx.Statement.Table == "price_tiers" {
			_ = tx.AddError(boom)
		}
	}))

	require.ErrorIs(t, repo.Save(ctx, edited), boom)

	got, err := repo.FindByID(ctx, tee.ID)
	require.NoError(t, err)
	assert.Equal(t, "Classic Tee", got.Name)
	assert.True(t, decimal.RequireFromString("12.50").Equal(got.BasePrice))
	assert.Len(t, got.Views, 2)
	assert.Len(t, got.VariantsOf(catalog.VariantTypeSize), 3)
	assert.Len(t, got.Tiers, 3)
}

func TestGormProductRepository_FindAll(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()
	shirts := seedCategory(t, db, "T-Shirts", "t-shirts")
	mugs := seedCategory(t, db, "Mugs", "mugs")

	older := newTee(t, shirts.ID, "older-tee")
	older.CreatedAt = time.Now().Add(-time.Hour)
	newer := newTee(t, shirts.ID, "newer-tee")
	mug := newTee(t, mugs.ID, "mug")
	hidden := newTee(t, shirts.ID, "hidden-tee")
	hidden.Deactivate()
	for _, p := range []*catalog.Product{older, newer, mug, hidden} {
		require.NoError(t, repo.Save(ctx, p))
	}

	t.Run("active only in a category, newest first", func(t *testing.T) {
		list, err := repo.FindAll(ctx, catalog.ProductListFilter{CategorySlug: "t-shirts", ActiveOnly: true})
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, newer.ID, list[0].ID)
		assert.Equal(t, older.ID, list[1].ID)
		assert.Len(t, list[0].Views, 2)
	})

	t.Run("everything", func(t *testing.T) {
		list, err := repo.FindAll(ctx, catalog.ProductListFilter{})
		require.NoError(t, err)
		assert.Len(t, list, 4)
	})

	t.Run("ExistsBySlug", func(t *testing.T) {
		exists, err := repo.ExistsBySlug(ctx, "mug")
		require.NoError(t, err)
		assert.True(t, exists)
		exists, err = repo.ExistsBySlug(ctx, "cap")
		require.NoError(t, err)
		assert.False(t, exists)
	})
}

func TestGormProductRepository_Delete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()
	cat := seedCategory(t, db, "T-Shirts", "t-shirts")

	tee := newTee(t, cat.ID, "classic-tee")
	require.NoError(t, repo.Save(ctx, tee))

	t.Run("referenced by an order item", func(t *testing.T) {
		order := models.OrderModel{OrderNumber: "UK-000001-1", CustomerName: "Alex", Status: "pending"}
		order.ID = uuid.New()
		order.CreatedAt, order.UpdatedAt = time.Now(), time.Now()
		require.NoError(t, db.Omit("Items").Create(&order).Error)

		item := models.OrderItemModel{
			ID: uuid.New(), OrderID: order.ID, ProductID: tee.ID, ProductName: "Classic Tee",
			Quantity: 1, UnitPrice: decimal.NewFromInt(1), Subtotal: decimal.NewFromInt(1), CreatedAt: time.Now(),
		}
		require.NoError(t, db.Create(&item).Error)

		referenced, err := repo.IsReferenced(ctx, tee.ID)
		require.NoError(t, err)
		assert.True(t, referenced)

		require.NoError(t, db.Delete(&item).Error)
		referenced, err = repo.IsReferenced(ctx, tee.ID)
		require.NoError(t, err)
		assert.False(t, referenced)
	})

	t.Run("removes children then product", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, tee.ID))

		for _, m := range []any{&models.ProductModel{}, &models.ProductViewModel{}, &models.ProductVariantModel{}, &models.PriceTierModel{}} {
			var count int64
			require.NoError(t, db.Model(m).Count(&count).Error)
			assert.Zero(t, count)
		}
	})

	t.Run("missing product", func(t *testing.T) {
		err := repo.Delete(ctx, uuid.New())
		assert.ErrorIs(t, err, catalog.ErrProductNotFound)
	})
}
