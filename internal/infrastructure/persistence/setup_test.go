package persistence

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/design"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB creates an isolated in-memory SQLite database with the full schema
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared&_foreign_keys=1"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, AutoMigrate(db))
	return db
}

func intPtr(i int) *int { return &i }

// seedCategory stores a category and returns it
func seedCategory(t *testing.T, db *gorm.DB, name, slug string) *catalog.Category {
	t.Helper()
	c, err := catalog.NewCategory(name, slug)
	require.NoError(t, err)
	require.NoError(t, NewGormCategoryRepository(db).Save(t.Context(), c))
	return c
}

// newTee builds a product with two views, sizes, a color and three tiers
func newTee(t *testing.T, categoryID uuid.UUID, slug string) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(categoryID, "Classic Tee", slug, decimal.RequireFromString("12.50"))
	require.NoError(t, err)
	p.AddView("Back", "/mockups/tee-back.png", design.DefaultPrintArea())
	p.AddView(catalog.DefaultViewName, "/mockups/tee-front.png", design.DefaultPrintArea())
	for _, v := range []struct {
		t   catalog.VariantType
		val string
		mod string
	}{
		{catalog.VariantTypeSize, "S", "0"},
		{catalog.VariantTypeSize, "M", "0"},
		{catalog.VariantTypeSize, "XL", "2"},
		{catalog.VariantTypeColor, "Black", "0"},
	} {
		_, err := p.AddVariant(v.t, v.val, decimal.RequireFromString(v.mod))
		require.NoError(t, err)
	}
	require.NoError(t, p.SetTiers(catalog.PriceTierSet{
		catalog.NewPriceTier(10, nil, decimal.NewFromInt(20)),
		catalog.NewPriceTier(1, intPtr(4), decimal.Zero),
		catalog.NewPriceTier(5, intPtr(9), decimal.NewFromInt(10)),
	}))
	return p
}
