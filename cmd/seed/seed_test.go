package main

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/infrastructure/persistence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
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
	require.NoError(t, persistence.AutoMigrate(db))
	return db
}

func loadShippedCatalog(t *testing.T) *catalogFile {
	t.Helper()
	f, err := os.Open("../../seed/catalog.yaml")
	require.NoError(t, err)
	defer f.Close()
	parsed, err := parseCatalog(f)
	require.NoError(t, err)
	return parsed
}

func TestParseCatalog(t *testing.T) {
	parsed := loadShippedCatalog(t)
	require.Len(t, parsed.Categories, 2)

	tee := parsed.Categories[0].Products[0]
	assert.Equal(t, "classic-tee", tee.Slug)
	assert.Equal(t, "12.50", tee.BasePrice)
	require.Len(t, tee.Views, 2)
	require.NotNil(t, tee.Views[0].PrintArea)
	assert.Equal(t, 280.0, tee.Views[0].PrintArea.MMWidth)
	require.Len(t, tee.Tiers, 3)
	assert.Nil(t, tee.Tiers[2].Max)
}

func TestParseCatalog_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"unknown field", "categories:\n  - name: Tees\n    colour: red\n"},
		{"wrong type", "categories: nope\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseCatalog(strings.NewReader(tt.body))
			assert.Error(t, err)
		})
	}

	empty, err := parseCatalog(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, empty.Categories)
}

func TestBuildProduct(t *testing.T) {
	categoryID := uuid.New()

	t.Run("defaults", func(t *testing.T) {
		p, err := buildProduct(categoryID, productSeed{Name: "Mug", Slug: "mug", BasePrice: "6"})
		require.NoError(t, err)
		require.Len(t, p.Views, 1)
		assert.Equal(t, catalog.DefaultViewName, p.Views[0].Name)
		assert.True(t, p.Views[0].IsDefault)
		assert.Empty(t, p.Tiers)
	})

	tests := []struct {
		name string
		seed productSeed
	}{
		{"bad price", productSeed{Name: "Mug", Slug: "mug", BasePrice: "six"}},
		{"bad slug", productSeed{Name: "Mug", Slug: "Mug Large", BasePrice: "6"}},
		{"bad variant type", productSeed{Name: "Mug", Slug: "mug", BasePrice: "6",
			Variants: []variantSeed{{Type: "flavour", Value: "mint"}}}},
		{"overlapping tiers", productSeed{Name: "Mug", Slug: "mug", BasePrice: "6",
			Tiers: []tierSeed{{Min: 1, Max: intPtr(10)}, {Min: 5}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := buildProduct(categoryID, tt.seed)
			assert.Error(t, err)
		})
	}
}

func TestSeedCatalog_Idempotent(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	categories := persistence.NewGormCategoryRepository(db)
	products := persistence.NewGormProductRepository(db)
	parsed := loadShippedCatalog(t)

	res, err := seedCatalog(ctx, parsed, categories, products, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, seedResult{Categories: 2, Products: 2}, res)

	tees, err := products.FindAll(ctx, catalog.ProductListFilter{CategorySlug: "t-shirts"})
	require.NoError(t, err)
	require.Len(t, tees, 1)
	assert.Len(t, tees[0].Views, 2)
	assert.Len(t, tees[0].Variants, 6)
	assert.Len(t, tees[0].Tiers, 3)
	assert.True(t, decimal.RequireFromString("12.50").Equal(tees[0].BasePrice))

	again, err := seedCatalog(ctx, parsed, categories, products, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, seedResult{Skipped: 2}, again)
}

func TestEnsureAdmin(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	users := persistence.NewGormUserRepository(db)

	created, err := ensureAdmin(ctx, users, "Store Admin", "Admin@Example.com", "long-enough-pass", zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, identity.RoleAdmin, created.Role)
	assert.Equal(t, "admin@example.com", created.Email)

	again, err := ensureAdmin(ctx, users, "Store Admin", "admin@example.com", "", zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, created.ID, again.ID)

	customer, err := identity.NewUser("Alex", "alex@example.com", "long-enough-pass", identity.RoleCustomer)
	require.NoError(t, err)
	require.NoError(t, users.Save(ctx, customer))

	promoted, err := ensureAdmin(ctx, users, "Alex", "alex@example.com", "", zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, customer.ID, promoted.ID)

	reloaded, err := users.FindByEmail(ctx, "alex@example.com")
	require.NoError(t, err)
	assert.Equal(t, identity.RoleAdmin, reloaded.Role)
}

func intPtr(v int) *int { return &v }
