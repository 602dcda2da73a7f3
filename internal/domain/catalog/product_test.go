package catalog

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/design"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(i int) *int { return &i }

func newTestProduct(t *testing.T) *Product {
	t.Helper()
	p, err := NewProduct(uuid.New(), "Classic Tee", "classic-tee", decimal.NewFromInt(10))
	require.NoError(t, err)
	return p
}

func TestNewProduct(t *testing.T) {
	categoryID := uuid.New()

	t.Run("creates active product", func(t *testing.T) {
		p, err := NewProduct(categoryID, "Classic Tee", "classic-tee", decimal.RequireFromString("12.50"))
		require.NoError(t, err)

		assert.Equal(t, categoryID, p.CategoryID)
		assert.True(t, p.IsActive)
		assert.True(t, p.BasePrice.Equal(decimal.RequireFromString("12.5")))
		assert.Equal(t, 1, p.GetVersion())
		assert.Empty(t, p.Views)
	})

	t.Run("publishes ProductCreated event", func(t *testing.T) {
		p, err := NewProduct(categoryID, "Mug", "mug", decimal.NewFromInt(8))
		require.NoError(t, err)

		events := p.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeProductCreated, events[0].EventType())
		ev, ok := events[0].(*ProductCreatedEvent)
		require.True(t, ok)
		assert.Equal(t, p.ID, ev.ProductID)
		assert.Equal(t, "mug", ev.Slug)
	})

	t.Run("validation", func(t *testing.T) {
		tests := []struct {
			name     string
			category uuid.UUID
			title    string
			slug     string
			price    decimal.Decimal
			contains string
		}{
			{"missing category", uuid.Nil, "Tee", "tee", decimal.NewFromInt(1), "Category is required"},
			{"empty name", categoryID, "", "tee", decimal.NewFromInt(1), "name cannot be empty"},
			{"bad slug", categoryID, "Tee", "Tee Shirt", decimal.NewFromInt(1), "Slug"},
			{"negative price", categoryID, "Tee", "tee", decimal.NewFromInt(-1), "cannot be negative"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := NewProduct(tt.category, tt.title, tt.slug, tt.price)
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.contains)
			})
		}
	})
}

func TestProduct_Views(t *testing.T) {
	t.Run("default view is added when none exist", func(t *testing.T) {
		p := newTestProduct(t)
		p.EnsureDefaultView()

		require.Len(t, p.Views, 1)
		assert.Equal(t, "Front", p.Views[0].Name)
		assert.True(t, p.Views[0].IsDefault)
		assert.Equal(t, design.DefaultPrintArea(), p.Views[0].PrintArea)

		p.EnsureDefaultView()
		assert.Len(t, p.Views, 1)
	})

	t.Run("default view sorts first", func(t *testing.T) {
		p := newTestProduct(t)
		p.AddView("Back", "", design.DefaultPrintArea())
		p.AddView("Front", "", design.DefaultPrintArea())
		p.AddView("Sleeve", "", design.DefaultPrintArea())

		var names []string
		for _, v := range p.SortedViews() {
			names = append(names, v.Name)
		}
		assert.Equal(t, []string{"Front", "Back", "Sleeve"}, names)
		assert.Equal(t, "Back", p.Views[0].Name, "stored order is untouched")
	})

	t.Run("new design opens on product views", func(t *testing.T) {
		p := newTestProduct(t)
		front := p.AddView("Front", "", design.DefaultPrintArea())

		doc := p.NewDesign()
		assert.Equal(t, p.ID.String(), doc.ProductID)
		require.Len(t, doc.Views, 1)
		assert.Equal(t, front.ID.String(), doc.Views[0].ViewID)
		assert.True(t, p.HasView(front.ID.String()))
		assert.False(t, p.HasView("front"))
	})

	t.Run("design on a product without views uses default view", func(t *testing.T) {
		p := newTestProduct(t)
		doc := p.NewDesign()
		require.Len(t, doc.Views, 1)
		assert.Equal(t, design.DefaultViewID, doc.ActiveView)
	})
}

func TestProduct_Variants(t *testing.T) {
	p := newTestProduct(t)
	_, err := p.AddVariant(VariantTypeSize, "S", decimal.Zero)
	require.NoError(t, err)
	_, err = p.AddVariant(VariantTypeSize, "XL", decimal.RequireFromString("2.50"))
	require.NoError(t, err)
	_, err = p.AddVariant(VariantTypeColor, "Black", decimal.RequireFromString("1"))
	require.NoError(t, err)

	t.Run("rejects duplicates and unknown types", func(t *testing.T) {
		_, err := p.AddVariant(VariantTypeSize, "S", decimal.Zero)
		assert.Error(t, err)
		_, err = p.AddVariant("material", "Cotton", decimal.Zero)
		assert.Error(t, err)
		_, err = p.AddVariant(VariantTypeColor, " ", decimal.Zero)
		assert.Error(t, err)
	})

	t.Run("groups by dimension", func(t *testing.T) {
		assert.Len(t, p.VariantsOf(VariantTypeSize), 2)
		assert.Len(t, p.VariantsOf(VariantTypeColor), 1)
		assert.Empty(t, p.VariantsOf(VariantTypeQuantity))
	})

	t.Run("modifiers match selected values", func(t *testing.T) {
		mods := p.Modifiers(Selection{Size: "XL", Color: "Black"})
		require.Len(t, mods, 2)
		assert.True(t, mods[0].Equal(decimal.RequireFromString("2.5")))
		assert.True(t, mods[1].Equal(decimal.NewFromInt(1)))

		assert.Empty(t, p.Modifiers(Selection{Size: "XXXL"}))
		assert.Empty(t, p.Modifiers(Selection{}))
	})

	t.Run("pricing context carries sorted tiers", func(t *testing.T) {
		require.NoError(t, p.SetTiers(PriceTierSet{
			NewPriceTier(10, nil, decimal.NewFromInt(20)),
			NewPriceTier(1, intPtr(9), decimal.Zero),
		}))
		pc := p.PricingContext(Selection{Size: "XL"}, 12)
		assert.Equal(t, 12, pc.Quantity)
		assert.Equal(t, "GBP", pc.Currency)
		require.Len(t, pc.Tiers, 2)
		assert.Equal(t, 1, pc.Tiers[0].MinQuantity)
		require.Len(t, pc.Modifiers, 1)
	})
}

func TestProduct_Update(t *testing.T) {
	t.Run("replaces details and raises ProductUpdated", func(t *testing.T) {
		p := newTestProduct(t)
		p.ClearDomainEvents()
		category := uuid.New()
		version := p.GetVersion()

		err := p.Update(category, "Heavy Tee", "heavy-tee", "240gsm", "/img/heavy.png", decimal.RequireFromString("14.99"))
		require.NoError(t, err)

		assert.Equal(t, category, p.CategoryID)
		assert.Equal(t, "Heavy Tee", p.Name)
		assert.Equal(t, "heavy-tee", p.Slug)
		assert.True(t, decimal.RequireFromString("14.99").Equal(p.BasePrice))
		assert.Greater(t, p.GetVersion(), version)

		events := p.PullDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeProductUpdated, events[0].EventType())
	})

	t.Run("rejects invalid values and leaves the product untouched", func(t *testing.T) {
		p := newTestProduct(t)

		assert.Error(t, p.Update(uuid.Nil, "Tee", "tee", "", "", decimal.NewFromInt(1)))
		assert.Error(t, p.Update(p.CategoryID, " ", "tee", "", "", decimal.NewFromInt(1)))
		assert.Error(t, p.Update(p.CategoryID, "Tee", "Not A Slug", "", "", decimal.NewFromInt(1)))
		assert.Error(t, p.Update(p.CategoryID, "Tee", "tee", "", "", decimal.NewFromInt(-1)))
		assert.Equal(t, "Classic Tee", p.Name)
		assert.Equal(t, "classic-tee", p.Slug)
	})

	t.Run("children can be cleared and re-added", func(t *testing.T) {
		p := newTestProduct(t)
		p.AddView("Front", "", design.DefaultPrintArea())
		_, err := p.AddVariant(VariantTypeSize, "M", decimal.Zero)
		require.NoError(t, err)

		p.ClearViews()
		p.ClearVariants()
		assert.Empty(t, p.Views)
		assert.Empty(t, p.Variants)

		p.Deactivate()
		assert.False(t, p.IsActive)
		p.Activate()
		assert.True(t, p.IsActive)
	})
}
