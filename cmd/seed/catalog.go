package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/design"
	"github.com/storefront/backend/internal/domain/shared"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// catalogFile is the YAML layout read by the seeder
type catalogFile struct {
	Categories []categorySeed `yaml:"categories"`
}

type categorySeed struct {
	Name        string        `yaml:"name"`
	Slug        string        `yaml:"slug"`
	Description string        `yaml:"description"`
	ImageURL    string        `yaml:"image_url"`
	SortOrder   int           `yaml:"sort_order"`
	Products    []productSeed `yaml:"products"`
}

type productSeed struct {
	Name        string        `yaml:"name"`
	Slug        string        `yaml:"slug"`
	Description string        `yaml:"description"`
	BasePrice   string        `yaml:"base_price"`
	ImageURL    string        `yaml:"image_url"`
	Views       []viewSeed    `yaml:"views"`
	Variants    []variantSeed `yaml:"variants"`
	Tiers       []tierSeed    `yaml:"tiers"`
}

type viewSeed struct {
	Name      string            `yaml:"name"`
	ImageURL  string            `yaml:"image_url"`
	PrintArea *areaSeed `yaml:"print_area"`
}

type areaSeed struct {
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	Width    float64 `yaml:"width"`
	Height   float64 `yaml:"height"`
	Unit     string  `yaml:"unit"`
	MMWidth  float64 `yaml:"mm_width"`
	MMHeight float64 `yaml:"mm_height"`
}

func (a areaSeed) printArea() design.PrintArea {
	return design.PrintArea{
		X:        a.X,
		Y:        a.Y,
		Width:    a.Width,
		Height:   a.Height,
		Unit:     design.AreaUnit(a.Unit),
		MMWidth:  a.MMWidth,
		MMHeight: a.MMHeight,
	}
}

type variantSeed struct {
	Type     string `yaml:"type"`
	Value    string `yaml:"value"`
	Modifier string `yaml:"modifier"`
}

type tierSeed struct {
	Min      int    `yaml:"min"`
	Max      *int   `yaml:"max"`
	Discount string `yaml:"discount"`
}

func parseCatalog(r io.Reader) (*catalogFile, error) {
	var f catalogFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return &f, nil
		}
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return &f, nil
}

// buildProduct turns a seed entry into a validated aggregate
func buildProduct(categoryID uuid.UUID, p productSeed) (*catalog.Product, error) {
	price, err := decimalOrZero(p.BasePrice)
	if err != nil {
		return nil, fmt.Errorf("product %q base_price: %w", p.Slug, err)
	}
	product, err := catalog.NewProduct(categoryID, p.Name, p.Slug, price)
	if err != nil {
		return nil, fmt.Errorf("product %q: %w", p.Slug, err)
	}
	product.Description = p.Description
	product.ImageURL = p.ImageURL

	for _, v := range p.Views {
		area := design.DefaultPrintArea()
		if v.PrintArea != nil {
			area = v.PrintArea.printArea()
		}
		product.AddView(v.Name, v.ImageURL, area)
	}
	product.EnsureDefaultView()

	for _, v := range p.Variants {
		modifier, err := decimalOrZero(v.Modifier)
		if err != nil {
			return nil, fmt.Errorf("product %q variant %s=%s: %w", p.Slug, v.Type, v.Value, err)
		}
		if _, err := product.AddVariant(catalog.VariantType(v.Type), v.Value, modifier); err != nil {
			return nil, fmt.Errorf("product %q variant %s=%s: %w", p.Slug, v.Type, v.Value, err)
		}
	}

	if len(p.Tiers) > 0 {
		tiers := make(catalog.PriceTierSet, 0, len(p.Tiers))
		for _, t := range p.Tiers {
			discount, err := decimalOrZero(t.Discount)
			if err != nil {
				return nil, fmt.Errorf("product %q tier %d: %w", p.Slug, t.Min, err)
			}
			tiers = append(tiers, catalog.NewPriceTier(t.Min, t.Max, discount))
		}
		if err := product.SetTiers(tiers); err != nil {
			return nil, fmt.Errorf("product %q tiers: %w", p.Slug, err)
		}
	}
	return product, nil
}

func decimalOrZero(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}

// seedResult counts what a run created
type seedResult struct {
	Categories int
	Products   int
	Skipped    int
}

// seedCatalog creates missing categories and products. Existing slugs are left alone,
// so reruns are safe.
func seedCatalog(
	ctx context.Context,
	f *catalogFile,
	categories catalog.CategoryRepository,
	products catalog.ProductRepository,
	log *zap.Logger,
) (seedResult, error) {
	var res seedResult
	for _, cs := range f.Categories {
		category, err := categories.FindBySlug(ctx, cs.Slug)
		switch {
		case errors.Is(err, shared.ErrNotFound):
			category, err = catalog.NewCategory(cs.Name, cs.Slug)
			if err != nil {
				return res, fmt.Errorf("category %q: %w", cs.Slug, err)
			}
			category.Description = cs.Description
			category.ImageURL = cs.ImageURL
			category.SortOrder = cs.SortOrder
			if err := categories.Save(ctx, category); err != nil {
				return res, fmt.Errorf("save category %q: %w", cs.Slug, err)
			}
			res.Categories++
			log.Info("Category created", zap.String("slug", cs.Slug))
		case err != nil:
			return res, fmt.Errorf("find category %q: %w", cs.Slug, err)
		}

		for _, ps := range cs.Products {
			exists, err := products.ExistsBySlug(ctx, ps.Slug)
			if err != nil {
				return res, fmt.Errorf("check product %q: %w", ps.Slug, err)
			}
			if exists {
				res.Skipped++
				log.Debug("Product exists, skipping", zap.String("slug", ps.Slug))
				continue
			}
			product, err := buildProduct(category.ID, ps)
			if err != nil {
				return res, err
			}
			if err := products.Save(ctx, product); err != nil {
				return res, fmt.Errorf("save product %q: %w", ps.Slug, err)
			}
			res.Products++
			log.Info("Product created",
				zap.String("slug", ps.Slug),
				zap.Int("views", len(product.Views)),
				zap.Int("variants", len(product.Variants)),
				zap.Int("tiers", len(product.Tiers)),
			)
		}
	}
	return res, nil
}
