package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/design"
)

// CategoryModel is the persistence model for the Category domain entity.
type CategoryModel struct {
	BaseModel
	Name        string `gorm:"type:varchar(100);not null"`
	Slug        string `gorm:"type:varchar(200);not null;uniqueIndex"`
	Description string `gorm:"type:text"`
	ImageURL    string `gorm:"type:varchar(500)"`
	SortOrder   int    `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (CategoryModel) TableName() string {
	return "categories"
}

// ToDomain converts the persistence model to a domain Category entity.
func (m *CategoryModel) ToDomain() *catalog.Category {
	return &catalog.Category{
		BaseEntity:  m.entity(),
		Name:        m.Name,
		Slug:        m.Slug,
		Description: m.Description,
		ImageURL:    m.ImageURL,
		SortOrder:   m.SortOrder,
	}
}

// CategoryModelFromDomain creates a new persistence model from a domain Category entity.
func CategoryModelFromDomain(c *catalog.Category) *CategoryModel {
	m := &CategoryModel{
		Name:        c.Name,
		Slug:        c.Slug,
		Description: c.Description,
		ImageURL:    c.ImageURL,
		SortOrder:   c.SortOrder,
	}
	m.setEntity(c.BaseEntity)
	return m
}

// ProductModel is the persistence model for the Product aggregate root.
type ProductModel struct {
	AggregateModel
	CategoryID  uuid.UUID             `gorm:"type:uuid;not null;index"`
	Name        string                `gorm:"type:varchar(200);not null"`
	Slug        string                `gorm:"type:varchar(200);not null;uniqueIndex"`
	Description string                `gorm:"type:text"`
	BasePrice   decimal.Decimal       `gorm:"type:decimal(18,4);not null;default:0"`
	ImageURL    string                `gorm:"type:varchar(500)"`
	IsActive    bool                  `gorm:"not null;index"`
	Views       []ProductViewModel    `gorm:"foreignKey:ProductID;references:ID"`
	Variants    []ProductVariantModel `gorm:"foreignKey:ProductID;references:ID"`
	Tiers       []PriceTierModel      `gorm:"foreignKey:ProductID;references:ID"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product aggregate.
// Children are only present when they were preloaded.
func (m *ProductModel) ToDomain() *catalog.Product {
	p := &catalog.Product{
		BaseAggregateRoot: m.root(),
		CategoryID:        m.CategoryID,
		Name:              m.Name,
		Slug:              m.Slug,
		Description:       m.Description,
		BasePrice:         m.BasePrice,
		ImageURL:          m.ImageURL,
		IsActive:          m.IsActive,
		Views:             make([]catalog.ProductView, len(m.Views)),
		Variants:          make([]catalog.Variant, len(m.Variants)),
		Tiers:             make(catalog.PriceTierSet, len(m.Tiers)),
	}
	for i := range m.Views {
		p.Views[i] = m.Views[i].ToDomain()
	}
	for i := range m.Variants {
		p.Variants[i] = m.Variants[i].ToDomain()
	}
	for i := range m.Tiers {
		p.Tiers[i] = m.Tiers[i].ToDomain()
	}
	return p
}

// ProductModelFromDomain creates a new persistence model, children included, from a domain Product.
func ProductModelFromDomain(p *catalog.Product) *ProductModel {
	m := &ProductModel{
		CategoryID:  p.CategoryID,
		Name:        p.Name,
		Slug:        p.Slug,
		Description: p.Description,
		BasePrice:   p.BasePrice,
		ImageURL:    p.ImageURL,
		IsActive:    p.IsActive,
		Views:       make([]ProductViewModel, len(p.Views)),
		Variants:    make([]ProductVariantModel, len(p.Variants)),
		Tiers:       make([]PriceTierModel, len(p.Tiers)),
	}
	m.setRoot(&p.BaseAggregateRoot)
	for i, v := range p.Views {
		m.Views[i] = ProductViewModelFromDomain(p.ID, v)
		m.Views[i].SortOrder = i
	}
	for i, v := range p.Variants {
		m.Variants[i] = ProductVariantModelFromDomain(p.ID, v)
		m.Variants[i].SortOrder = i
	}
	for i, t := range p.Tiers {
		m.Tiers[i] = PriceTierModelFromDomain(p.ID, t)
	}
	return m
}

// ProductViewModel is a mockup view of a product with its print area columns.
type ProductViewModel struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key"`
	ProductID       uuid.UUID `gorm:"type:uuid;not null;index"`
	ViewName        string    `gorm:"type:varchar(50);not null"`
	MockupImageURL  string    `gorm:"type:varchar(500)"`
	IsDefault       bool      `gorm:"not null;default:false"`
	PrintAreaX      float64   `gorm:"not null;default:0"`
	PrintAreaY      float64   `gorm:"not null;default:0"`
	PrintAreaWidth  float64   `gorm:"not null;default:0"`
	PrintAreaHeight float64   `gorm:"not null;default:0"`
	PrintAreaUnit   string    `gorm:"type:varchar(5);not null;default:'px'"`
	MMWidth         float64   `gorm:"column:print_area_mm_width;not null;default:0"`
	MMHeight        float64   `gorm:"column:print_area_mm_height;not null;default:0"`
	SortOrder       int       `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (ProductViewModel) TableName() string {
	return "product_views"
}

// ToDomain converts the persistence model to a domain ProductView.
func (m *ProductViewModel) ToDomain() catalog.ProductView {
	return catalog.ProductView{
		ID:        m.ID,
		Name:      m.ViewName,
		ImageURL:  m.MockupImageURL,
		IsDefault: m.IsDefault,
		PrintArea: design.PrintArea{
			X:        m.PrintAreaX,
			Y:        m.PrintAreaY,
			Width:    m.PrintAreaWidth,
			Height:   m.PrintAreaHeight,
			Unit:     design.AreaUnit(m.PrintAreaUnit),
			MMWidth:  m.MMWidth,
			MMHeight: m.MMHeight,
		},
	}
}

// ProductViewModelFromDomain creates a view row for productID
func ProductViewModelFromDomain(productID uuid.UUID, v catalog.ProductView) ProductViewModel {
	unit := string(v.PrintArea.Unit)
	if unit == "" {
		unit = string(design.AreaUnitPixel)
	}
	return ProductViewModel{
		ID:              v.ID,
		ProductID:       productID,
		ViewName:        v.Name,
		MockupImageURL:  v.ImageURL,
		IsDefault:       v.IsDefault,
		PrintAreaX:      v.PrintArea.X,
		PrintAreaY:      v.PrintArea.Y,
		PrintAreaWidth:  v.PrintArea.Width,
		PrintAreaHeight: v.PrintArea.Height,
		PrintAreaUnit:   unit,
		MMWidth:         v.PrintArea.MMWidth,
		MMHeight:        v.PrintArea.MMHeight,
	}
}

// ProductVariantModel is one selectable variant value of a product.
type ProductVariantModel struct {
	ID            uuid.UUID           `gorm:"type:uuid;primary_key"`
	ProductID     uuid.UUID           `gorm:"type:uuid;not null;index"`
	VariantType   catalog.VariantType `gorm:"type:varchar(20);not null"`
	VariantValue  string              `gorm:"type:varchar(50);not null"`
	PriceModifier decimal.Decimal     `gorm:"type:decimal(18,4);not null;default:0"`
	StockQuantity int                 `gorm:"not null;default:0"`
	IsAvailable   bool                `gorm:"not null"`
	SortOrder     int                 `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (ProductVariantModel) TableName() string {
	return "product_variants"
}

// ToDomain converts the persistence model to a domain Variant.
func (m *ProductVariantModel) ToDomain() catalog.Variant {
	return catalog.Variant{
		ID:            m.ID,
		Type:          m.VariantType,
		Value:         m.VariantValue,
		PriceModifier: m.PriceModifier,
		StockQuantity: m.StockQuantity,
		IsAvailable:   m.IsAvailable,
	}
}

// ProductVariantModelFromDomain creates a variant row for productID
func ProductVariantModelFromDomain(productID uuid.UUID, v catalog.Variant) ProductVariantModel {
	return ProductVariantModel{
		ID:            v.ID,
		ProductID:     productID,
		VariantType:   v.Type,
		VariantValue:  v.Value,
		PriceModifier: v.PriceModifier,
		StockQuantity: v.StockQuantity,
		IsAvailable:   v.IsAvailable,
	}
}

// PriceTierModel is a quantity discount tier of a product.
type PriceTierModel struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key"`
	ProductID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	MinQuantity     int             `gorm:"not null"`
	MaxQuantity     *int
	DiscountPercent decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
}

// TableName returns the table name for GORM
func (PriceTierModel) TableName() string {
	return "price_tiers"
}

// ToDomain converts the persistence model to a domain PriceTier.
func (m *PriceTierModel) ToDomain() catalog.PriceTier {
	return catalog.PriceTier{
		ID:              m.ID,
		MinQuantity:     m.MinQuantity,
		MaxQuantity:     m.MaxQuantity,
		DiscountPercent: m.DiscountPercent,
	}
}

// PriceTierModelFromDomain creates a tier row for productID
func PriceTierModelFromDomain(productID uuid.UUID, t catalog.PriceTier) PriceTierModel {
	return PriceTierModel{
		ID:              t.ID,
		ProductID:       productID,
		MinQuantity:     t.MinQuantity,
		MaxQuantity:     t.MaxQuantity,
		DiscountPercent: t.DiscountPercent,
	}
}
