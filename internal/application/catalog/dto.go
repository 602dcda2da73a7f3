package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/design"
	"github.com/storefront/backend/internal/domain/shared/strategy"
)

// CategoryResponse represents a category in API responses
type CategoryResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`
}

// PrintAreaDTO is a view's printable rectangle
type PrintAreaDTO struct {
	X        float64 `json:"x" binding:"gte=0"`
	Y        float64 `json:"y" binding:"gte=0"`
	Width    float64 `json:"width" binding:"gt=0"`
	Height   float64 `json:"height" binding:"gt=0"`
	Unit     string  `json:"unit,omitempty" binding:"omitempty,oneof=px %"`
	MMWidth  float64 `json:"mm_width,omitempty"`
	MMHeight float64 `json:"mm_height,omitempty"`
}

// ViewRequest describes a mockup view on product creation
type ViewRequest struct {
	Name      string        `json:"name" binding:"required,max=50"`
	ImageURL  string        `json:"image_url"`
	PrintArea *PrintAreaDTO `json:"print_area"`
}

// VariantRequest describes a variant value on product creation
type VariantRequest struct {
	Type          string           `json:"type" binding:"required,oneof=size color quantity"`
	Value         string           `json:"value" binding:"required,max=50"`
	PriceModifier *decimal.Decimal `json:"priceModifier"`
}

// PriceTierRequest describes a quantity tier on product creation
type PriceTierRequest struct {
	MinQuantity     int             `json:"minQuantity" binding:"required,gte=1"`
	MaxQuantity     *int            `json:"maxQuantity"`
	DiscountPercent decimal.Decimal `json:"discountPercent"`
}

// CreateProductRequest represents a request to create a new product
type CreateProductRequest struct {
	CategoryID  uuid.UUID          `json:"categoryId" binding:"required"`
	Name        string             `json:"name" binding:"required,min=1,max=200"`
	Slug        string             `json:"slug" binding:"required,max=200,slug"`
	Description string             `json:"description" binding:"max=5000"`
	BasePrice   *decimal.Decimal   `json:"basePrice" binding:"required"`
	ImageURL    string             `json:"imageUrl"`
	Views       []ViewRequest      `json:"views" binding:"dive"`
	Variants    []VariantRequest   `json:"variants" binding:"dive"`
	PriceTiers  []PriceTierRequest `json:"priceTiers" binding:"dive"`
}

// UpdateProductRequest edits a product. A nil Views, Variants or PriceTiers keeps
// the current set; a present (even empty) list replaces it.
type UpdateProductRequest struct {
	CategoryID  uuid.UUID          `json:"categoryId" binding:"required"`
	Name        string             `json:"name" binding:"required,min=1,max=200"`
	Slug        string             `json:"slug" binding:"required,max=200,slug"`
	Description string             `json:"description" binding:"max=5000"`
	BasePrice   *decimal.Decimal   `json:"basePrice" binding:"required"`
	ImageURL    string             `json:"imageUrl"`
	IsActive    *bool              `json:"isActive"`
	Views       []ViewRequest      `json:"views" binding:"omitempty,dive"`
	Variants    []VariantRequest   `json:"variants" binding:"omitempty,dive"`
	PriceTiers  []PriceTierRequest `json:"priceTiers" binding:"omitempty,dive"`
}

// ProductViewResponse represents a mockup view in API responses
type ProductViewResponse struct {
	ID        uuid.UUID    `json:"id"`
	Name      string       `json:"name"`
	ImageURL  string       `json:"image_url"`
	IsDefault bool         `json:"is_default"`
	PrintArea PrintAreaDTO `json:"print_area"`
}

// VariantResponse represents a variant value in API responses
type VariantResponse struct {
	ID            uuid.UUID       `json:"id"`
	VariantType   string          `json:"variant_type"`
	VariantValue  string          `json:"variant_value"`
	PriceModifier decimal.Decimal `json:"price_modifier"`
	IsAvailable   bool            `json:"is_available"`
}

// PriceTierResponse represents a quantity tier in API responses
type PriceTierResponse struct {
	MinQuantity     int             `json:"min_quantity"`
	MaxQuantity     *int            `json:"max_quantity"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
}

// ProductListItemResponse is a product card on the storefront
type ProductListItemResponse struct {
	ID           uuid.UUID             `json:"id"`
	CategoryID   uuid.UUID             `json:"category_id"`
	CategoryName string                `json:"category_name,omitempty"`
	Name         string                `json:"name"`
	Slug         string                `json:"slug"`
	Description  string                `json:"description"`
	BasePrice    decimal.Decimal       `json:"base_price"`
	ImageURL     string                `json:"image_url"`
	IsActive     bool                  `json:"is_active"`
	Views        []ProductViewResponse `json:"views"`
	CreatedAt    time.Time             `json:"created_at"`
}

// ProductResponse is the full product used by the editor
type ProductResponse struct {
	ProductListItemResponse
	Sizes      []VariantResponse   `json:"sizes"`
	Colors     []VariantResponse   `json:"colors"`
	Quantities []VariantResponse   `json:"quantities"`
	PriceTiers []PriceTierResponse `json:"price_tiers"`
}

// QuoteRequest asks for a price preview
type QuoteRequest struct {
	Size     string `json:"size" form:"size"`
	Color    string `json:"color" form:"color"`
	Quantity int    `json:"quantity" form:"quantity" binding:"required,gte=1"`
}

// QuoteResponse is the price panel shown in the editor
type QuoteResponse struct {
	ProductID         uuid.UUID          `json:"product_id"`
	Quantity          int                `json:"quantity"`
	OriginalUnitPrice decimal.Decimal    `json:"original_unit_price"`
	UnitPrice         decimal.Decimal    `json:"unit_price"`
	DiscountPercent   decimal.Decimal    `json:"discount_percent"`
	Total             decimal.Decimal    `json:"total"`
	Savings           decimal.Decimal    `json:"savings"`
	Currency          string             `json:"currency"`
	NextTier          *PriceTierResponse `json:"next_tier"`
}

// ToCategoryResponse converts a domain category
func ToCategoryResponse(c *catalog.Category) CategoryResponse {
	return CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Slug:        c.Slug,
		Description: c.Description,
		ImageURL:    c.ImageURL,
	}
}

func toPrintAreaDTO(a design.PrintArea) PrintAreaDTO {
	return PrintAreaDTO{
		X:        a.X,
		Y:        a.Y,
		Width:    a.Width,
		Height:   a.Height,
		Unit:     string(a.Unit),
		MMWidth:  a.MMWidth,
		MMHeight: a.MMHeight,
	}
}

func (d *PrintAreaDTO) toDomain() design.PrintArea {
	if d == nil {
		return design.DefaultPrintArea()
	}
	unit := design.AreaUnit(d.Unit)
	if unit == "" {
		unit = design.AreaUnitPixel
	}
	return design.PrintArea{
		X:        d.X,
		Y:        d.Y,
		Width:    d.Width,
		Height:   d.Height,
		Unit:     unit,
		MMWidth:  d.MMWidth,
		MMHeight: d.MMHeight,
	}
}

// ToProductListItemResponse converts a product for listings
func ToProductListItemResponse(p *catalog.Product) ProductListItemResponse {
	views := make([]ProductViewResponse, 0, len(p.Views))
	for _, v := range p.SortedViews() {
		views = append(views, ProductViewResponse{
			ID:        v.ID,
			Name:      v.Name,
			ImageURL:  v.ImageURL,
			IsDefault: v.IsDefault,
			PrintArea: toPrintAreaDTO(v.PrintArea),
		})
	}
	return ProductListItemResponse{
		ID:          p.ID,
		CategoryID:  p.CategoryID,
		Name:        p.Name,
		Slug:        p.Slug,
		Description: p.Description,
		BasePrice:   p.BasePrice,
		ImageURL:    p.ImageURL,
		IsActive:    p.IsActive,
		Views:       views,
		CreatedAt:   p.CreatedAt,
	}
}

func toVariantResponses(vs []catalog.Variant) []VariantResponse {
	out := make([]VariantResponse, 0, len(vs))
	for _, v := range vs {
		out = append(out, VariantResponse{
			ID:            v.ID,
			VariantType:   string(v.Type),
			VariantValue:  v.Value,
			PriceModifier: v.PriceModifier,
			IsAvailable:   v.IsAvailable,
		})
	}
	return out
}

// ToProductResponse converts a product with variants grouped by dimension and tiers ascending
func ToProductResponse(p *catalog.Product) ProductResponse {
	tiers := make([]PriceTierResponse, 0, len(p.Tiers))
	for _, t := range p.Tiers.Sorted() {
		tiers = append(tiers, PriceTierResponse{
			MinQuantity:     t.MinQuantity,
			MaxQuantity:     t.MaxQuantity,
			DiscountPercent: t.DiscountPercent,
		})
	}
	return ProductResponse{
		ProductListItemResponse: ToProductListItemResponse(p),
		Sizes:                   toVariantResponses(p.VariantsOf(catalog.VariantTypeSize)),
		Colors:                  toVariantResponses(p.VariantsOf(catalog.VariantTypeColor)),
		Quantities:              toVariantResponses(p.VariantsOf(catalog.VariantTypeQuantity)),
		PriceTiers:              tiers,
	}
}

// ToQuoteResponse converts a pricing result
func ToQuoteResponse(productID uuid.UUID, quantity int, r strategy.PricingResult) QuoteResponse {
	resp := QuoteResponse{
		ProductID:         productID,
		Quantity:          quantity,
		OriginalUnitPrice: r.ListUnitPrice,
		UnitPrice:         r.UnitPrice,
		DiscountPercent:   r.DiscountPercent,
		Total:             r.TotalPrice,
		Savings:           r.DiscountAmount,
		Currency:          r.Currency,
	}
	if r.NextTier != nil {
		resp.NextTier = &PriceTierResponse{
			MinQuantity:     r.NextTier.MinQuantity,
			MaxQuantity:     r.NextTier.MaxQuantity,
			DiscountPercent: r.NextTier.DiscountPercent,
		}
	}
	return resp
}
