package catalog

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/design"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/strategy"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// DefaultViewName is the product view marked default when present
const DefaultViewName = "Front"

// VariantType is a selectable dimension of a product
type VariantType string

const (
	VariantTypeSize     VariantType = "size"
	VariantTypeColor    VariantType = "color"
	VariantTypeQuantity VariantType = "quantity"
)

// IsValid returns true for the known variant dimensions
func (t VariantType) IsValid() bool {
	switch t {
	case VariantTypeSize, VariantTypeColor, VariantTypeQuantity:
		return true
	default:
		return false
	}
}

// Variant is one value of a dimension with its unit price modifier
type Variant struct {
	ID            uuid.UUID
	Type          VariantType
	Value         string
	PriceModifier decimal.Decimal
	StockQuantity int
	IsAvailable   bool
}

// ProductView is a mockup surface of the product with its printable area
type ProductView struct {
	ID        uuid.UUID
	Name      string
	ImageURL  string
	IsDefault bool
	PrintArea design.PrintArea
}

// Selection is the variant values a customer picked. Empty fields are unselected.
type Selection struct {
	Size  string
	Color string
}

// Product is a customizable catalog item.
// It is the aggregate root for its views, variants and price tiers.
type Product struct {
	shared.BaseAggregateRoot
	CategoryID  uuid.UUID
	Name        string
	Slug        string
	Description string
	BasePrice   decimal.Decimal
	ImageURL    string
	IsActive    bool
	Views       []ProductView
	Variants    []Variant
	Tiers       PriceTierSet
}

// NewProduct creates an active product with no views, variants or tiers
func NewProduct(categoryID uuid.UUID, name, slug string, basePrice decimal.Decimal) (*Product, error) {
	if categoryID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Category is required")
	}
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	if err := validateSlug(slug); err != nil {
		return nil, err
	}
	if basePrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Base price cannot be negative")
	}

	p := &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		CategoryID:        categoryID,
		Name:              name,
		Slug:              slug,
		BasePrice:         basePrice,
		IsActive:          true,
	}
	p.AddDomainEvent(NewProductCreatedEvent(p))
	return p, nil
}

// Update replaces the product's editable details. Slug uniqueness is the caller's concern.
func (p *Product) Update(categoryID uuid.UUID, name, slug, description, imageURL string, basePrice decimal.Decimal) error {
	if categoryID == uuid.Nil {
		return shared.NewDomainError("INVALID_CATEGORY", "Category is required")
	}
	if err := validateProductName(name); err != nil {
		return err
	}
	if err := validateSlug(slug); err != nil {
		return err
	}
	if basePrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Base price cannot be negative")
	}

	p.CategoryID = categoryID
	p.Name = name
	p.Slug = slug
	p.Description = description
	p.ImageURL = imageURL
	p.BasePrice = basePrice
	p.touch()
	p.AddDomainEvent(NewProductUpdatedEvent(p))
	return nil
}

// Activate shows the product on the storefront again
func (p *Product) Activate() {
	p.IsActive = true
	p.touch()
}

// ClearViews drops every view so a new set can be added
func (p *Product) ClearViews() {
	p.Views = nil
	p.touch()
}

// ClearVariants drops every variant so a new set can be added
func (p *Product) ClearVariants() {
	p.Variants = nil
	p.touch()
}

// AddView appends a mockup view. The view named Front is marked default.
func (p *Product) AddView(name, imageURL string, area design.PrintArea) ProductView {
	v := ProductView{
		ID:        uuid.New(),
		Name:      name,
		ImageURL:  imageURL,
		IsDefault: strings.EqualFold(name, DefaultViewName),
		PrintArea: area,
	}
	p.Views = append(p.Views, v)
	p.touch()
	return v
}

// EnsureDefaultView adds a Front view with the standard print area when the product has none
func (p *Product) EnsureDefaultView() {
	if len(p.Views) > 0 {
		return
	}
	p.AddView(DefaultViewName, p.ImageURL, design.DefaultPrintArea())
}

// AddVariant appends an available variant value
func (p *Product) AddVariant(t VariantType, value string, modifier decimal.Decimal) (Variant, error) {
	if !t.IsValid() {
		return Variant{}, shared.NewDomainError("INVALID_VARIANT", "Unknown variant type: "+string(t))
	}
	if strings.TrimSpace(value) == "" {
		return Variant{}, shared.NewDomainError("INVALID_VARIANT", "Variant value cannot be empty")
	}
	for _, v := range p.Variants {
		if v.Type == t && v.Value == value {
			return Variant{}, shared.NewDomainError("DUPLICATE_VARIANT", "Variant already exists: "+value)
		}
	}
	v := Variant{ID: uuid.New(), Type: t, Value: value, PriceModifier: modifier, IsAvailable: true}
	p.Variants = append(p.Variants, v)
	p.touch()
	return v, nil
}

// SetTiers replaces the tier set after validating it
func (p *Product) SetTiers(tiers PriceTierSet) error {
	if err := tiers.Validate(); err != nil {
		return err
	}
	p.Tiers = tiers.Sorted()
	p.touch()
	return nil
}

// Deactivate hides the product from the storefront
func (p *Product) Deactivate() {
	p.IsActive = false
	p.touch()
}

// VariantsOf returns the available variants of one dimension in configured order
func (p *Product) VariantsOf(t VariantType) []Variant {
	var out []Variant
	for _, v := range p.Variants {
		if v.Type == t && v.IsAvailable {
			out = append(out, v)
		}
	}
	return out
}

// Modifiers returns the price modifiers of the selected values.
// A selected value the product does not offer contributes nothing.
func (p *Product) Modifiers(sel Selection) []decimal.Decimal {
	var out []decimal.Decimal
	if m, ok := p.modifierFor(VariantTypeSize, sel.Size); ok {
		out = append(out, m)
	}
	if m, ok := p.modifierFor(VariantTypeColor, sel.Color); ok {
		out = append(out, m)
	}
	return out
}

func (p *Product) modifierFor(t VariantType, value string) (decimal.Decimal, bool) {
	if value == "" {
		return decimal.Zero, false
	}
	for _, v := range p.Variants {
		if v.Type == t && v.Value == value {
			return v.PriceModifier, true
		}
	}
	return decimal.Zero, false
}

// PricingContext builds the pricing input for quantity units of sel
func (p *Product) PricingContext(sel Selection, quantity int) strategy.PricingContext {
	return strategy.PricingContext{
		ProductID: p.ID.String(),
		Quantity:  quantity,
		BasePrice: p.BasePrice,
		Modifiers: p.Modifiers(sel),
		Tiers:     p.Tiers.QuantityTiers(),
		Currency:  string(valueobject.DefaultCurrency),
	}
}

// SortedViews returns the views with the default view first, otherwise in configured order
func (p *Product) SortedViews() []ProductView {
	out := make([]ProductView, len(p.Views))
	copy(out, p.Views)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].IsDefault && !out[j].IsDefault
	})
	return out
}

// DesignViews returns the editor compositions for this product's views.
// A product without views gets the single default view.
func (p *Product) DesignViews() []design.View {
	views := p.SortedViews()
	if len(views) == 0 {
		return []design.View{design.DefaultView()}
	}
	out := make([]design.View, 0, len(views))
	for _, v := range views {
		out = append(out, design.NewView(v.ID.String(), v.Name, v.PrintArea))
	}
	return out
}

// NewDesign opens an empty design document on this product
func (p *Product) NewDesign() *design.Document {
	return design.NewDocument(p.ID.String(), p.Name, p.DesignViews())
}

// HasView reports whether viewID names one of the product's views
func (p *Product) HasView(viewID string) bool {
	for _, v := range p.Views {
		if v.ID.String() == viewID {
			return true
		}
	}
	return false
}

func (p *Product) touch() {
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

func validateProductName(name string) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	return nil
}
