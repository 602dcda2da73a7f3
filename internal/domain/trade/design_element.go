package trade

import (
	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/design"
)

// DesignElement is one element of an item's design as printed: kind-specific
// fields flattened to columns and absolute geometry in view units.
type DesignElement struct {
	ID            uuid.UUID
	OrderItemID   uuid.UUID
	ProductViewID string
	ElementType   design.Kind
	Content       string
	FontFamily    string
	FontSize      float64
	Color         string
	Width         float64
	Height        float64
	PositionX     float64
	PositionY     float64
	Rotation      float64
	ScaleX        float64
	ScaleY        float64
	// Source is the image origin for image elements
	Source     design.ImageOrigin
	Attributes *design.ElementAttributes
	// SortOrder is the element's z-order within its view across the item
	SortOrder int
}

// NewDesignElement flattens a normalized submission element drawn on viewID.
// content overrides the submitted content, which is how stored upload paths are bound.
func NewDesignElement(viewID string, se design.SubmissionElement, content string) DesignElement {
	var attrs *design.ElementAttributes
	if se.Attributes != nil {
		a := *se.Attributes
		attrs = &a
	}
	return DesignElement{
		ID:            uuid.New(),
		ProductViewID: viewID,
		ElementType:   se.Type,
		Content:       content,
		FontFamily:    se.FontFamily,
		FontSize:      se.FontSize,
		Color:         se.Color,
		Width:         se.Width,
		Height:        se.Height,
		PositionX:     se.X,
		PositionY:     se.Y,
		Rotation:      se.Rotation,
		ScaleX:        se.ScaleX,
		ScaleY:        se.ScaleY,
		Source:        se.Source,
		Attributes:    attrs,
	}
}

// IsUpload reports whether the element's content is a stored customer upload
func (e DesignElement) IsUpload() bool {
	return e.ElementType == design.KindImage && e.Source == design.OriginUpload
}
