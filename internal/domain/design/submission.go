package design

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Submission is the flattened checkout form of one Document: one order line
// with per-view element lists and absolute geometry.
type Submission struct {
	ProductID   string `json:"productId" validate:"required"`
	ProductName string `json:"productName,omitempty"`
	Quantity    int    `json:"quantity" validate:"gte=0"`
	// UnitPrice is what the client displayed. The server never trusts it.
	UnitPrice      *decimal.Decimal `json:"unitPrice,omitempty"`
	VariantDetails map[string]any   `json:"variantDetails,omitempty"`
	Views          []SubmissionView `json:"views" validate:"dive"`
	// PreviewItem marks the line that should carry the composite preview
	PreviewItem bool `json:"previewItem,omitempty"`
}

// SubmissionView is one view's element list in z-order
type SubmissionView struct {
	ViewID   string              `json:"viewId" validate:"required"`
	Elements []SubmissionElement `json:"elements" validate:"dive"`
}

// SubmissionElement is an element with its transform flattened into scalars
type SubmissionElement struct {
	ID         string      `json:"id,omitempty"`
	Type       Kind        `json:"type" validate:"required,oneof=text image shape"`
	Content    string      `json:"content"`
	FontFamily string      `json:"fontFamily,omitempty"`
	FontSize   float64     `json:"fontSize,omitempty"`
	Color      string      `json:"color,omitempty"`
	Width      float64     `json:"width,omitempty"`
	Height     float64     `json:"height,omitempty"`
	X          float64     `json:"x"`
	Y          float64     `json:"y"`
	Rotation   float64     `json:"rotation"`
	ScaleX     float64     `json:"scaleX"`
	ScaleY     float64     `json:"scaleY"`
	Source     ImageOrigin `json:"source,omitempty"`
	AssetToken string      `json:"assetToken,omitempty"`
	// Transform is the legacy CSS form sent by older editors instead of X/Y/Rotation/Scale
	Transform  string             `json:"transform,omitempty"`
	Attributes *ElementAttributes `json:"attributes,omitempty"`
}

// ElementAttributes carries the kind-specific fields that have no scalar column
type ElementAttributes struct {
	FontWeight    string   `json:"fontWeight,omitempty"`
	FontStyle     string   `json:"fontStyle,omitempty"`
	TextAlign     string   `json:"textAlign,omitempty"`
	LetterSpacing float64  `json:"letterSpacing,omitempty"`
	LineHeight    float64  `json:"lineHeight,omitempty"`
	Outline       *Outline `json:"outline,omitempty"`
	Shadow        *Shadow  `json:"shadow,omitempty"`
	ShapeID       string   `json:"shapeId,omitempty"`
	ViewBox       string   `json:"viewBox,omitempty"`
	Locked        bool     `json:"locked,omitempty"`
	Hidden        bool     `json:"hidden,omitempty"`
}

// IsUploadImage reports whether this element expects an uploaded file
func (e SubmissionElement) IsUploadImage() bool {
	return e.Type == KindImage && e.Source == OriginUpload
}

// Flatten serializes the document for checkout
func (d *Document) Flatten() Submission {
	s := Submission{
		ProductID:   d.ProductID,
		ProductName: d.ProductName,
		Quantity:    d.Quantity,
		Views:       make([]SubmissionView, 0, len(d.Views)),
	}
	details := map[string]any{}
	if d.Variant.Size != "" {
		details["size"] = d.Variant.Size
	}
	if d.Variant.Color != "" {
		details["color"] = d.Variant.Color
	}
	if len(details) > 0 {
		s.VariantDetails = details
	}

	for _, v := range d.Views {
		sv := SubmissionView{ViewID: v.ViewID, Elements: make([]SubmissionElement, 0, len(v.Elements))}
		for i := range v.Elements {
			sv.Elements = append(sv.Elements, flattenElement(&v.Elements[i]))
		}
		s.Views = append(s.Views, sv)
	}
	return s
}

func flattenElement(e *Element) SubmissionElement {
	out := SubmissionElement{
		ID:       e.ID,
		Type:     e.Kind,
		Width:    e.Width,
		Height:   e.Height,
		X:        e.Transform.TranslateX,
		Y:        e.Transform.TranslateY,
		Rotation: e.Transform.Rotation,
		ScaleX:   e.Transform.ScaleX,
		ScaleY:   e.Transform.ScaleY,
	}
	attrs := ElementAttributes{Locked: e.Locked, Hidden: e.Hidden}

	switch e.Kind {
	case KindText:
		t := e.Text
		out.Content = t.Content
		out.FontFamily = t.FontFamily
		out.FontSize = t.FontSize
		out.Color = t.Color
		attrs.FontWeight = t.FontWeight
		attrs.FontStyle = t.FontStyle
		attrs.TextAlign = t.TextAlign
		attrs.LetterSpacing = t.LetterSpacing
		attrs.LineHeight = t.LineHeight
		if t.Outline != nil {
			o := *t.Outline
			attrs.Outline = &o
		}
		if t.Shadow != nil {
			sh := *t.Shadow
			attrs.Shadow = &sh
		}
	case KindImage:
		out.Source = e.Image.Origin
		out.AssetToken = e.Image.AssetToken
		// upload pixels travel as a separate file
		if !e.Image.PendingUpload() {
			out.Content = e.Image.Src
		}
	case KindShape:
		out.Content = e.Shape.Path
		out.Color = e.Shape.Fill
		attrs.ShapeID = e.Shape.ShapeID
		attrs.ViewBox = e.Shape.ViewBox
	}

	if attrs != (ElementAttributes{}) {
		out.Attributes = &attrs
	}
	return out
}

// Document rebuilds an editable document from a submission.
// Views carry no print area since that lives on the product definition.
func (s Submission) Document() (*Document, error) {
	d := &Document{
		ProductID:   s.ProductID,
		ProductName: s.ProductName,
		Quantity:    s.Quantity,
		Views:       make([]View, 0, len(s.Views)),
	}
	if size, ok := s.VariantDetails["size"].(string); ok {
		d.Variant.Size = size
	}
	if color, ok := s.VariantDetails["color"].(string); ok {
		d.Variant.Color = color
	}

	for vi, sv := range s.Views {
		v := View{ViewID: sv.ViewID, Elements: make([]Element, 0, len(sv.Elements))}
		for ei, se := range sv.Elements {
			e, err := se.element()
			if err != nil {
				return nil, fmt.Errorf("view %d element %d: %w", vi, ei, err)
			}
			v.Elements = append(v.Elements, e)
		}
		d.Views = append(d.Views, v)
	}
	if len(d.Views) > 0 {
		d.ActiveView = d.Views[0].ViewID
	}
	d.reindex()
	return d, nil
}

func (se SubmissionElement) element() (Element, error) {
	e := Element{
		ID:     se.ID,
		Kind:   se.Type,
		Width:  se.Width,
		Height: se.Height,
		Transform: Transform{
			TranslateX: se.X,
			TranslateY: se.Y,
			Rotation:   se.Rotation,
			ScaleX:     se.ScaleX,
			ScaleY:     se.ScaleY,
		},
	}
	attrs := ElementAttributes{}
	if se.Attributes != nil {
		attrs = *se.Attributes
	}
	e.Locked, e.Hidden = attrs.Locked, attrs.Hidden

	switch se.Type {
	case KindText:
		t := &TextStyle{
			Content:       se.Content,
			FontFamily:    se.FontFamily,
			FontSize:      se.FontSize,
			Color:         se.Color,
			FontWeight:    attrs.FontWeight,
			FontStyle:     attrs.FontStyle,
			TextAlign:     attrs.TextAlign,
			LetterSpacing: attrs.LetterSpacing,
			LineHeight:    attrs.LineHeight,
		}
		if attrs.Outline != nil {
			o := *attrs.Outline
			t.Outline = &o
		}
		if attrs.Shadow != nil {
			sh := *attrs.Shadow
			t.Shadow = &sh
		}
		e.Text = t
	case KindImage:
		origin := se.Source
		if origin == "" {
			origin = OriginLibrary
		}
		e.Image = &ImageSource{Src: se.Content, Origin: origin, AssetToken: se.AssetToken}
	case KindShape:
		e.Shape = &ShapePath{ShapeID: attrs.ShapeID, Path: se.Content, ViewBox: attrs.ViewBox, Fill: se.Color}
	default:
		return Element{}, fmt.Errorf("%w: unknown type %q", ErrInvalidElement, se.Type)
	}
	return e, nil
}

// Normalize fills geometry defaults and expands a legacy CSS transform.
// Zero scale is read as 1, and an empty image source as library.
func (se SubmissionElement) Normalize() (SubmissionElement, error) {
	out := se
	if out.Transform != "" {
		t, err := ParseTransform(out.Transform)
		if err != nil {
			return se, err
		}
		out.X, out.Y, out.Rotation = t.TranslateX, t.TranslateY, t.Rotation
		out.ScaleX, out.ScaleY = t.ScaleX, t.ScaleY
		out.Transform = ""
	}
	if out.ScaleX == 0 {
		out.ScaleX = 1
	}
	if out.ScaleY == 0 {
		out.ScaleY = 1
	}
	if out.Type == KindImage && out.Source == "" {
		out.Source = OriginLibrary
	}
	return out, nil
}

// UploadElements returns the upload-origin image elements in document order:
// views in submission order, elements bottom to top
func (s Submission) UploadElements() []SubmissionElement {
	var out []SubmissionElement
	for _, v := range s.Views {
		for _, e := range v.Elements {
			if e.IsUploadImage() {
				out = append(out, e)
			}
		}
	}
	return out
}
