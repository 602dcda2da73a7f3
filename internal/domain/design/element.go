package design

import (
	"fmt"

	"github.com/google/uuid"
)

// Kind tags which payload an Element carries
type Kind string

const (
	KindText  Kind = "text"
	KindImage Kind = "image"
	KindShape Kind = "shape"
)

// IsValid returns true if the kind is one of the known element kinds
func (k Kind) IsValid() bool {
	switch k {
	case KindText, KindImage, KindShape:
		return true
	default:
		return false
	}
}

// Transform places an element inside its view's print area.
// Translate is the top-left anchor, rotation is clockwise degrees and scale
// multiplies width and height. Composition order is translate, rotate, scale.
type Transform struct {
	TranslateX float64 `json:"translateX"`
	TranslateY float64 `json:"translateY"`
	Rotation   float64 `json:"rotation"`
	ScaleX     float64 `json:"scaleX"`
	ScaleY     float64 `json:"scaleY"`
}

// At returns an unrotated, unscaled transform anchored at (x, y)
func At(x, y float64) Transform {
	return Transform{TranslateX: x, TranslateY: y, ScaleX: 1, ScaleY: 1}
}

// Outline is a text stroke
type Outline struct {
	Width float64 `json:"width"`
	Color string  `json:"color"`
}

// Shadow is a text drop shadow
type Shadow struct {
	Blur    float64 `json:"blur"`
	OffsetX float64 `json:"offsetX"`
	OffsetY float64 `json:"offsetY"`
	Color   string  `json:"color"`
}

// TextStyle is the payload of a text element
type TextStyle struct {
	Content       string   `json:"content"`
	FontFamily    string   `json:"fontFamily"`
	FontSize      float64  `json:"fontSize"`
	Color         string   `json:"color"`
	FontWeight    string   `json:"fontWeight,omitempty"`
	FontStyle     string   `json:"fontStyle,omitempty"`
	TextAlign     string   `json:"textAlign,omitempty"`
	LetterSpacing float64  `json:"letterSpacing"`
	LineHeight    float64  `json:"lineHeight"`
	Outline       *Outline `json:"outline,omitempty"`
	Shadow        *Shadow  `json:"shadow,omitempty"`
}

// ImageOrigin records where an image element's pixels came from
type ImageOrigin string

const (
	OriginUpload  ImageOrigin = "upload"
	OriginLibrary ImageOrigin = "library"
)

// IsValid returns true for known origins
func (o ImageOrigin) IsValid() bool {
	return o == OriginUpload || o == OriginLibrary
}

// ImageSource is the payload of an image element.
// Src is either an inline data URI awaiting upload or an already hosted URL.
type ImageSource struct {
	Src    string      `json:"src"`
	Origin ImageOrigin `json:"origin"`
	// AssetToken names the uploaded file that carries this element's pixels
	AssetToken string `json:"assetToken,omitempty"`
}

// PendingUpload reports whether the image still needs a stored file at checkout
func (s ImageSource) PendingUpload() bool {
	return s.Origin == OriginUpload
}

// ShapePath is the payload of a shape element: a built-in shape or an arbitrary SVG path
type ShapePath struct {
	ShapeID string `json:"shapeId,omitempty"`
	Path    string `json:"path"`
	ViewBox string `json:"viewBox"`
	Fill    string `json:"fill"`
}

// Element is one design primitive. Exactly one of Text, Image or Shape is set
// and it must match Kind. Z-order is the element's position within its View.
type Element struct {
	ID        string       `json:"id"`
	Kind      Kind         `json:"kind"`
	Width     float64      `json:"width"`
	Height    float64      `json:"height"`
	Transform Transform    `json:"transform"`
	Locked    bool         `json:"locked"`
	Hidden    bool         `json:"hidden"`
	Text      *TextStyle   `json:"text,omitempty"`
	Image     *ImageSource `json:"image,omitempty"`
	Shape     *ShapePath   `json:"shape,omitempty"`
}

// NewElementID returns a fresh opaque element identifier
func NewElementID() string {
	return uuid.NewString()
}

// Validate checks the tag and payload agree
func (e *Element) Validate() error {
	if e.ID == "" {
		return fmt.Errorf("%w: element id is required", ErrInvalidElement)
	}
	if !e.Kind.IsValid() {
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidElement, e.Kind)
	}
	if e.Width < 0 || e.Height < 0 {
		return fmt.Errorf("%w: negative size on %s", ErrInvalidElement, e.ID)
	}

	set := 0
	if e.Text != nil {
		set++
	}
	if e.Image != nil {
		set++
	}
	if e.Shape != nil {
		set++
	}
	if set != 1 {
		return fmt.Errorf("%w: element %s must carry exactly one payload", ErrInvalidElement, e.ID)
	}

	switch e.Kind {
	case KindText:
		if e.Text == nil {
			return fmt.Errorf("%w: text element %s has no text payload", ErrInvalidElement, e.ID)
		}
	case KindImage:
		if e.Image == nil {
			return fmt.Errorf("%w: image element %s has no image payload", ErrInvalidElement, e.ID)
		}
		if !e.Image.Origin.IsValid() {
			return fmt.Errorf("%w: image element %s has unknown origin %q", ErrInvalidElement, e.ID, e.Image.Origin)
		}
	case KindShape:
		if e.Shape == nil {
			return fmt.Errorf("%w: shape element %s has no shape payload", ErrInvalidElement, e.ID)
		}
	}
	return nil
}

// IsUploadImage reports whether the element is an image whose pixels come from a customer upload
func (e *Element) IsUploadImage() bool {
	return e.Kind == KindImage && e.Image != nil && e.Image.PendingUpload()
}

// Clone returns a deep copy that shares no pointers with e
func (e Element) Clone() Element {
	out := e
	if e.Text != nil {
		t := *e.Text
		if e.Text.Outline != nil {
			o := *e.Text.Outline
			t.Outline = &o
		}
		if e.Text.Shadow != nil {
			s := *e.Text.Shadow
			t.Shadow = &s
		}
		out.Text = &t
	}
	if e.Image != nil {
		i := *e.Image
		out.Image = &i
	}
	if e.Shape != nil {
		s := *e.Shape
		out.Shape = &s
	}
	return out
}
