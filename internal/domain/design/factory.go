package design

import "math"

// Editor defaults for newly placed elements
const (
	DefaultText       = "Double Click to Edit"
	DefaultFontFamily = "Inter"
	DefaultFontSize   = 24
	DefaultTextColor  = "#FFFFFF"
	DefaultShapeFill  = "#000000"
	LibraryShapeFill  = "#FFFFFF"
	MaxImageSize      = 200
)

// NewTextElement creates a text element with editor defaults
func NewTextElement(id string) Element {
	return Element{
		ID:        id,
		Kind:      KindText,
		Width:     250,
		Height:    40,
		Transform: At(125, 200),
		Text: &TextStyle{
			Content:       DefaultText,
			FontFamily:    DefaultFontFamily,
			FontSize:      DefaultFontSize,
			Color:         DefaultTextColor,
			FontWeight:    "600",
			FontStyle:     "normal",
			TextAlign:     "center",
			LetterSpacing: 0,
			LineHeight:    1.2,
			Outline:       &Outline{Width: 0, Color: "#000000"},
			Shadow:        &Shadow{Blur: 0, OffsetX: 2, OffsetY: 2, Color: "#000000"},
		},
	}
}

// NewShapeElement creates a built-in shape element
func NewShapeElement(id string, shape Shape) Element {
	return Element{
		ID:        id,
		Kind:      KindShape,
		Width:     100,
		Height:    100,
		Transform: At(200, 200),
		Shape: &ShapePath{
			ShapeID: shape.ID,
			Path:    shape.Path,
			ViewBox: shape.ViewBox,
			Fill:    DefaultShapeFill,
		},
	}
}

// NewPathElement creates a shape element from an arbitrary SVG path
func NewPathElement(id, path, viewBox, fill string) Element {
	if fill == "" {
		fill = LibraryShapeFill
	}
	return Element{
		ID:        id,
		Kind:      KindShape,
		Width:     100,
		Height:    100,
		Transform: At(200, 200),
		Shape:     &ShapePath{Path: path, ViewBox: viewBox, Fill: fill},
	}
}

// NewUploadImage creates an upload-origin image sized so its pixels fit a
// MaxImageSize square while keeping aspect ratio
func NewUploadImage(id, src string, pixelWidth, pixelHeight int) Element {
	w, h := FitWithin(float64(pixelWidth), float64(pixelHeight), MaxImageSize)
	return Element{
		ID:        id,
		Kind:      KindImage,
		Width:     w,
		Height:    h,
		Transform: At(150, 150),
		Image:     &ImageSource{Src: src, Origin: OriginUpload},
	}
}

// NewLibraryImage creates an image element from the hosted asset library
func NewLibraryImage(id, url string) Element {
	return Element{
		ID:        id,
		Kind:      KindImage,
		Width:     MaxImageSize,
		Height:    MaxImageSize,
		Transform: At(150, 150),
		Image:     &ImageSource{Src: url, Origin: OriginLibrary},
	}
}

// FitWithin scales (w, h) so the larger side equals max
func FitWithin(w, h, max float64) (float64, float64) {
	if w <= 0 || h <= 0 {
		return max, max
	}
	scale := math.Min(max/w, max/h)
	return w * scale, h * scale
}
