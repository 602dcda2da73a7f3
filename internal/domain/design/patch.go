package design

// ElementPatch is a partial update. Nil fields are left untouched.
type ElementPatch struct {
	Width     *float64   `json:"width,omitempty"`
	Height    *float64   `json:"height,omitempty"`
	Transform *Transform `json:"transform,omitempty"`
	Locked    *bool      `json:"locked,omitempty"`
	Hidden    *bool      `json:"hidden,omitempty"`
	Text      *TextPatch `json:"text,omitempty"`
	// Src replaces an image's source
	Src *string `json:"src,omitempty"`
	// Fill recolors a shape
	Fill *string `json:"fill,omitempty"`
}

// TextPatch updates individual text style fields
type TextPatch struct {
	Content       *string  `json:"content,omitempty"`
	FontFamily    *string  `json:"fontFamily,omitempty"`
	FontSize      *float64 `json:"fontSize,omitempty"`
	Color         *string  `json:"color,omitempty"`
	FontWeight    *string  `json:"fontWeight,omitempty"`
	FontStyle     *string  `json:"fontStyle,omitempty"`
	TextAlign     *string  `json:"textAlign,omitempty"`
	LetterSpacing *float64 `json:"letterSpacing,omitempty"`
	LineHeight    *float64 `json:"lineHeight,omitempty"`
	Outline       *Outline `json:"outline,omitempty"`
	Shadow        *Shadow  `json:"shadow,omitempty"`
}

// IsEmpty reports whether the patch changes nothing
func (p ElementPatch) IsEmpty() bool {
	return p.Width == nil && p.Height == nil && p.Transform == nil &&
		p.Locked == nil && p.Hidden == nil && p.Text == nil &&
		p.Src == nil && p.Fill == nil
}

// apply returns a patched copy of e. e itself is never modified.
func (p ElementPatch) apply(e Element) (Element, error) {
	if p.IsEmpty() {
		return e, nil
	}
	if p.Text != nil && e.Kind != KindText {
		return e, ErrKindMismatch
	}
	if p.Src != nil && e.Kind != KindImage {
		return e, ErrKindMismatch
	}
	if p.Fill != nil && e.Kind != KindShape {
		return e, ErrKindMismatch
	}

	out := e.Clone()
	if p.Width != nil {
		out.Width = *p.Width
	}
	if p.Height != nil {
		out.Height = *p.Height
	}
	if p.Transform != nil {
		out.Transform = *p.Transform
	}
	if p.Locked != nil {
		out.Locked = *p.Locked
	}
	if p.Hidden != nil {
		out.Hidden = *p.Hidden
	}
	if p.Src != nil {
		out.Image.Src = *p.Src
	}
	if p.Fill != nil {
		out.Shape.Fill = *p.Fill
	}
	if p.Text != nil {
		p.Text.applyTo(out.Text)
	}
	return out, nil
}

func (p *TextPatch) applyTo(t *TextStyle) {
	if p.Content != nil {
		t.Content = *p.Content
	}
	if p.FontFamily != nil {
		t.FontFamily = *p.FontFamily
	}
	if p.FontSize != nil {
		t.FontSize = *p.FontSize
	}
	if p.Color != nil {
		t.Color = *p.Color
	}
	if p.FontWeight != nil {
		t.FontWeight = *p.FontWeight
	}
	if p.FontStyle != nil {
		t.FontStyle = *p.FontStyle
	}
	if p.TextAlign != nil {
		t.TextAlign = *p.TextAlign
	}
	if p.LetterSpacing != nil {
		t.LetterSpacing = *p.LetterSpacing
	}
	if p.LineHeight != nil {
		t.LineHeight = *p.LineHeight
	}
	if p.Outline != nil {
		o := *p.Outline
		t.Outline = &o
	}
	if p.Shadow != nil {
		s := *p.Shadow
		t.Shadow = &s
	}
}
