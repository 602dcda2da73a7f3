package design

import "fmt"

// Canonical canvas size in design units
const (
	CanvasWidth  = 500
	CanvasHeight = 600
)

// AreaUnit says how a print area's numbers are measured
type AreaUnit string

const (
	AreaUnitPixel   AreaUnit = "px"
	AreaUnitPercent AreaUnit = "%"
)

// PrintArea is the printable rectangle of a product view.
// Element transforms are relative to its top-left corner.
type PrintArea struct {
	X        float64  `json:"x"`
	Y        float64  `json:"y"`
	Width    float64  `json:"width"`
	Height   float64  `json:"height"`
	Unit     AreaUnit `json:"unit,omitempty"`
	MMWidth  float64  `json:"mm_width,omitempty"`
	MMHeight float64  `json:"mm_height,omitempty"`
}

// DefaultPrintArea is used for views configured without one
func DefaultPrintArea() PrintArea {
	return PrintArea{X: 150, Y: 150, Width: 200, Height: 300, Unit: AreaUnitPixel, MMWidth: 200, MMHeight: 300}
}

// CanvasRect resolves the area to canvas units
func (a PrintArea) CanvasRect() (x, y, w, h float64) {
	if a.Unit == AreaUnitPercent {
		return a.X / 100 * CanvasWidth, a.Y / 100 * CanvasHeight,
			a.Width / 100 * CanvasWidth, a.Height / 100 * CanvasHeight
	}
	return a.X, a.Y, a.Width, a.Height
}

// View is the composition of one product view: an ordered element list over a print area.
// Later elements render above earlier ones.
type View struct {
	ViewID    string    `json:"viewId"`
	Name      string    `json:"name,omitempty"`
	PrintArea PrintArea `json:"printArea"`
	Elements  []Element `json:"elements"`
}

// NewView creates an empty composition for a product view
func NewView(viewID, name string, area PrintArea) View {
	return View{ViewID: viewID, Name: name, PrintArea: area, Elements: []Element{}}
}

// DefaultViewID names the view used when a product defines none
const DefaultViewID = "front"

// DefaultView is the single Front view used when a product defines none
func DefaultView() View {
	return NewView(DefaultViewID, "Front", DefaultPrintArea())
}

// Find returns the index of the element with id
func (v *View) Find(id string) (int, bool) {
	for i := range v.Elements {
		if v.Elements[i].ID == id {
			return i, true
		}
	}
	return -1, false
}

// Element returns a copy of the element with id
func (v *View) Element(id string) (Element, bool) {
	i, ok := v.Find(id)
	if !ok {
		return Element{}, false
	}
	return v.Elements[i].Clone(), true
}

// add appends e on top of the stack
func (v *View) add(e Element) error {
	if err := e.Validate(); err != nil {
		return err
	}
	if _, dup := v.Find(e.ID); dup {
		return fmt.Errorf("%w: %s", ErrDuplicateElement, e.ID)
	}
	v.Elements = append(v.Elements, e.Clone())
	return nil
}

func (v *View) update(id string, patch ElementPatch) error {
	i, ok := v.Find(id)
	if !ok {
		return fmt.Errorf("%w: %s in view %s", ErrElementNotFound, id, v.ViewID)
	}
	updated, err := patch.apply(v.Elements[i])
	if err != nil {
		return err
	}
	v.Elements[i] = updated
	return nil
}

func (v *View) remove(id string) error {
	i, ok := v.Find(id)
	if !ok {
		return fmt.Errorf("%w: %s in view %s", ErrElementNotFound, id, v.ViewID)
	}
	v.Elements = append(v.Elements[:i:i], v.Elements[i+1:]...)
	return nil
}

func (v *View) bringToFront(id string) error {
	i, ok := v.Find(id)
	if !ok {
		return fmt.Errorf("%w: %s in view %s", ErrElementNotFound, id, v.ViewID)
	}
	if i == len(v.Elements)-1 {
		return nil
	}
	e := v.Elements[i]
	v.Elements = append(append(v.Elements[:i:i], v.Elements[i+1:]...), e)
	return nil
}

// Clone returns a deep copy of the view
func (v View) Clone() View {
	out := v
	out.Elements = make([]Element, len(v.Elements))
	for i := range v.Elements {
		out.Elements[i] = v.Elements[i].Clone()
	}
	return out
}
