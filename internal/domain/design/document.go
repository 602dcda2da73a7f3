package design

import (
	"encoding/json"
	"fmt"
)

// VariantSelection is the customer's chosen size and color
type VariantSelection struct {
	Size  string `json:"size,omitempty"`
	Color string `json:"color,omitempty"`
}

// Preview references a rasterized composite of the active view. It is informational only.
type Preview struct {
	ViewID string `json:"viewId"`
	Ref    string `json:"ref"`
}

// Document is the multi-view design for one order line.
// Element ids are unique across all views.
type Document struct {
	ProductID   string           `json:"productId"`
	ProductName string           `json:"productName,omitempty"`
	Views       []View           `json:"views"`
	ActiveView  string           `json:"activeView,omitempty"`
	Variant     VariantSelection `json:"variant"`
	Quantity    int              `json:"quantity"`
	Preview     *Preview         `json:"preview,omitempty"`

	owners map[string]string // element id -> view id
}

// NewDocument creates an empty design over the given product views, quantity 1
func NewDocument(productID, productName string, views []View) *Document {
	d := &Document{
		ProductID:   productID,
		ProductName: productName,
		Views:       make([]View, 0, len(views)),
		Quantity:    1,
	}
	for _, v := range views {
		nv := NewView(v.ViewID, v.Name, v.PrintArea)
		d.Views = append(d.Views, nv)
	}
	if len(d.Views) > 0 {
		d.ActiveView = d.Views[0].ViewID
	}
	d.reindex()
	return d
}

func (d *Document) reindex() {
	d.owners = make(map[string]string)
	for _, v := range d.Views {
		for _, e := range v.Elements {
			d.owners[e.ID] = v.ViewID
		}
	}
}

func (d *Document) view(viewID string) (*View, error) {
	for i := range d.Views {
		if d.Views[i].ViewID == viewID {
			return &d.Views[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrViewNotFound, viewID)
}

// View returns a copy of the composition for viewID
func (d *Document) View(viewID string) (View, bool) {
	v, err := d.view(viewID)
	if err != nil {
		return View{}, false
	}
	return v.Clone(), true
}

// AddElement places e on top of viewID's stack
func (d *Document) AddElement(viewID string, e Element) error {
	v, err := d.view(viewID)
	if err != nil {
		return err
	}
	if d.owners == nil {
		d.reindex()
	}
	if owner, taken := d.owners[e.ID]; taken {
		return fmt.Errorf("%w: %s already in view %s", ErrDuplicateElement, e.ID, owner)
	}
	if err := v.add(e); err != nil {
		return err
	}
	d.owners[e.ID] = viewID
	return nil
}

// UpdateElement applies patch to element id in viewID.
// An element living in another view is reported as not found.
func (d *Document) UpdateElement(viewID, id string, patch ElementPatch) error {
	v, err := d.view(viewID)
	if err != nil {
		return err
	}
	return v.update(id, patch)
}

// RemoveElement deletes element id from viewID
func (d *Document) RemoveElement(viewID, id string) error {
	v, err := d.view(viewID)
	if err != nil {
		return err
	}
	if err := v.remove(id); err != nil {
		return err
	}
	if d.owners != nil {
		delete(d.owners, id)
	}
	return nil
}

// BringToFront moves element id to the top of viewID's stack
func (d *Document) BringToFront(viewID, id string) error {
	v, err := d.view(viewID)
	if err != nil {
		return err
	}
	return v.bringToFront(id)
}

// SelectVariant sets the chosen size and color
func (d *Document) SelectVariant(sel VariantSelection) {
	d.Variant = sel
}

// SetQuantity sets the line quantity
func (d *Document) SetQuantity(q int) error {
	if q < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidQuantity, q)
	}
	d.Quantity = q
	return nil
}

// SetActiveView switches the view the editor is working on
func (d *Document) SetActiveView(viewID string) error {
	if _, err := d.view(viewID); err != nil {
		return err
	}
	d.ActiveView = viewID
	return nil
}

// SetPreview records the composite snapshot of the active view
func (d *Document) SetPreview(ref string) {
	if ref == "" {
		d.Preview = nil
		return
	}
	d.Preview = &Preview{ViewID: d.ActiveView, Ref: ref}
}

// ElementCount returns the number of elements across all views
func (d *Document) ElementCount() int {
	n := 0
	for _, v := range d.Views {
		n += len(v.Elements)
	}
	return n
}

// Clone returns a deep copy of the document
func (d *Document) Clone() *Document {
	out := *d
	out.Views = make([]View, len(d.Views))
	for i := range d.Views {
		out.Views[i] = d.Views[i].Clone()
	}
	if d.Preview != nil {
		p := *d.Preview
		out.Preview = &p
	}
	out.reindex()
	return &out
}

// Validate checks every element and the cross-view id invariant
func (d *Document) Validate() error {
	if d.Quantity < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidQuantity, d.Quantity)
	}
	seen := make(map[string]string)
	for _, v := range d.Views {
		for i := range v.Elements {
			e := &v.Elements[i]
			if err := e.Validate(); err != nil {
				return err
			}
			if owner, dup := seen[e.ID]; dup {
				return fmt.Errorf("%w: %s in views %s and %s", ErrDuplicateElement, e.ID, owner, v.ViewID)
			}
			seen[e.ID] = v.ViewID
		}
	}
	return nil
}

// UnmarshalJSON decodes a document and rebuilds its element index
func (d *Document) UnmarshalJSON(data []byte) error {
	type plain Document
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*d = Document(p)
	d.reindex()
	return nil
}
