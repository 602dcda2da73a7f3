package design

// Shape is a built-in vector primitive drawn in a 100x100 view box
type Shape struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	ViewBox string `json:"viewBox"`
	Path    string `json:"path"`
}

const shapeViewBox = "0 0 100 100"

var shapeLibrary = []Shape{
	{ID: "square", Label: "Square", Path: "M 0 0 L 100 0 L 100 100 L 0 100 Z"},
	{ID: "circle", Label: "Circle", Path: "M 50 0 A 50 50 0 1 1 50 100 A 50 50 0 1 1 50 0 Z"},
	{ID: "triangle", Label: "Triangle", Path: "M 50 0 L 100 100 L 0 100 Z"},
	{ID: "star", Label: "Star", Path: "M 50 0 L 61 35 L 98 35 L 68 57 L 79 91 L 50 70 L 21 91 L 32 57 L 2 35 L 39 35 Z"},
	{ID: "heart", Label: "Heart", Path: "M 50 88.9 L 42.7 82.2 C 16.8 58.7 0 43.3 0 24.5 C 0 9 12.1 -3.1 27.5 -3.1 C 36.2 -3.1 44.5 7.1 50 13.5 C 55.5 7.1 63.8 -3.1 72.5 -3.1 C 87.9 -3.1 100 9 100 24.5 C 100 43.3 83.2 58.7 57.3 82.2 L 50 88.9 Z"},
	{ID: "pentagon", Label: "Pentagon", Path: "M 50 0 L 98 35 L 79 91 L 21 91 L 2 35 Z"},
	{ID: "hexagon", Label: "Hexagon", Path: "M 50 0 L 93 25 L 93 75 L 50 100 L 7 75 L 7 25 Z"},
	{ID: "octagon", Label: "Octagon", Path: "M 30 0 L 70 0 L 100 30 L 100 70 L 70 100 L 30 100 L 0 70 L 0 30 Z"},
	{ID: "arrow-right", Label: "Arrow", Path: "M 0 35 L 60 35 L 60 10 L 100 50 L 60 90 L 60 65 L 0 65 Z"},
	{ID: "shield", Label: "Shield", Path: "M 50 0 L 95 15 L 95 50 C 95 75 50 100 50 100 C 50 100 5 75 5 50 L 5 15 Z"},
	{ID: "burst", Label: "Burst", Path: "M 50 0 L 60 20 L 80 15 L 75 35 L 95 45 L 75 60 L 85 80 L 65 75 L 50 95 L 35 75 L 15 80 L 25 60 L 5 45 L 25 35 L 20 15 L 40 20 Z"},
	{ID: "bubble", Label: "Bubble", Path: "M 10 10 L 90 10 L 90 70 L 60 70 L 40 90 L 40 70 L 10 70 Z"},
	{ID: "diamond", Label: "Diamond", Path: "M 50 0 L 100 50 L 50 100 L 0 50 Z"},
	{ID: "cross", Label: "Cross", Path: "M 35 0 L 65 0 L 65 35 L 100 35 L 100 65 L 65 65 L 65 100 L 35 100 L 35 65 L 0 65 L 0 35 L 35 35 Z"},
}

func init() {
	for i := range shapeLibrary {
		shapeLibrary[i].ViewBox = shapeViewBox
	}
}

// Shapes returns the built-in shape library in display order
func Shapes() []Shape {
	out := make([]Shape, len(shapeLibrary))
	copy(out, shapeLibrary)
	return out
}

// ShapeByID looks up a built-in shape
func ShapeByID(id string) (Shape, bool) {
	for _, s := range shapeLibrary {
		if s.ID == id {
			return s, true
		}
	}
	return Shape{}, false
}
