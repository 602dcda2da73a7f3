package design

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// randomDocument builds a valid document from seed
func randomDocument(seed int64) *Document {
	r := rand.New(rand.NewSource(seed))
	views := []View{
		NewView("front", "Front", DefaultPrintArea()),
		NewView("back", "Back", DefaultPrintArea()),
		NewView("sleeve", "Sleeve", DefaultPrintArea()),
	}
	d := NewDocument(fmt.Sprintf("p-%d", r.Intn(100)), "Tee", views[:1+r.Intn(3)])
	_ = d.SetQuantity(1 + r.Intn(500))
	if r.Intn(2) == 0 {
		d.SelectVariant(VariantSelection{Size: "M", Color: "Navy"})
	}

	shapes := Shapes()
	n := r.Intn(12)
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("el-%d", i)
		var e Element
		switch r.Intn(5) {
		case 0:
			e = NewTextElement(id)
			e.Text.Content = fmt.Sprintf("line %d", r.Int())
			if r.Intn(2) == 0 {
				e.Text.Outline = nil
			}
		case 1:
			e = NewShapeElement(id, shapes[r.Intn(len(shapes))])
		case 2:
			e = NewPathElement(id, "M 0 0 L 10 10 Z", "0 0 10 10", "#00FF00")
		case 3:
			e = NewUploadImage(id, "", 100+r.Intn(900), 100+r.Intn(900))
			e.Image.AssetToken = fmt.Sprintf("tok-%d", i)
		default:
			e = NewLibraryImage(id, "https://cdn.example.com/art.png")
		}
		e.Transform = Transform{
			TranslateX: float64(r.Intn(500)) + r.Float64(),
			TranslateY: float64(r.Intn(600)),
			Rotation:   float64(r.Intn(360)),
			ScaleX:     0.25 + r.Float64()*3,
			ScaleY:     0.25 + r.Float64()*3,
		}
		e.Locked = r.Intn(4) == 0
		e.Hidden = r.Intn(6) == 0
		view := d.Views[r.Intn(len(d.Views))].ViewID
		if err := d.AddElement(view, e); err != nil {
			panic(err)
		}
	}
	return d
}

func TestSubmission_RoundTripProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("flatten then rebuild then flatten is stable", prop.ForAll(
		func(seed int64) bool {
			d := randomDocument(seed)
			first := d.Flatten()

			rebuilt, err := first.Document()
			if err != nil {
				return false
			}
			second := rebuilt.Flatten()

			a, errA := json.Marshal(first)
			b, errB := json.Marshal(second)
			return errA == nil && errB == nil && string(a) == string(b)
		},
		gen.Int64(),
	))

	properties.Property("rebuilt document keeps element order and count", prop.ForAll(
		func(seed int64) bool {
			d := randomDocument(seed)
			rebuilt, err := d.Flatten().Document()
			if err != nil || rebuilt.ElementCount() != d.ElementCount() {
				return false
			}
			for i := range d.Views {
				if len(d.Views[i].Elements) != len(rebuilt.Views[i].Elements) {
					return false
				}
				for j := range d.Views[i].Elements {
					if d.Views[i].Elements[j].ID != rebuilt.Views[i].Elements[j].ID {
						return false
					}
				}
			}
			return true
		},
		gen.Int64(),
	))

	properties.TestingRun(t)
}

func TestDocument_Flatten(t *testing.T) {
	d := newTestDocument()
	d.SelectVariant(VariantSelection{Size: "XL"})
	require.NoError(t, d.SetQuantity(3))

	up := NewUploadImage("u1", "data:image/png;base64,AAAA", 400, 400)
	require.NoError(t, d.AddElement("front", up))
	square, _ := ShapeByID("square")
	require.NoError(t, d.AddElement("back", NewShapeElement("s1", square)))

	s := d.Flatten()
	assert.Equal(t, 3, s.Quantity)
	assert.Equal(t, map[string]any{"size": "XL"}, s.VariantDetails)
	require.Len(t, s.Views, 2)

	img := s.Views[0].Elements[0]
	assert.Equal(t, KindImage, img.Type)
	assert.Equal(t, OriginUpload, img.Source)
	assert.Empty(t, img.Content, "upload pixels must not be inlined")
	assert.Nil(t, img.Attributes)

	shape := s.Views[1].Elements[0]
	assert.Equal(t, square.Path, shape.Content)
	assert.Equal(t, DefaultShapeFill, shape.Color)
	require.NotNil(t, shape.Attributes)
	assert.Equal(t, "square", shape.Attributes.ShapeID)
}

func TestSubmission_DocumentRejectsUnknownType(t *testing.T) {
	s := Submission{
		ProductID: "p",
		Views: []SubmissionView{{ViewID: "front", Elements: []SubmissionElement{
			{ID: "x", Type: "video"},
		}}},
	}
	_, err := s.Document()
	assert.ErrorIs(t, err, ErrInvalidElement)
}

func TestSubmissionElement_Normalize(t *testing.T) {
	t.Run("legacy css transform", func(t *testing.T) {
		se := SubmissionElement{Type: KindText, Transform: "translate(125px, 200px) rotate(30deg)"}
		got, err := se.Normalize()
		require.NoError(t, err)
		assert.Equal(t, 125.0, got.X)
		assert.Equal(t, 200.0, got.Y)
		assert.Equal(t, 30.0, got.Rotation)
		assert.Equal(t, 1.0, got.ScaleX)
		assert.Empty(t, got.Transform)
	})

	t.Run("defaults", func(t *testing.T) {
		got, err := SubmissionElement{Type: KindImage}.Normalize()
		require.NoError(t, err)
		assert.Equal(t, 1.0, got.ScaleX)
		assert.Equal(t, 1.0, got.ScaleY)
		assert.Equal(t, OriginLibrary, got.Source)
	})

	t.Run("bad transform", func(t *testing.T) {
		_, err := SubmissionElement{Type: KindText, Transform: "skew(10deg)"}.Normalize()
		assert.ErrorIs(t, err, ErrInvalidElement)
	})
}

func TestSubmission_UploadElements(t *testing.T) {
	s := Submission{Views: []SubmissionView{
		{ViewID: "front", Elements: []SubmissionElement{
			{ID: "a", Type: KindImage, Source: OriginUpload},
			{ID: "b", Type: KindText},
			{ID: "c", Type: KindImage, Source: OriginLibrary},
		}},
		{ViewID: "back", Elements: []SubmissionElement{
			{ID: "d", Type: KindImage, Source: OriginUpload},
		}},
	}}

	var got []string
	for _, e := range s.UploadElements() {
		got = append(got, e.ID)
	}
	assert.Equal(t, []string{"a", "d"}, got)
}
