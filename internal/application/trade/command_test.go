package trade

import (
	"encoding/json"
	"testing"

	"github.com/storefront/backend/internal/domain/design"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidPostcode(t *testing.T) {
	tests := []struct {
		postcode string
		want     bool
	}{
		{"SW1A 1AA", true},
		{"M1 1AE", true},
		{"EC1A1BB", true},
		{"B33 8TH", true},
		{"A", false},
		{"AB", false},
		{"ABC", false},
		{"ABCD", true},
		{" SW1A1AA", false},
		{"SW1A 1AA ", false},
		{"SW1A-1AA", false},
		{"ABCDEFGHIJK", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.postcode, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidPostcode(tt.postcode))
		})
	}
}

func validCommand(items string) CreateOrderCommand {
	return CreateOrderCommand{
		CustomerName:     "Alex Doe",
		CustomerEmail:    "alex@example.com",
		CustomerPhone:    "07700 900123",
		DeliveryAddress:  "1 High Street",
		DeliveryCity:     "London",
		DeliveryPostcode: "SW1A 1AA",
		Items:            json.RawMessage(items),
	}
}

func TestCreateOrderCommand_Validate(t *testing.T) {
	items := `[{"productId":"x"}]`

	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, validCommand(items).Validate())
	})

	tests := []struct {
		name   string
		mutate func(c *CreateOrderCommand)
		reason string
	}{
		{"single character postcode", func(c *CreateOrderCommand) { c.DeliveryPostcode = "A" }, CodeInvalidPostcode},
		{"missing name", func(c *CreateOrderCommand) { c.CustomerName = "" }, CodeMissingField},
		{"missing email", func(c *CreateOrderCommand) { c.CustomerEmail = "" }, CodeMissingField},
		{"missing phone", func(c *CreateOrderCommand) { c.CustomerPhone = "" }, CodeMissingField},
		{"missing address", func(c *CreateOrderCommand) { c.DeliveryAddress = "" }, CodeMissingField},
		{"missing items", func(c *CreateOrderCommand) { c.Items = nil }, CodeMissingField},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validCommand(items)
			tt.mutate(&c)
			err := c.Validate()
			require.Error(t, err)
			assert.True(t, shared.IsCode(err, shared.CodeValidationFailed))
			var de *shared.DomainError
			require.ErrorAs(t, err, &de)
			assert.Equal(t, tt.reason, de.Reason)
		})
	}

	t.Run("city and notes are optional", func(t *testing.T) {
		c := validCommand(items)
		c.DeliveryCity, c.Notes = "", ""
		assert.NoError(t, c.Validate())
	})
}

func TestParseItems(t *testing.T) {
	t.Run("defaults and normalization", func(t *testing.T) {
		raw := `[{
			"productId": "p-1",
			"unitPrice": 0.01,
			"views": [{"viewId": "front", "elements": [
				{"type": "text", "content": "Hi", "x": 10, "y": 20},
				{"type": "image", "content": "https://cdn/x.png", "transform": "translate(5px, 6px) rotate(45deg) scale(2, 2)"}
			]}]
		}]`
		items, err := ParseItems(json.RawMessage(raw))
		require.NoError(t, err)
		require.Len(t, items, 1)

		item := items[0]
		assert.Equal(t, 1, item.Quantity)
		require.Len(t, item.Views[0].Elements, 2)

		text := item.Views[0].Elements[0]
		assert.Equal(t, 1.0, text.ScaleX)
		assert.Equal(t, 1.0, text.ScaleY)
		assert.Equal(t, 10.0, text.X)

		img := item.Views[0].Elements[1]
		assert.Equal(t, design.OriginLibrary, img.Source)
		assert.Equal(t, 5.0, img.X)
		assert.Equal(t, 45.0, img.Rotation)
		assert.Equal(t, 2.0, img.ScaleX)
		assert.Empty(t, img.Transform)
	})

	t.Run("numeric ids", func(t *testing.T) {
		items, err := ParseItems(json.RawMessage(`[{"productId": 7, "quantity": 3, "views": [{"viewId": 12, "elements": []}]}]`))
		require.NoError(t, err)
		assert.Equal(t, "7", items[0].ProductID)
		assert.Equal(t, "12", items[0].Views[0].ViewID)
		assert.Equal(t, 3, items[0].Quantity)
	})

	invalid := []struct {
		name string
		raw  string
	}{
		{"not json", `{not json`},
		{"not an array", `{"productId": "p"}`},
		{"empty array", `[]`},
		{"missing product id", `[{"quantity": 1}]`},
		{"negative quantity", `[{"productId": "p", "quantity": -1}]`},
		{"unknown element type", `[{"productId": "p", "views": [{"viewId": "f", "elements": [{"type": "video"}]}]}]`},
		{"unknown source", `[{"productId": "p", "views": [{"viewId": "f", "elements": [{"type": "image", "source": "camera"}]}]}]`},
		{"view without elements", `[{"productId": "p", "views": [{"viewId": "f"}]}]`},
		{"bad legacy transform", `[{"productId": "p", "views": [{"viewId": "f", "elements": [{"type": "text", "transform": "skew(3deg)"}]}]}]`},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseItems(json.RawMessage(tt.raw))
			require.Error(t, err)
			assert.True(t, shared.IsCode(err, shared.CodeValidationFailed), "got %v", err)
		})
	}
}
