package trade

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/santhosh-tekuri/jsonschema/v5"
	appdesign "github.com/storefront/backend/internal/application/design"
	"github.com/storefront/backend/internal/domain/design"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/trade"
)

// Validation sub-codes, all reported as VALIDATION_FAILED to callers
const (
	CodeInvalidPostcode = "INVALID_POSTCODE"
	CodeMissingField    = "MISSING_FIELD"
	CodeInvalidItems    = "INVALID_ITEMS"
)

// postcodeRe is deliberately permissive: 4-10 characters, alphanumeric at both ends, spaces inside
var postcodeRe = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9\s]{2,8}[A-Za-z0-9]$`)

// ValidPostcode reports whether s passes the delivery postcode check
func ValidPostcode(s string) bool {
	return postcodeRe.MatchString(s)
}

// CreateOrderCommand is a checkout submission after transport decoding.
// Items is the raw JSON array exactly as the client sent it.
type CreateOrderCommand struct {
	UserID           *uuid.UUID
	CustomerName     string `validate:"required,max=200"`
	CustomerEmail    string `validate:"required,max=200"`
	CustomerPhone    string `validate:"required,max=50"`
	DeliveryAddress  string `validate:"required,max=500"`
	DeliveryCity     string `validate:"max=100"`
	DeliveryPostcode string
	Notes            string `validate:"max=2000"`
	Items            json.RawMessage

	// TokenAssets are files sent as asset:<token> parts, keyed by token
	TokenAssets map[string]appdesign.Asset
	// DesignImages are legacy positional files in upload-element order
	DesignImages []appdesign.Asset
	Preview      *appdesign.Asset
}

func (c CreateOrderCommand) customer() trade.Customer {
	return trade.Customer{
		Name:  strings.TrimSpace(c.CustomerName),
		Email: strings.TrimSpace(c.CustomerEmail),
		Phone: strings.TrimSpace(c.CustomerPhone),
	}
}

func (c CreateOrderCommand) delivery() trade.Delivery {
	return trade.Delivery{
		Address:  strings.TrimSpace(c.DeliveryAddress),
		City:     strings.TrimSpace(c.DeliveryCity),
		Postcode: strings.TrimSpace(c.DeliveryPostcode),
	}
}

// itemsSchema constrains the shape of the items payload before it is decoded
const itemsSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "array",
  "minItems": 1,
  "items": {
    "type": "object",
    "required": ["productId"],
    "properties": {
      "productId": {"type": ["string", "integer"]},
      "productName": {"type": ["string", "null"]},
      "quantity": {"type": ["integer", "null"], "minimum": 0},
      "unitPrice": {"type": ["number", "string", "null"]},
      "variantDetails": {"type": ["object", "null"]},
      "previewItem": {"type": "boolean"},
      "views": {
        "type": ["array", "null"],
        "items": {
          "type": "object",
          "required": ["viewId", "elements"],
          "properties": {
            "viewId": {"type": ["string", "integer"]},
            "elements": {
              "type": "array",
              "items": {
                "type": "object",
                "required": ["type"],
                "properties": {
                  "type": {"enum": ["text", "image", "shape"]},
                  "content": {"type": ["string", "null"]},
                  "source": {"enum": ["upload", "library", "", null]},
                  "assetToken": {"type": "string"},
                  "x": {"type": "number"},
                  "y": {"type": "number"},
                  "rotation": {"type": "number"},
                  "scaleX": {"type": "number"},
                  "scaleY": {"type": "number"}
                }
              }
            }
          }
        }
      }
    }
  }
}`

const itemsSchemaURL = "https://storefront.local/schemas/order-items.schema.json"

var (
	compiledItemsSchema *jsonschema.Schema
	itemsSchemaOnce     sync.Once
	itemsSchemaErr      error

	validate = validator.New()
)

func loadItemsSchema() (*jsonschema.Schema, error) {
	itemsSchemaOnce.Do(func() {
		c := jsonschema.NewCompiler()
		c.Draft = jsonschema.Draft2020
		if err := c.AddResource(itemsSchemaURL, strings.NewReader(itemsSchema)); err != nil {
			itemsSchemaErr = fmt.Errorf("items schema load failed: %w", err)
			return
		}
		compiledItemsSchema, itemsSchemaErr = c.Compile(itemsSchemaURL)
	})
	return compiledItemsSchema, itemsSchemaErr
}

// Validate checks required fields and the postcode. It has no side effects.
func (c CreateOrderCommand) Validate() error {
	if err := validate.Struct(c); err != nil {
		return shared.WrapDomainError(shared.CodeValidationFailed, "Missing required fields", err).WithReason(CodeMissingField)
	}
	if !ValidPostcode(strings.TrimSpace(c.DeliveryPostcode)) {
		return shared.NewValidationError("Invalid UK Postcode").WithReason(CodeInvalidPostcode)
	}
	if len(c.Items) == 0 {
		return shared.NewValidationError("Missing required fields").WithReason(CodeMissingField)
	}
	return nil
}

// ParseItems validates the raw items payload against its schema and decodes it.
// Element geometry is normalized: legacy CSS transforms are expanded and scale defaults to 1.
// A missing or zero quantity means 1.
func ParseItems(raw json.RawMessage) ([]design.Submission, error) {
	schema, err := loadItemsSchema()
	if err != nil {
		return nil, err
	}

	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, shared.NewValidationError("Invalid items format").WithReason(CodeInvalidItems)
	}
	if err := schema.Validate(doc); err != nil {
		return nil, shared.WrapDomainError(shared.CodeValidationFailed, "Invalid items format", err).WithReason(CodeInvalidItems)
	}

	var wire []submissionWire
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, shared.NewValidationError("Invalid items format").WithReason(CodeInvalidItems)
	}

	items := make([]design.Submission, 0, len(wire))
	for i, w := range wire {
		s := w.submission()
		if s.Quantity <= 0 {
			s.Quantity = 1
		}
		for vi := range s.Views {
			for ei, se := range s.Views[vi].Elements {
				n, err := se.Normalize()
				if err != nil {
					return nil, shared.WrapDomainError(shared.CodeValidationFailed,
						fmt.Sprintf("Invalid element %d in item %d", ei, i), err).WithReason(CodeInvalidItems)
				}
				s.Views[vi].Elements[ei] = n
			}
		}
		if err := validate.Struct(s); err != nil {
			return nil, shared.WrapDomainError(shared.CodeValidationFailed,
				fmt.Sprintf("Invalid item %d", i), err).WithReason(CodeInvalidItems)
		}
		items = append(items, s)
	}
	return items, nil
}

// submissionWire accepts numeric ids from older clients alongside strings
type submissionWire struct {
	design.Submission
	ProductID flexibleID `json:"productId"`
	Views     []struct {
		ViewID   flexibleID                 `json:"viewId"`
		Elements []design.SubmissionElement `json:"elements"`
	} `json:"views"`
}

func (w submissionWire) submission() design.Submission {
	s := w.Submission
	s.ProductID = string(w.ProductID)
	s.Views = make([]design.SubmissionView, 0, len(w.Views))
	for _, v := range w.Views {
		s.Views = append(s.Views, design.SubmissionView{ViewID: string(v.ViewID), Elements: v.Elements})
	}
	return s
}

// flexibleID decodes a JSON string or number into its string form
type flexibleID string

func (f *flexibleID) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*f = flexibleID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexibleID(n.String())
	return nil
}
