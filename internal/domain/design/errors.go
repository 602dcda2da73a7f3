package design

import "github.com/storefront/backend/internal/domain/shared"

var (
	ErrElementNotFound  = shared.NewDomainError("ELEMENT_NOT_FOUND", "Element not found in view")
	ErrDuplicateElement = shared.NewDomainError("DUPLICATE_ELEMENT", "Element id already used in this design")
	ErrViewNotFound     = shared.NewDomainError("VIEW_NOT_FOUND", "View not found in design")
	ErrInvalidElement   = shared.NewDomainError("INVALID_ELEMENT", "Invalid element")
	ErrKindMismatch     = shared.NewDomainError("ELEMENT_KIND_MISMATCH", "Patch does not apply to this element kind")
	ErrInvalidQuantity  = shared.NewDomainError("INVALID_QUANTITY", "Quantity must be a positive integer")
	ErrDraftNotFound    = shared.NewDomainError("DRAFT_NOT_FOUND", "No saved design draft")
	ErrUnsupportedImage = shared.NewDomainError("UNSUPPORTED_IMAGE", "Image format not supported")
)
