package design

import (
	"context"
	"time"
)

// DraftKey is the single slot a customer's pending order occupies
const DraftKey = "current_order"

// Draft is the design carried from the editor to checkout
type Draft struct {
	Items   []*Document `json:"items"`
	SavedAt time.Time   `json:"savedAt"`
}

// DraftStore keeps at most one draft per owner
type DraftStore interface {
	// Save replaces the owner's draft
	Save(ctx context.Context, owner string, draft Draft) error
	// Load returns ErrDraftNotFound when the slot is empty
	Load(ctx context.Context, owner string) (*Draft, error)
	// Clear empties the slot. Clearing an empty slot is not an error.
	Clear(ctx context.Context, owner string) error
}
