package design

import (
	"context"
	"fmt"
	"time"

	"github.com/storefront/backend/internal/domain/design"
	"github.com/storefront/backend/internal/domain/shared"
)

// SaveDraftRequest carries the editor documents between the design and checkout steps
type SaveDraftRequest struct {
	Items []*design.Document `json:"items" binding:"required,min=1"`
}

// DraftService manages a customer's single pending order draft
type DraftService struct {
	store design.DraftStore
	now   func() time.Time
}

// NewDraftService creates a new DraftService
func NewDraftService(store design.DraftStore) *DraftService {
	return &DraftService{store: store, now: time.Now}
}

// Save validates every document and replaces the owner's draft
func (s *DraftService) Save(ctx context.Context, owner string, req SaveDraftRequest) (*design.Draft, error) {
	if owner == "" {
		return nil, shared.ErrUnauthorized
	}
	if len(req.Items) == 0 {
		return nil, shared.NewValidationError("draft must contain at least one item")
	}
	for i, doc := range req.Items {
		if doc == nil {
			return nil, shared.NewValidationError(fmt.Sprintf("item %d is empty", i))
		}
		if err := doc.Validate(); err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
	}

	draft := design.Draft{Items: req.Items, SavedAt: s.now().UTC()}
	if err := s.store.Save(ctx, owner, draft); err != nil {
		return nil, err
	}
	return &draft, nil
}

// Load returns the owner's draft or design.ErrDraftNotFound
func (s *DraftService) Load(ctx context.Context, owner string) (*design.Draft, error) {
	if owner == "" {
		return nil, shared.ErrUnauthorized
	}
	return s.store.Load(ctx, owner)
}

// Clear empties the owner's slot
func (s *DraftService) Clear(ctx context.Context, owner string) error {
	if owner == "" {
		return shared.ErrUnauthorized
	}
	return s.store.Clear(ctx, owner)
}
