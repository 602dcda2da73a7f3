// Package cache provides the checkout draft stores.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/storefront/backend/internal/domain/design"
)

// RedisDraftStore keeps drafts in Redis so every instance sees the same slot
type RedisDraftStore struct {
	client    redis.Cmdable
	keyPrefix string
	ttl       time.Duration
}

// NewRedisDraftStore creates a draft store on an existing Redis client
func NewRedisDraftStore(client redis.Cmdable, keyPrefix string, ttl time.Duration) *RedisDraftStore {
	if keyPrefix == "" {
		keyPrefix = "draft"
	}
	return &RedisDraftStore{client: client, keyPrefix: keyPrefix, ttl: ttl}
}

// Key returns <prefix>:<owner>:current_order
func (s *RedisDraftStore) Key(owner string) string {
	return draftKey(s.keyPrefix, owner)
}

// Save replaces the owner's draft and refreshes its TTL
func (s *RedisDraftStore) Save(ctx context.Context, owner string, draft design.Draft) error {
	data, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("failed to encode draft: %w", err)
	}
	if err := s.client.Set(ctx, s.Key(owner), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save draft: %w", err)
	}
	return nil
}

// Load returns the owner's draft or ErrDraftNotFound
func (s *RedisDraftStore) Load(ctx context.Context, owner string) (*design.Draft, error) {
	data, err := s.client.Get(ctx, s.Key(owner)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, design.ErrDraftNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load draft: %w", err)
	}
	var draft design.Draft
	if err := json.Unmarshal(data, &draft); err != nil {
		return nil, fmt.Errorf("failed to decode draft: %w", err)
	}
	return &draft, nil
}

// Clear deletes the owner's slot
func (s *RedisDraftStore) Clear(ctx context.Context, owner string) error {
	if err := s.client.Del(ctx, s.Key(owner)).Err(); err != nil {
		return fmt.Errorf("failed to clear draft: %w", err)
	}
	return nil
}

func draftKey(prefix, owner string) string {
	return prefix + ":" + owner + ":" + design.DraftKey
}

// Ensure RedisDraftStore implements DraftStore
var _ design.DraftStore = (*RedisDraftStore)(nil)
