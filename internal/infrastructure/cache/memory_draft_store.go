package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/storefront/backend/internal/domain/design"
)

// entry is an encoded draft with its expiration
type entry struct {
	data      []byte
	expiresAt time.Time
}

// MemoryDraftStore keeps drafts in process memory.
// Only suitable for a single instance and for tests.
type MemoryDraftStore struct {
	mu        sync.RWMutex
	entries   map[string]entry
	ttl       time.Duration
	now       func() time.Time
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewMemoryDraftStore creates a store whose drafts expire after ttl.
// A background goroutine removes expired drafts until Close is called.
func NewMemoryDraftStore(ttl time.Duration) *MemoryDraftStore {
	s := &MemoryDraftStore{
		entries:  make(map[string]entry),
		ttl:      ttl,
		now:      time.Now,
		stopChan: make(chan struct{}),
	}
	s.wg.Add(1)
	go s.cleanupLoop()
	return s
}

// Save replaces the owner's draft. Drafts are stored encoded so callers never share state.
func (s *MemoryDraftStore) Save(_ context.Context, owner string, draft design.Draft) error {
	data, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("failed to encode draft: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	e := entry{data: data}
	if s.ttl > 0 {
		e.expiresAt = s.now().Add(s.ttl)
	}
	s.entries[owner] = e
	return nil
}

// Load returns the owner's draft or ErrDraftNotFound
func (s *MemoryDraftStore) Load(_ context.Context, owner string) (*design.Draft, error) {
	s.mu.RLock()
	e, ok := s.entries[owner]
	s.mu.RUnlock()
	if !ok || s.expired(e) {
		return nil, design.ErrDraftNotFound
	}
	var draft design.Draft
	if err := json.Unmarshal(e.data, &draft); err != nil {
		return nil, fmt.Errorf("failed to decode draft: %w", err)
	}
	return &draft, nil
}

// Clear empties the owner's slot
func (s *MemoryDraftStore) Clear(_ context.Context, owner string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, owner)
	return nil
}

func (s *MemoryDraftStore) expired(e entry) bool {
	return !e.expiresAt.IsZero() && s.now().After(e.expiresAt)
}

// Close stops the cleanup goroutine. Safe to call multiple times.
func (s *MemoryDraftStore) Close() error {
	s.closeOnce.Do(func() {
		close(s.stopChan)
		s.wg.Wait()
	})
	return nil
}

func (s *MemoryDraftStore) cleanupLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.cleanup()
		}
	}
}

func (s *MemoryDraftStore) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for owner, e := range s.entries {
		if s.expired(e) {
			delete(s.entries, owner)
		}
	}
}

// Size returns the number of stored drafts, expired ones included
func (s *MemoryDraftStore) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Ensure MemoryDraftStore implements DraftStore
var _ design.DraftStore = (*MemoryDraftStore)(nil)
