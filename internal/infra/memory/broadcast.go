package memory

import (
	"context"
	"sync"

	"github.com/kislikjeka/cointrack/internal/module/admin"
)

// BroadcastStore keeps the broadcast in process memory
type BroadcastStore struct {
	mu      sync.RWMutex
	current admin.Broadcast
}

// NewBroadcastStore creates a new in-memory broadcast store
func NewBroadcastStore() *BroadcastStore {
	return &BroadcastStore{}
}

// GetBroadcast returns the current broadcast, or an empty one
func (s *BroadcastStore) GetBroadcast(_ context.Context) (*admin.Broadcast, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b := s.current
	return &b, nil
}

// SetBroadcast replaces the current broadcast
func (s *BroadcastStore) SetBroadcast(_ context.Context, b *admin.Broadcast) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = *b
	return nil
}
