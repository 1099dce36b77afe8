package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/kislikjeka/cointrack/internal/module/admin"
)

// BroadcastKey holds the global broadcast. It never expires.
const BroadcastKey = "cointrack:broadcast"

// BroadcastStore keeps the broadcast in a single Redis key
type BroadcastStore struct {
	client *redis.Client
}

// NewBroadcastStore creates a new Redis broadcast store
func NewBroadcastStore(client *redis.Client) *BroadcastStore {
	return &BroadcastStore{client: client}
}

// GetBroadcast returns the current broadcast, or an empty one
func (s *BroadcastStore) GetBroadcast(ctx context.Context) (*admin.Broadcast, error) {
	raw, err := s.client.Get(ctx, BroadcastKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return &admin.Broadcast{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get broadcast: %w", err)
	}

	var b admin.Broadcast
	if err := json.Unmarshal(raw, &b); err != nil {
		return nil, fmt.Errorf("failed to decode broadcast: %w", err)
	}
	return &b, nil
}

// SetBroadcast replaces the current broadcast
func (s *BroadcastStore) SetBroadcast(ctx context.Context, b *admin.Broadcast) error {
	payload, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("failed to marshal broadcast: %w", err)
	}
	if err := s.client.Set(ctx, BroadcastKey, payload, 0).Err(); err != nil {
		return fmt.Errorf("failed to set broadcast: %w", err)
	}
	return nil
}
