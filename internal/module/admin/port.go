package admin

import (
	"context"

	"github.com/google/uuid"

	"github.com/kislikjeka/cointrack/internal/ledger"
	"github.com/kislikjeka/cointrack/internal/platform/user"
)

// UserDirectory is the part of the user service admin needs
type UserDirectory interface {
	List(ctx context.Context) ([]*user.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// DataStore is the part of the profile store admin needs
type DataStore interface {
	ForEach(ctx context.Context, fn func(userID uuid.UUID, data *ledger.UserData) error) error
	DeleteUser(ctx context.Context, userID uuid.UUID) error
}

// BroadcastStore persists the single global broadcast
type BroadcastStore interface {
	// GetBroadcast returns the current broadcast, or an empty one
	GetBroadcast(ctx context.Context) (*Broadcast, error)

	// SetBroadcast replaces the current broadcast
	SetBroadcast(ctx context.Context, b *Broadcast) error
}
