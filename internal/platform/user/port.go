package user

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for user persistence operations
type Repository interface {
	// Create creates a new user; ErrUserAlreadyExists if the username is taken
	Create(ctx context.Context, user *User) error

	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)

	// GetByUsername retrieves a user by case-folded username
	GetByUsername(ctx context.Context, usernameLower string) (*User, error)

	// List returns all users ordered by username
	List(ctx context.Context) ([]*User, error)

	// Update updates a user
	Update(ctx context.Context, user *User) error

	// Delete deletes a user
	Delete(ctx context.Context, id uuid.UUID) error

	// Exists checks if a user with the given case-folded username exists
	Exists(ctx context.Context, usernameLower string) (bool, error)
}
