package ledger

import (
	"context"

	"github.com/google/uuid"
)

// ProfileStore persists user documents.
//
// The ledger service uses it read-then-overwrite: it loads a profile, applies
// a change in memory and saves the whole profile back. Nothing locks between
// Load and Save, so two writers on the same user and profile race and the
// last save wins. Implementations must make each Save all-or-nothing and
// only ever receive validated, recalculated ledgers.
type ProfileStore interface {
	// Load returns the named profile or ErrProfileNotFound
	Load(ctx context.Context, userID uuid.UUID, name string) (*Profile, error)

	// Save replaces the named profile and marks it as the active one
	Save(ctx context.Context, userID uuid.UUID, name string, profile *Profile) error

	// ListProfiles returns the names of all stored profiles
	ListProfiles(ctx context.Context, userID uuid.UUID) ([]string, error)

	// ActiveProfile returns the last active profile name, or "" if unknown
	ActiveProfile(ctx context.Context, userID uuid.UUID) (string, error)

	// SetActiveProfile records the profile the user is working in
	SetActiveProfile(ctx context.Context, userID uuid.UUID, name string) error

	// DeleteUser removes every profile the user owns
	DeleteUser(ctx context.Context, userID uuid.UUID) error

	// ForEach visits every stored user document
	ForEach(ctx context.Context, fn func(userID uuid.UUID, data *UserData) error) error
}
