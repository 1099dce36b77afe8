package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/kislikjeka/cointrack/internal/platform/user"
)

// UserRepository implements user.Repository in process memory
type UserRepository struct {
	mu      sync.RWMutex
	users   map[uuid.UUID]user.User
	byLower map[string]uuid.UUID
}

// NewUserRepository creates a new in-memory user repository
func NewUserRepository() *UserRepository {
	return &UserRepository{
		users:   make(map[uuid.UUID]user.User),
		byLower: make(map[string]uuid.UUID),
	}
}

// Create creates a new user
func (r *UserRepository) Create(_ context.Context, u *user.User) error {
	if err := u.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.byLower[u.UsernameLower]; taken {
		return user.ErrUserAlreadyExists
	}
	r.users[u.ID] = *u
	r.byLower[u.UsernameLower] = u.ID
	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(_ context.Context, id uuid.UUID) (*user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	return &u, nil
}

// GetByUsername retrieves a user by case-folded username
func (r *UserRepository) GetByUsername(_ context.Context, usernameLower string) (*user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byLower[usernameLower]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	u := r.users[id]
	return &u, nil
}

// List returns all users ordered by username
func (r *UserRepository) List(_ context.Context) ([]*user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]*user.User, 0, len(r.users))
	for _, u := range r.users {
		u := u
		users = append(users, &u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].UsernameLower < users[j].UsernameLower })
	return users, nil
}

// Update updates a user
func (r *UserRepository) Update(_ context.Context, u *user.User) error {
	if err := u.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	old, ok := r.users[u.ID]
	if !ok {
		return user.ErrUserNotFound
	}
	if owner, taken := r.byLower[u.UsernameLower]; taken && owner != u.ID {
		return user.ErrUserAlreadyExists
	}

	delete(r.byLower, old.UsernameLower)
	r.users[u.ID] = *u
	r.byLower[u.UsernameLower] = u.ID
	return nil
}

// Delete deletes a user
func (r *UserRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return user.ErrUserNotFound
	}
	delete(r.users, id)
	delete(r.byLower, u.UsernameLower)
	return nil
}

// Exists checks if a user with the given case-folded username exists
func (r *UserRepository) Exists(_ context.Context, usernameLower string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.byLower[usernameLower]
	return ok, nil
}
