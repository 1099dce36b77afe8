package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kislikjeka/cointrack/pkg/logger"
)

// Service handles user business logic
type Service struct {
	repo   Repository
	logger *logger.Logger
}

// NewService creates a new user service
func NewService(repo Repository, log *logger.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: log.WithComponent("user"),
	}
}

// Register registers a new user with the user role.
// Usernames are unique regardless of case.
func (s *Service) Register(ctx context.Context, username, password string) (*User, error) {
	return s.create(ctx, username, password, RoleUser)
}

func (s *Service) create(ctx context.Context, username, password string, role Role) (*User, error) {
	username = strings.TrimSpace(username)
	if err := ValidateUsername(username); err != nil {
		return nil, err
	}
	lower := NormalizeUsername(username)

	exists, err := s.repo.Exists(ctx, lower)
	if err != nil {
		return nil, fmt.Errorf("failed to check if user exists: %w", err)
	}

	if exists {
		return nil, ErrUserAlreadyExists
	}

	now := time.Now().UTC()
	user := &User{
		ID:            uuid.New(),
		Username:      username,
		UsernameLower: lower,
		Role:          role,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := user.SetPassword(password); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, ErrUserAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// Login authenticates a user with username and password
// Returns the user if authentication succeeds
func (s *Service) Login(ctx context.Context, username, password string) (*User, error) {
	user, err := s.repo.GetByUsername(ctx, NormalizeUsername(username))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			// Don't reveal that the user doesn't exist
			return nil, ErrInvalidPassword
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if err := user.CheckPassword(password); err != nil {
		return nil, err
	}

	user.UpdateLastLogin()
	if err := s.repo.Update(ctx, user); err != nil {
		s.logger.WithContext(ctx).WithError(err).Warn("failed to update last login",
			"user_id", user.ID.String(),
		)
	}

	return user, nil
}

// FindByUsername looks a user up by name, ignoring case
func (s *Service) FindByUsername(ctx context.Context, username string) (*User, error) {
	return s.repo.GetByUsername(ctx, NormalizeUsername(username))
}

// GetByID retrieves a user by ID
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns every user ordered by username
func (s *Service) List(ctx context.Context) ([]*User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// Delete removes a user account
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// EnsureAdmin creates the admin account if it does not exist yet, or
// promotes an existing account with that username.
func (s *Service) EnsureAdmin(ctx context.Context, username, password string) (*User, error) {
	existing, err := s.FindByUsername(ctx, username)
	switch {
	case err == nil:
		if existing.IsAdmin() {
			return existing, nil
		}
		existing.Role = RoleAdmin
		existing.UpdatedAt = time.Now().UTC()
		if err := s.repo.Update(ctx, existing); err != nil {
			return nil, fmt.Errorf("failed to promote admin: %w", err)
		}
		s.logger.WithContext(ctx).Info("promoted user to admin", "username", existing.Username)
		return existing, nil
	case errors.Is(err, ErrUserNotFound):
		user, err := s.create(ctx, username, password, RoleAdmin)
		if err != nil {
			return nil, err
		}
		s.logger.WithContext(ctx).Info("created admin user", "username", user.Username)
		return user, nil
	default:
		return nil, fmt.Errorf("failed to look up admin: %w", err)
	}
}
