package user_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/kislikjeka/cointrack/internal/platform/user"
	"github.com/kislikjeka/cointrack/pkg/logger"
)

// MockUserRepository is a mock implementation of user.Repository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, u *user.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, usernameLower string) (*user.User, error) {
	args := m.Called(ctx, usernameLower)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context) ([]*user.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*user.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, u *user.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) Exists(ctx context.Context, usernameLower string) (bool, error) {
	args := m.Called(ctx, usernameLower)
	return args.Bool(0), args.Error(1)
}

func newUser(t *testing.T, username, password string, role user.Role) *user.User {
	t.Helper()
	u := &user.User{
		ID:            uuid.New(),
		Username:      username,
		UsernameLower: user.NormalizeUsername(username),
		Role:          role,
	}
	require.NoError(t, u.SetPassword(password))
	return u
}

func TestUserService_Register(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name        string
		username    string
		password    string
		setupMock   func(*MockUserRepository)
		expectedErr error
	}{
		{
			name:     "valid registration",
			username: "Alice",
			password: "SecureP@ssw0rd",
			setupMock: func(m *MockUserRepository) {
				m.On("Exists", ctx, "alice").Return(false, nil)
				m.On("Create", ctx, mock.MatchedBy(func(u *user.User) bool {
					return u.Username == "Alice" && u.UsernameLower == "alice" && u.Role == user.RoleUser
				})).Return(nil)
			},
		},
		{
			name:     "username taken in another case",
			username: "ALICE",
			password: "SecureP@ssw0rd",
			setupMock: func(m *MockUserRepository) {
				m.On("Exists", ctx, "alice").Return(true, nil)
			},
			expectedErr: user.ErrUserAlreadyExists,
		},
		{
			name:        "invalid username",
			username:    "a",
			password:    "SecureP@ssw0rd",
			setupMock:   func(m *MockUserRepository) {},
			expectedErr: user.ErrInvalidUsername,
		},
		{
			name:     "password too short",
			username: "alice",
			password: "short",
			setupMock: func(m *MockUserRepository) {
				m.On("Exists", ctx, "alice").Return(false, nil)
			},
			expectedErr: user.ErrPasswordTooShort,
		},
		{
			name:     "unique violation on create",
			username: "alice",
			password: "SecureP@ssw0rd",
			setupMock: func(m *MockUserRepository) {
				m.On("Exists", ctx, "alice").Return(false, nil)
				m.On("Create", ctx, mock.Anything).Return(user.ErrUserAlreadyExists)
			},
			expectedErr: user.ErrUserAlreadyExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockUserRepository)
			tt.setupMock(repo)
			svc := user.NewService(repo, logger.Discard())

			u, err := svc.Register(ctx, tt.username, tt.password)

			if tt.expectedErr != nil {
				require.ErrorIs(t, err, tt.expectedErr)
				assert.Nil(t, u)
			} else {
				require.NoError(t, err)
				assert.NotEqual(t, uuid.Nil, u.ID)
				assert.NoError(t, u.Validate())
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestUserService_Login(t *testing.T) {
	ctx := context.Background()
	existing := newUser(t, "Alice", "SecureP@ssw0rd", user.RoleUser)

	t.Run("correct password, any case", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("GetByUsername", ctx, "alice").Return(existing, nil)
		repo.On("Update", ctx, existing).Return(nil)

		u, err := user.NewService(repo, logger.Discard()).Login(ctx, "ALICE", "SecureP@ssw0rd")
		require.NoError(t, err)
		assert.Equal(t, existing.ID, u.ID)
		assert.NotNil(t, u.LastLoginAt)
		repo.AssertExpectations(t)
	})

	t.Run("wrong password", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("GetByUsername", ctx, "alice").Return(existing, nil)

		_, err := user.NewService(repo, logger.Discard()).Login(ctx, "alice", "WrongPassword")
		assert.ErrorIs(t, err, user.ErrInvalidPassword)
	})

	t.Run("unknown user looks like a wrong password", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("GetByUsername", ctx, "nobody").Return(nil, user.ErrUserNotFound)

		_, err := user.NewService(repo, logger.Discard()).Login(ctx, "nobody", "whatever1")
		assert.ErrorIs(t, err, user.ErrInvalidPassword)
	})

	t.Run("last login update failure does not fail login", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("GetByUsername", ctx, "alice").Return(existing, nil)
		repo.On("Update", ctx, existing).Return(errors.New("connection reset"))

		u, err := user.NewService(repo, logger.Discard()).Login(ctx, "alice", "SecureP@ssw0rd")
		require.NoError(t, err)
		assert.Equal(t, existing.ID, u.ID)
	})
}

func TestUserService_EnsureAdmin(t *testing.T) {
	ctx := context.Background()

	t.Run("creates missing admin", func(t *testing.T) {
		repo := new(MockUserRepository)
		repo.On("GetByUsername", ctx, "root").Return(nil, user.ErrUserNotFound)
		repo.On("Exists", ctx, "root").Return(false, nil)
		repo.On("Create", ctx, mock.MatchedBy(func(u *user.User) bool {
			return u.Role == user.RoleAdmin
		})).Return(nil)

		u, err := user.NewService(repo, logger.Discard()).EnsureAdmin(ctx, "root", "SecureP@ssw0rd")
		require.NoError(t, err)
		assert.True(t, u.IsAdmin())
		repo.AssertExpectations(t)
	})

	t.Run("promotes existing user", func(t *testing.T) {
		existing := newUser(t, "root", "SecureP@ssw0rd", user.RoleUser)
		repo := new(MockUserRepository)
		repo.On("GetByUsername", ctx, "root").Return(existing, nil)
		repo.On("Update", ctx, existing).Return(nil)

		u, err := user.NewService(repo, logger.Discard()).EnsureAdmin(ctx, "root", "ignored-password")
		require.NoError(t, err)
		assert.True(t, u.IsAdmin())
		repo.AssertExpectations(t)
	})

	t.Run("existing admin untouched", func(t *testing.T) {
		existing := newUser(t, "root", "SecureP@ssw0rd", user.RoleAdmin)
		repo := new(MockUserRepository)
		repo.On("GetByUsername", ctx, "root").Return(existing, nil)

		u, err := user.NewService(repo, logger.Discard()).EnsureAdmin(ctx, "root", "ignored-password")
		require.NoError(t, err)
		assert.Same(t, existing, u)
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}
