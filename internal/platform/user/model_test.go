package user

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateUsername(t *testing.T) {
	tests := []struct {
		name     string
		username string
		wantErr  bool
	}{
		{name: "simple", username: "alice", wantErr: false},
		{name: "with digits and punctuation", username: "coin_fan-42.x", wantErr: false},
		{name: "unicode letters", username: "Zoë", wantErr: false},
		{name: "too short", username: "ab", wantErr: true},
		{name: "empty", username: "", wantErr: true},
		{name: "contains space", username: "alice smith", wantErr: true},
		{name: "too long", username: "abcdefghijklmnopqrstuvwxyz0123456", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUsername(tt.username)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidUsername)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNormalizeUsername(t *testing.T) {
	assert.Equal(t, "alice", NormalizeUsername("  ALICE "))
	assert.Equal(t, NormalizeUsername("zoë"), NormalizeUsername("ZOË"))
}

func TestUser_Password(t *testing.T) {
	u := &User{Username: "alice", UsernameLower: "alice", Role: RoleUser}

	require.ErrorIs(t, u.SetPassword("short"), ErrPasswordTooShort)

	require.NoError(t, u.SetPassword("SecureP@ssw0rd"))
	assert.NotEqual(t, "SecureP@ssw0rd", u.PasswordHash, "Password should be hashed")

	assert.NoError(t, u.CheckPassword("SecureP@ssw0rd"))
	assert.ErrorIs(t, u.CheckPassword("WrongPassword"), ErrInvalidPassword)
}

func TestUser_Validate(t *testing.T) {
	valid := func() *User {
		return &User{
			ID:            uuid.New(),
			Username:      "Alice",
			UsernameLower: "alice",
			PasswordHash:  "hash",
			Role:          RoleUser,
		}
	}

	require.NoError(t, valid().Validate())

	u := valid()
	u.UsernameLower = "bob"
	assert.ErrorIs(t, u.Validate(), ErrInvalidUsername)

	u = valid()
	u.Role = "root"
	assert.ErrorIs(t, u.Validate(), ErrInvalidRole)

	u = valid()
	u.PasswordHash = ""
	assert.ErrorIs(t, u.Validate(), ErrInvalidPasswordHash)
}

func TestUser_UpdateLastLogin(t *testing.T) {
	u := &User{}
	u.UpdateLastLogin()

	require.NotNil(t, u.LastLoginAt)
	assert.Equal(t, *u.LastLoginAt, u.UpdatedAt)
}
