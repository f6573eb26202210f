package domain

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	t.Parallel()

	t.Run("valid user", func(t *testing.T) {
		t.Parallel()

		user, err := NewUser("Test User", "test@example.com", "Password1!")
		require.NoError(t, err)

		assert.NotEqual(t, uuid.Nil, user.ID)
		assert.Equal(t, "Test User", user.Name)
		assert.Equal(t, "test@example.com", user.Email)
		assert.Equal(t, "Password1!", user.Password)
		assert.Empty(t, user.HashedPassword)
		assert.False(t, user.CreatedAt.IsZero())
		assert.Equal(t, user.CreatedAt, user.UpdatedAt)
	})

	t.Run("email is normalized", func(t *testing.T) {
		t.Parallel()

		user, err := NewUser("Test User", "  Test@Example.COM  ", "Password1!")
		require.NoError(t, err)
		assert.Equal(t, "test@example.com", user.Email)
	})

	t.Run("name is trimmed", func(t *testing.T) {
		t.Parallel()

		user, err := NewUser("  Test User  ", "test@example.com", "Password1!")
		require.NoError(t, err)
		assert.Equal(t, "Test User", user.Name)
	})

	tests := []struct {
		name     string
		userName string
		email    string
		password string
		wantErr  error
	}{
		{
			name:     "empty name",
			userName: "   ",
			email:    "test@example.com",
			password: "Password1!",
			wantErr:  ErrEmptyName,
		},
		{
			name:     "empty email",
			userName: "Test User",
			email:    "",
			password: "Password1!",
			wantErr:  ErrEmptyEmail,
		},
		{
			name:     "malformed email",
			userName: "Test User",
			email:    "not-an-email",
			password: "Password1!",
			wantErr:  ErrInvalidEmail,
		},
		{
			name:     "email without domain dot",
			userName: "Test User",
			email:    "user@localhost",
			password: "Password1!",
			wantErr:  ErrInvalidEmail,
		},
		{
			name:     "short password",
			userName: "Test User",
			email:    "test@example.com",
			password: "Pw1!",
			wantErr:  ErrPasswordTooShort,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			user, err := NewUser(tt.userName, tt.email, tt.password)
			assert.Nil(t, user)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestValidatePassword(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		password string
		wantErr  error
	}{
		{
			name:     "valid password",
			password: "Password1!",
			wantErr:  nil,
		},
		{
			name:     "too short",
			password: "Pw1!abc",
			wantErr:  ErrPasswordTooShort,
		},
		{
			name:     "too long",
			password: "Aa1!" + strings.Repeat("a", 70),
			wantErr:  ErrPasswordTooLong,
		},
		{
			name:     "no uppercase",
			password: "password1!",
			wantErr:  ErrPasswordTooWeak,
		},
		{
			name:     "no lowercase",
			password: "PASSWORD1!",
			wantErr:  ErrPasswordTooWeak,
		},
		{
			name:     "no digit",
			password: "Password!!",
			wantErr:  ErrPasswordTooWeak,
		},
		{
			name:     "no symbol",
			password: "Password12",
			wantErr:  ErrPasswordTooWeak,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := ValidatePassword(tt.password)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestUserValidate(t *testing.T) {
	t.Parallel()

	t.Run("stored user without plaintext is valid", func(t *testing.T) {
		t.Parallel()

		user := &User{
			ID:             uuid.New(),
			Name:           "Test User",
			Email:          "test@example.com",
			HashedPassword: "$2a$10$abcdefghijklmnopqrstuv",
		}
		assert.NoError(t, user.Validate())
	})

	t.Run("user without password or hash is invalid", func(t *testing.T) {
		t.Parallel()

		user := &User{
			ID:    uuid.New(),
			Name:  "Test User",
			Email: "test@example.com",
		}
		assert.ErrorIs(t, user.Validate(), ErrEmptyHashedPassword)
	})

	t.Run("nil ID is invalid", func(t *testing.T) {
		t.Parallel()

		user := &User{
			Name:           "Test User",
			Email:          "test@example.com",
			HashedPassword: "hash",
		}
		assert.ErrorIs(t, user.Validate(), ErrEmptyUserID)
	})
}

func TestNormalizeEmail(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "user@example.com", NormalizeEmail(" User@Example.Com "))
	assert.Equal(t, "", NormalizeEmail("   "))
}
