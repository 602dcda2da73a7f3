package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	t.Run("hashes password and normalizes email", func(t *testing.T) {
		u, err := NewUser("Shop Admin", " Admin@Example.com ", "s3cret-pass", RoleAdmin)
		require.NoError(t, err)

		assert.Equal(t, "admin@example.com", u.Email)
		assert.NotEqual(t, "s3cret-pass", u.PasswordHash)
		assert.True(t, u.VerifyPassword("s3cret-pass"))
		assert.False(t, u.VerifyPassword("wrong-pass"))
		assert.True(t, u.IsAdmin())
	})

	t.Run("validation", func(t *testing.T) {
		tests := []struct {
			name, full, email, password string
			role                        Role
		}{
			{"empty name", "", "a@b.co", "password1", RoleCustomer},
			{"bad email", "A", "not-an-email", "password1", RoleCustomer},
			{"short password", "A", "a@b.co", "short", RoleCustomer},
			{"unknown role", "A", "a@b.co", "password1", "owner"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := NewUser(tt.full, tt.email, tt.password, tt.role)
				assert.Error(t, err)
			})
		}
	})
}

func TestUser_RecordLogin(t *testing.T) {
	u, err := NewUser("Jo", "jo@example.com", "password1", RoleCustomer)
	require.NoError(t, err)
	assert.Nil(t, u.LastLoginAt)
	u.RecordLogin()
	assert.NotNil(t, u.LastLoginAt)
	assert.False(t, u.IsAdmin())
}
