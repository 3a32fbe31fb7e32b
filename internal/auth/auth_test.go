package auth

import (
	"testing"
	"time"

	"github.com/fahadjdy/business-point/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenManager_RoundTrip(t *testing.T) {
	m := NewTokenManager("secret", time.Hour)

	token, expiresAt, err := m.GenerateToken("user-1", RoleAdmin)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := m.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, RoleAdmin, claims.Role)
	assert.True(t, IsAdmin(claims))
}

func TestTokenManager_Expired(t *testing.T) {
	m := NewTokenManager("secret", time.Minute)
	m.now = func() time.Time { return time.Now().Add(-time.Hour) }

	token, _, err := m.GenerateToken("user-1", RoleUser)
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.ParseToken(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestTokenManager_WrongSecret(t *testing.T) {
	token, _, err := NewTokenManager("one", time.Hour).GenerateToken("user-1", RoleUser)
	require.NoError(t, err)

	_, err = NewTokenManager("two", time.Hour).ParseToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = NewTokenManager("two", time.Hour).ParseToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("s3cretpass")
	require.NoError(t, err)

	assert.True(t, CheckPasswordHash("s3cretpass", hash))
	assert.False(t, CheckPasswordHash("wrong", hash))

	assert.ErrorIs(t, ValidatePassword("short1"), ErrPasswordTooShort)
	assert.ErrorIs(t, ValidatePassword("onlyletters"), ErrPasswordWeak)
	assert.NoError(t, ValidatePassword("letters123"))
}

func TestRoles(t *testing.T) {
	assert.Equal(t, RoleAdmin, TokenRole(models.UserRoleVendor, true))
	assert.Equal(t, RoleVendor, TokenRole(models.UserRoleVendor, false))
	assert.False(t, IsAdmin(nil))

	assert.NoError(t, ValidateRole(RoleVendor))
	assert.Error(t, ValidateRole("moderator"))

	_, _, err := NewTokenManager("secret", time.Hour).GenerateToken("user-1", "moderator")
	assert.Error(t, err)
}
