package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserTokenRoundTrip(t *testing.T) {
	SetJWTSecret("test-secret")

	tok, err := GenerateUserToken("6554a1b2c3d4e5f6a7b8c9d0", "9876543210")
	require.NoError(t, err)

	claims, err := ValidateJWT(tok)
	require.NoError(t, err)
	assert.Equal(t, "6554a1b2c3d4e5f6a7b8c9d0", claims.UserID)
	assert.Equal(t, "9876543210", claims.Phone)
	assert.Empty(t, claims.Role)
}

func TestAdminTokenCarriesRole(t *testing.T) {
	SetJWTSecret("test-secret")

	tok, err := GenerateAdminToken("6554a1b2c3d4e5f6a7b8c9d1", "drh")
	require.NoError(t, err)

	claims, err := ValidateJWT(tok)
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, claims.Role)
	assert.Equal(t, "drh", claims.Username)
}

func TestValidateJWTWrongSecret(t *testing.T) {
	SetJWTSecret("right-secret")
	tok, err := GenerateUserToken("u1", "0340000000")
	require.NoError(t, err)

	SetJWTSecret("wrong-secret")
	_, err = ValidateJWT(tok)
	assert.Error(t, err)
}

func TestValidateJWTGarbage(t *testing.T) {
	SetJWTSecret("test-secret")
	_, err := ValidateJWT("not.a.token")
	assert.Error(t, err)
}

func TestNoSecretConfigured(t *testing.T) {
	SetJWTSecret("")

	_, err := GenerateUserToken("u1", "0340000000")
	assert.ErrorIs(t, err, ErrNoSecret)

	_, err = ValidateJWT("whatever")
	assert.ErrorIs(t, err, ErrNoSecret)
}
