package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken(7, "ayse", RoleAdmin, 0, time.Hour)
	require.NoError(t, err)

	claims, err := ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "ayse", claims.Username)
	assert.Equal(t, RoleAdmin, claims.Role)
	assert.Zero(t, claims.BranchID)
}

func TestTokenCarriesBranch(t *testing.T) {
	token, err := GenerateToken(8, "mehmet", RoleSeller, 3, time.Hour)
	require.NoError(t, err)

	claims, err := ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, RoleSeller, claims.Role)
	assert.Equal(t, uint(3), claims.BranchID)
}

func TestExpiredTokenRejected(t *testing.T) {
	token, err := GenerateToken(7, "ayse", RoleSeller, 1, -time.Minute)
	require.NoError(t, err)

	_, err = ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestGarbageTokenRejected(t *testing.T) {
	_, err := ValidateToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
