package auth_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/bazario/catalog/pkg/auth"
)

func TestTokenRoundTrip(t *testing.T) {
	token, err := auth.GenerateToken(42)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := auth.ValidateToken(token)
	require.NoError(t, err)
	require.EqualValues(t, 42, claims.UserID)
	require.NotEmpty(t, claims.ID, "token should carry a JTI")

	remaining := time.Until(claims.ExpiresAt.Time)
	require.Greater(t, remaining, 23*time.Hour)
	require.LessOrEqual(t, remaining, 24*time.Hour)
}

func TestEachTokenGetsFreshJTI(t *testing.T) {
	a, err := auth.GenerateToken(1)
	require.NoError(t, err)
	b, err := auth.GenerateToken(1)
	require.NoError(t, err)

	ca, err := auth.ValidateToken(a)
	require.NoError(t, err)
	cb, err := auth.ValidateToken(b)
	require.NoError(t, err)
	require.NotEqual(t, ca.ID, cb.ID)
}

func TestTamperedTokenRejected(t *testing.T) {
	token, err := auth.GenerateToken(7)
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	tampered := parts[0] + "." + parts[1] + ".AAAA" + parts[2][4:]

	_, err = auth.ValidateToken(tampered)
	require.Error(t, err)
}

func TestGarbageTokenRejected(t *testing.T) {
	_, err := auth.ValidateToken("not-a-token")
	require.Error(t, err)
}

func TestRevokeWithoutRedisDegrades(t *testing.T) {
	// Without Redis revocation is a no-op and the token stays valid
	// until expiry.
	token, err := auth.GenerateToken(9)
	require.NoError(t, err)

	claims, err := auth.ValidateToken(token)
	require.NoError(t, err)
	require.NoError(t, auth.RevokeToken(claims))

	_, err = auth.ValidateToken(token)
	require.NoError(t, err)
}

func TestRevokeNilClaims(t *testing.T) {
	require.NoError(t, auth.RevokeToken(nil))
	require.False(t, auth.IsRevoked(nil))
}

func TestPasswordHashing(t *testing.T) {
	hash, err := auth.HashPassword("hunter2hunter2")
	require.NoError(t, err)
	require.NotEqual(t, "hunter2hunter2", hash)

	require.True(t, auth.CheckPassword(hash, "hunter2hunter2"))
	require.False(t, auth.CheckPassword(hash, "wrong"))
}
