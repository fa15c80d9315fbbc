package crypto

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("Password123!")
	require.NoError(t, err)
	require.NotEqual(t, "Password123!", hash)
	require.True(t, strings.HasPrefix(hash, "$2"))

	require.True(t, VerifyPassword(hash, "Password123!"))
	require.False(t, VerifyPassword(hash, "password123!"))
	require.False(t, VerifyPassword("not-a-hash", "Password123!"))
}

func TestHashPasswordSalts(t *testing.T) {
	first, err := HashPassword("same-input")
	require.NoError(t, err)
	second, err := HashPassword("same-input")
	require.NoError(t, err)
	require.NotEqual(t, first, second)
}
