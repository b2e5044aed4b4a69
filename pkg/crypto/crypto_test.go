package crypto

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)
	require.NotEqual(t, "s3cret-pass", hash)

	require.True(t, VerifyPassword(hash, "s3cret-pass"))
	require.False(t, VerifyPassword(hash, "wrong-pass"))
}

func TestGenerateNumericCode(t *testing.T) {
	code, err := GenerateNumericCode(6)
	require.NoError(t, err)
	require.Len(t, code, 6)
	for _, r := range code {
		require.True(t, r >= '0' && r <= '9')
	}

	_, err = GenerateNumericCode(0)
	require.Error(t, err)
}

func TestHashTokenIsDeterministic(t *testing.T) {
	require.Equal(t, HashToken("123456"), HashToken("123456"))
	require.NotEqual(t, HashToken("123456"), HashToken("654321"))
	require.Len(t, HashToken("123456"), 64)
}

func TestGenerateTokenLength(t *testing.T) {
	token, err := GenerateToken(32)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	other, err := GenerateToken(32)
	require.NoError(t, err)
	require.NotEqual(t, token, other)
}
