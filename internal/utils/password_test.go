package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("Sup3r!pass")
	require.NoError(t, err)
	assert.False(t, IsLegacyHash(hash))

	ok, rehash, err := VerifyPassword(hash, "Sup3r!pass")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.False(t, rehash)

	ok, _, err = VerifyPassword(hash, "wrong")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyPassword_LegacyBcrypt(t *testing.T) {
	b, err := bcrypt.GenerateFromPassword([]byte("Sup3r!pass"), bcrypt.MinCost)
	require.NoError(t, err)
	hash := string(b)
	require.True(t, IsLegacyHash(hash))

	ok, rehash, err := VerifyPassword(hash, "Sup3r!pass")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, rehash)

	ok, rehash, err = VerifyPassword(hash, "nope")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.False(t, rehash)
}

func TestNewSessionToken(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		tok, err := NewSessionToken()
		require.NoError(t, err)
		assert.Len(t, tok, 36)
		assert.False(t, seen[tok], "duplicate token %s", tok)
		seen[tok] = true
	}
}
