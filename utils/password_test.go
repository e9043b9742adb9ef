package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGatePasswordHash(t *testing.T) {
	t.Run("matches salt-prefixed sha256", func(t *testing.T) {
		saltHex := "000102030405060708090a0b0c0d0e0f"
		saltBytes, err := hex.DecodeString(saltHex)
		require.NoError(t, err)

		expected := sha256.Sum256(append(saltBytes, []byte("abcd1234")...))

		got, err := GatePasswordHash(saltHex, "abcd1234")
		require.NoError(t, err)
		assert.Equal(t, hex.EncodeToString(expected[:]), got)
		assert.Len(t, got, 64)
	})

	t.Run("deterministic for same salt and password", func(t *testing.T) {
		a, err := GatePasswordHash("a1b2c3d4", "secret")
		require.NoError(t, err)
		b, err := GatePasswordHash("a1b2c3d4", "secret")
		require.NoError(t, err)
		assert.Equal(t, a, b)
	})

	t.Run("salt changes the digest", func(t *testing.T) {
		a, err := GatePasswordHash("a1b2c3d4", "secret")
		require.NoError(t, err)
		b, err := GatePasswordHash("d4c3b2a1", "secret")
		require.NoError(t, err)
		assert.NotEqual(t, a, b)
	})

	t.Run("invalid salt hex fails", func(t *testing.T) {
		_, err := GatePasswordHash("zz", "secret")
		assert.Error(t, err)
	})
}

func TestGenerateSaltHex(t *testing.T) {
	salt, err := GenerateSaltHex(16)
	require.NoError(t, err)
	assert.Len(t, salt, 32)

	decoded, err := hex.DecodeString(salt)
	require.NoError(t, err)
	assert.Len(t, decoded, 16)

	other, err := GenerateSaltHex(16)
	require.NoError(t, err)
	assert.NotEqual(t, salt, other)
}

func TestSecretHashing(t *testing.T) {
	hash, err := HashSecret("123456")
	require.NoError(t, err)
	require.NotEmpty(t, hash)

	ok, err := VerifySecret(hash, "123456")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifySecret(hash, "654321")
	require.NoError(t, err)
	assert.False(t, ok)
}
