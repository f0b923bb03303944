package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery")
	require.NoError(t, err)

	saltHex, keyHex, ok := strings.Cut(hash, ":")
	require.True(t, ok, "hash should be saltHex:keyHex")
	assert.Len(t, saltHex, argonSaltLen*2)
	assert.Len(t, keyHex, int(argonKeyLen)*2)

	assert.True(t, VerifyPassword("correct horse battery", hash))
	assert.False(t, VerifyPassword("wrong password", hash))
}

func TestHashPasswordUniqueSalts(t *testing.T) {
	h1, err := HashPassword("same password")
	require.NoError(t, err)
	h2, err := HashPassword("same password")
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2)
	assert.True(t, VerifyPassword("same password", h1))
	assert.True(t, VerifyPassword("same password", h2))
}

func TestVerifyPasswordMalformedStored(t *testing.T) {
	for _, stored := range []string{"", "no-separator", "nothex:abcdef", "abcdef:nothex"} {
		assert.False(t, VerifyPassword("anything", stored), "stored %q", stored)
	}
}
