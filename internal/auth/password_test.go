package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHashAndCompare(t *testing.T) {
	hash, err := HashPassword("secret123", 4)
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", hash)

	assert.NoError(t, ComparePassword(hash, "secret123"))
	assert.Error(t, ComparePassword(hash, "wrong"))
}

func TestPasswordHashesDiffer(t *testing.T) {
	first, err := HashPassword("secret123", 4)
	require.NoError(t, err)
	second, err := HashPassword("secret123", 4)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}
