package service_test

import (
	"strings"
	"testing"

	"bookshelf/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBcryptPasswordHasher(t *testing.T) {
	hasher := service.BcryptPasswordHasher{Cost: 4} // minimum cost keeps the test quick

	hash, err := hasher.Hash("pw123456")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$2a$"), "digest embeds algorithm and cost")
	assert.NotContains(t, hash, "pw123456")

	assert.True(t, hasher.Verify(hash, "pw123456"))
	assert.False(t, hasher.Verify(hash, "pw1234567"))
	assert.False(t, hasher.Verify("not-a-hash", "pw123456"))
}

func TestBcryptPasswordHasherSaltsEachDigest(t *testing.T) {
	hasher := service.BcryptPasswordHasher{Cost: 4}

	first, err := hasher.Hash("pw123456")
	require.NoError(t, err)
	second, err := hasher.Hash("pw123456")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, hasher.Verify(first, "pw123456"))
	assert.True(t, hasher.Verify(second, "pw123456"))
}
