package security_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stayfinder/internal/infra/security"
)

func TestBcryptHasher(t *testing.T) {
	hasher := security.BcryptHasher{Cost: 4}

	hash, err := hasher.Hash("correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse", hash)

	assert.NoError(t, hasher.Compare(hash, "correct horse"))
	assert.Error(t, hasher.Compare(hash, "wrong password"))
}

func TestRandomTokenGenerator(t *testing.T) {
	gen := security.RandomTokenGenerator{}

	a, err := gen.NewToken()
	require.NoError(t, err)
	b, err := gen.NewToken()
	require.NoError(t, err)

	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
	assert.NotContains(t, a, "=", "url-safe, unpadded encoding")
}
