package cryptox

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashSecret_Deterministic(t *testing.T) {
	salt := RandomSalt()
	a := HashSecret("s3cret", salt)
	b := HashSecret("s3cret", salt)
	assert.Equal(t, a, b)
}

func TestHashSecret_SaltChangesHash(t *testing.T) {
	a := HashSecret("s3cret", RandomSalt())
	b := HashSecret("s3cret", RandomSalt())
	assert.NotEqual(t, a, b)
}

func TestVerifySecret(t *testing.T) {
	salt := RandomSalt()
	hash := HashSecret("correct horse", salt)

	assert.True(t, VerifySecret("correct horse", salt, hash))
	assert.False(t, VerifySecret("wrong horse", salt, hash))
	assert.False(t, VerifySecret("", salt, hash))
}

func TestRandomSalt_Size(t *testing.T) {
	s := RandomSalt()
	require.Len(t, s, saltSize)
}
