// Package cryptox implements salted secret hashing for stored credentials.
// Raw secrets are never persisted; the store keeps only an Argon2id hash and
// the per-user salt, and comparison happens in resolver logic rather than in
// the store's query layer.
package cryptox

import (
	"crypto/subtle"

	"github.com/dmitrijs2005/blogkeeper/internal/common"
	"golang.org/x/crypto/argon2"
)

const (
	saltSize = 32

	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
	argonKeyLen  = 32
)

// RandomSalt returns a fresh per-user salt.
func RandomSalt() []byte {
	return common.GenerateRandByteArray(saltSize)
}

// HashSecret derives an Argon2id hash of secret with the given salt.
func HashSecret(secret string, salt []byte) []byte {
	return argon2.IDKey([]byte(secret), salt, argonTime, argonMemory, argonThreads, argonKeyLen)
}

// VerifySecret reports whether candidate matches the stored hash. The
// comparison is constant-time.
func VerifySecret(candidate string, salt, hash []byte) bool {
	derived := HashSecret(candidate, salt)
	return subtle.ConstantTimeCompare(derived, hash) == 1
}
