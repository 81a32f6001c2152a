package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	cryptoDomain "github.com/allisson/onetime/internal/crypto/domain"
)

func TestDeriveKey(t *testing.T) {
	global := cryptoDomain.NewGlobalSecret("regular-secret-key")

	t.Run("Deterministic", func(t *testing.T) {
		first := DeriveKey(global, "abc123", "testpassphrase")
		second := DeriveKey(global, "abc123", "testpassphrase")

		assert.Len(t, first, cryptoDomain.KeySize)
		assert.Equal(t, first, second)
	})

	t.Run("NilGlobalSecretIsDistinctFromEmptyString", func(t *testing.T) {
		withNil := DeriveKey(cryptoDomain.NilGlobalSecret(), "abc123", "testpassphrase")
		withEmpty := DeriveKey(cryptoDomain.NewGlobalSecret(""), "abc123", "testpassphrase")

		assert.NotEqual(t, withNil, withEmpty)
	})

	t.Run("DifferentIdentifiersDeriveDifferentKeys", func(t *testing.T) {
		first := DeriveKey(global, "abc123", "testpassphrase")
		second := DeriveKey(global, "xyz789", "testpassphrase")

		assert.NotEqual(t, first, second)
	})

	t.Run("DifferentPassphrasesDeriveDifferentKeys", func(t *testing.T) {
		first := DeriveKey(global, "abc123", "testpassphrase")
		second := DeriveKey(global, "abc123", "wrong")

		assert.NotEqual(t, first, second)
	})

	t.Run("DifferentGlobalSecretsDeriveDifferentKeys", func(t *testing.T) {
		first := DeriveKey(global, "abc123", "testpassphrase")
		second := DeriveKey(cryptoDomain.NewGlobalSecret("rotated-secret-key"), "abc123", "testpassphrase")

		assert.NotEqual(t, first, second)
	})

	t.Run("InputBoundariesAreUnambiguous", func(t *testing.T) {
		// Moving a character between the identifier and the passphrase must
		// not collide thanks to hashing the identifier into the salt.
		first := DeriveKey(global, "abc12", "3testpassphrase")
		second := DeriveKey(global, "abc123", "testpassphrase")

		assert.NotEqual(t, first, second)
	})
}
