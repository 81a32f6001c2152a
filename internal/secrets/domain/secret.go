// Package domain defines the core domain model for one-time secrets. A secret
// is created once, shared by identifier, and revealed at most once; after a
// reveal or burn only lifecycle metadata survives.
package domain

import (
	"time"

	"github.com/google/uuid"

	cryptoDomain "github.com/allisson/onetime/internal/crypto/domain"
)

// State describes where a secret is in its one-time lifecycle.
type State string

const (
	// StatePending means the secret is stored and has not been revealed.
	StatePending State = "pending"
	// StateRevealed means the recipient has consumed the secret.
	StateRevealed State = "revealed"
	// StateBurned means the creator destroyed the secret before it was read.
	StateBurned State = "burned"
	// StateExpired means the secret outlived its TTL without being read.
	StateExpired State = "expired"
)

// Secret represents a one-time secret record.
type Secret struct {
	// ID is the unique identifier of the database row.
	ID uuid.UUID
	// Identifier is the public share identifier. It doubles as key-derivation
	// salt material, which is why two secrets with the same passphrase and
	// global secret still derive different keys.
	Identifier string
	// Ciphertext is the sealed secret value. Cleared on reveal and burn.
	Ciphertext []byte
	// ValueEncryption is the version tag of the key-derivation/encryption
	// scheme that produced Ciphertext. Interpreted before decryption.
	ValueEncryption cryptoDomain.SchemeVersion
	// Algorithm is the AEAD used to seal Ciphertext.
	Algorithm cryptoDomain.Algorithm
	// PassphraseProtected reports whether the creator supplied a passphrase.
	// Reveal requests must present it; it is never persisted.
	PassphraseProtected bool
	// MetadataTokenHash is the Argon2id hash of the creator's metadata token,
	// which authorizes burn and metadata operations.
	MetadataTokenHash string
	// ExpiresAt is when the secret stops being revealable.
	ExpiresAt time.Time
	// CreatedAt is the UTC creation timestamp.
	CreatedAt time.Time
	// RevealedAt is set when the recipient consumed the secret.
	RevealedAt *time.Time
	// BurnedAt is set when the creator destroyed the secret.
	BurnedAt *time.Time

	// Plaintext holds the decrypted value in memory only, never persisted;
	// callers must Zero it after use.
	Plaintext []byte `json:"-"`
}

// StateAt returns the secret's lifecycle state at the given time.
// Reveal and burn take precedence over expiry: a consumed secret stays
// consumed even after its TTL passes.
func (s *Secret) StateAt(now time.Time) State {
	switch {
	case s.BurnedAt != nil:
		return StateBurned
	case s.RevealedAt != nil:
		return StateRevealed
	case now.After(s.ExpiresAt):
		return StateExpired
	default:
		return StatePending
	}
}

// Revealable reports whether the secret can still be consumed at the given time.
func (s *Secret) Revealable(now time.Time) bool {
	return s.StateAt(now) == StatePending
}
