// Package usecase implements business logic for one-time secrets: creation
// with passphrase-derived encryption, exactly-once reveal with fallback
// decryption, creator burn, and expired-secret cleanup.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	secretsDomain "github.com/allisson/onetime/internal/secrets/domain"
)

// SecretRepository defines the persistence operations for one-time secrets.
type SecretRepository interface {
	Create(ctx context.Context, secret *secretsDomain.Secret) error
	GetByIdentifier(ctx context.Context, identifier string) (*secretsDomain.Secret, error)
	// ClaimReveal conditionally marks the secret revealed and clears its
	// ciphertext; exactly one concurrent claimer succeeds.
	ClaimReveal(ctx context.Context, secretID uuid.UUID, revealedAt time.Time) error
	// Burn conditionally marks the secret burned and clears its ciphertext.
	Burn(ctx context.Context, secretID uuid.UUID, burnedAt time.Time) error
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
	CountExpired(ctx context.Context, before time.Time) (int64, error)
}

// CreateSecretInput carries the parameters for creating a one-time secret.
type CreateSecretInput struct {
	// Value is the plaintext secret to protect.
	Value []byte
	// Passphrase is the optional creator-supplied passphrase. It participates
	// in key derivation and is never persisted; empty means unprotected.
	Passphrase string
	// TTL is the requested lifetime; zero applies the configured default.
	TTL time.Duration
}

// CreatedSecret is the result of creating a secret. The metadata token is
// returned exactly once and only its hash is stored.
type CreatedSecret struct {
	Secret        *secretsDomain.Secret
	MetadataToken string
}

// SecretUseCase defines the business operations for one-time secrets.
type SecretUseCase interface {
	// Create encrypts and stores a new secret, returning the share identifier
	// and the one-time metadata token.
	Create(ctx context.Context, input CreateSecretInput) (*CreatedSecret, error)

	// Reveal decrypts and consumes a secret. It succeeds at most once per
	// secret; the returned Secret carries the plaintext in memory only and
	// callers must zero it after use.
	Reveal(ctx context.Context, identifier, passphrase string) (*secretsDomain.Secret, error)

	// Burn destroys an unread secret. Requires the creator's metadata token.
	Burn(ctx context.Context, identifier, metadataToken string) (*secretsDomain.Secret, error)

	// Metadata returns a secret's lifecycle state without touching ciphertext.
	Metadata(ctx context.Context, identifier string) (*secretsDomain.Secret, error)

	// CleanupExpired removes secrets that expired more than the given number
	// of days ago. With dryRun it only reports the count.
	CleanupExpired(ctx context.Context, days int, dryRun bool) (int64, error)
}
