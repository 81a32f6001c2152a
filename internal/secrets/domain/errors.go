package domain

import (
	"github.com/allisson/onetime/internal/errors"
)

// Secret-specific error definitions.
var (
	// ErrSecretNotFound indicates no secret exists for the identifier.
	ErrSecretNotFound = errors.Wrap(errors.ErrNotFound, "secret not found")

	// ErrSecretAlreadyRevealed indicates the secret was already consumed.
	ErrSecretAlreadyRevealed = errors.Wrap(errors.ErrGone, "secret already revealed")

	// ErrSecretBurned indicates the creator destroyed the secret.
	ErrSecretBurned = errors.Wrap(errors.ErrGone, "secret burned")

	// ErrSecretExpired indicates the secret outlived its TTL.
	ErrSecretExpired = errors.Wrap(errors.ErrGone, "secret expired")

	// ErrInvalidMetadataToken indicates the presented metadata token does not
	// match the secret's stored hash.
	ErrInvalidMetadataToken = errors.Wrap(errors.ErrForbidden, "invalid metadata token")
)
