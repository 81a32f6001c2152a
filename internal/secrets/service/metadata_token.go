package service

import (
	"crypto/rand"
	"encoding/base64"

	"github.com/allisson/go-pwdhash"

	apperrors "github.com/allisson/onetime/internal/errors"
)

// metadataTokenService implements MetadataTokenService using Argon2id hashing.
type metadataTokenService struct {
	hasher *pwdhash.PasswordHasher
}

// NewMetadataTokenService creates a MetadataTokenService. Uses the moderate
// Argon2id policy for a balance between security and request latency.
func NewMetadataTokenService() MetadataTokenService {
	hasher, err := pwdhash.New(
		pwdhash.WithPolicy(pwdhash.PolicyModerate),
	)
	if err != nil {
		// This should never happen with a valid policy.
		panic(err)
	}

	return &metadataTokenService{hasher: hasher}
}

// GenerateToken creates a new cryptographically secure 32-byte random token.
// The plain token is base64-encoded for transmission; only the hash is meant
// to be persisted.
func (s *metadataTokenService) GenerateToken() (string, string, error) {
	randomBytes := make([]byte, 32)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", "", apperrors.Wrap(err, "failed to generate metadata token")
	}

	plainToken := base64.URLEncoding.EncodeToString(randomBytes)

	hashedToken, err := s.hasher.Hash([]byte(plainToken))
	if err != nil {
		return "", "", apperrors.Wrap(err, "failed to hash metadata token")
	}

	return plainToken, hashedToken, nil
}

// CompareToken performs a constant-time comparison between a plain token and
// its stored hash.
func (s *metadataTokenService) CompareToken(plainToken string, hashedToken string) bool {
	ok, err := s.hasher.Verify([]byte(plainToken), hashedToken)
	if err != nil {
		return false
	}
	return ok
}
