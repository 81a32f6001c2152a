// Package service provides supporting services for the secrets module:
// share-identifier generation and metadata-token issuance/verification.
package service

// IdentifierGenerator produces the public share identifiers used in links.
type IdentifierGenerator interface {
	// Generate creates a cryptographically secure random identifier of the
	// given length.
	Generate(length int) (string, error)

	// Validate checks that an externally supplied identifier is well formed.
	Validate(identifier string) error
}

// MetadataTokenService issues and verifies the per-secret metadata token
// that authorizes the burn operation. Only the Argon2id hash is persisted;
// the plain token is shown to the creator exactly once.
type MetadataTokenService interface {
	GenerateToken() (plainToken string, hashedToken string, err error)
	CompareToken(plainToken string, hashedToken string) bool
}
