package dto

import (
	"encoding/base64"
	"time"

	secretsDomain "github.com/allisson/onetime/internal/secrets/domain"
)

// CreateSecretResponse is returned after creating a secret. The metadata
// token appears here exactly once; only its hash is stored.
type CreateSecretResponse struct {
	Identifier          string    `json:"identifier"`
	MetadataToken       string    `json:"metadata_token"`
	PassphraseProtected bool      `json:"passphrase_protected"`
	ExpiresAt           time.Time `json:"expires_at"`
	CreatedAt           time.Time `json:"created_at"`
}

// RevealSecretResponse carries the decrypted payload back to the reader.
// SECURITY: Value contains the plaintext base64-encoded; HTTPS only.
type RevealSecretResponse struct {
	Identifier string    `json:"identifier"`
	Value      string    `json:"value"`
	RevealedAt time.Time `json:"revealed_at"`
}

// SecretMetadataResponse describes a secret's lifecycle without exposing
// its payload.
type SecretMetadataResponse struct {
	Identifier          string     `json:"identifier"`
	State               string     `json:"state"`
	PassphraseProtected bool       `json:"passphrase_protected"`
	ExpiresAt           time.Time  `json:"expires_at"`
	CreatedAt           time.Time  `json:"created_at"`
	RevealedAt          *time.Time `json:"revealed_at,omitempty"`
	BurnedAt            *time.Time `json:"burned_at,omitempty"`
}

// MapSecretToCreateResponse converts a created secret and its one-time
// metadata token to an API response.
func MapSecretToCreateResponse(secret *secretsDomain.Secret, metadataToken string) CreateSecretResponse {
	return CreateSecretResponse{
		Identifier:          secret.Identifier,
		MetadataToken:       metadataToken,
		PassphraseProtected: secret.PassphraseProtected,
		ExpiresAt:           secret.ExpiresAt,
		CreatedAt:           secret.CreatedAt,
	}
}

// MapSecretToRevealResponse converts a revealed secret to an API response.
// The caller must zero secret.Plaintext after mapping.
func MapSecretToRevealResponse(secret *secretsDomain.Secret) RevealSecretResponse {
	return RevealSecretResponse{
		Identifier: secret.Identifier,
		Value:      base64.StdEncoding.EncodeToString(secret.Plaintext),
		RevealedAt: *secret.RevealedAt,
	}
}

// MapSecretToMetadataResponse converts a secret to its lifecycle view as of now.
func MapSecretToMetadataResponse(secret *secretsDomain.Secret, now time.Time) SecretMetadataResponse {
	return SecretMetadataResponse{
		Identifier:          secret.Identifier,
		State:               string(secret.StateAt(now)),
		PassphraseProtected: secret.PassphraseProtected,
		ExpiresAt:           secret.ExpiresAt,
		CreatedAt:           secret.CreatedAt,
		RevealedAt:          secret.RevealedAt,
		BurnedAt:            secret.BurnedAt,
	}
}
