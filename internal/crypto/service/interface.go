// Package service implements the cryptographic services for passphrase-derived
// secret encryption: AEAD primitives, key derivation, and the versioned
// encrypt/decrypt path with nil-global-secret fallback.
package service

import (
	"context"

	cryptoDomain "github.com/allisson/onetime/internal/crypto/domain"
)

// AEAD is an authenticated cipher operating on self-contained ciphertext
// blobs. Seal prepends the random nonce to the ciphertext so the blob can be
// stored as opaque bytes; Open splits and verifies it.
type AEAD interface {
	// Seal encrypts plaintext and returns nonce||ciphertext||tag as one blob.
	// The aad is authenticated but not encrypted.
	Seal(plaintext, aad []byte) ([]byte, error)

	// Open decrypts a blob produced by Seal. It returns
	// domain.ErrMalformedCiphertext if the blob is structurally invalid and
	// domain.ErrDecryptionFailed if the integrity check fails.
	Open(blob, aad []byte) ([]byte, error)
}

// AEADManager creates AEAD cipher instances for a key and algorithm.
type AEADManager interface {
	CreateCipher(key []byte, alg cryptoDomain.Algorithm) (AEAD, error)
}

// SecretCipher owns key derivation, encryption, and decryption for a single
// secret's payload, given a passphrase and a possibly-nil global secret.
type SecretCipher interface {
	// Encrypt seals plaintext under a key derived from (global, identifier,
	// passphrase) and returns the ciphertext blob together with the scheme
	// version the caller must persist as value_encryption.
	Encrypt(
		plaintext []byte,
		identifier, passphrase string,
		global cryptoDomain.GlobalSecret,
	) (blob []byte, version cryptoDomain.SchemeVersion, err error)

	// Decrypt recovers plaintext from a blob. On an integrity failure with
	// allowNilFallback enabled, it makes exactly one additional attempt with
	// a key derived as though the global secret were nil. Malformed blobs and
	// non-integrity errors are never retried.
	Decrypt(
		blob []byte,
		version cryptoDomain.SchemeVersion,
		alg cryptoDomain.Algorithm,
		identifier, passphrase string,
		global cryptoDomain.GlobalSecret,
		allowNilFallback bool,
	) ([]byte, error)

	// Algorithm returns the AEAD algorithm used for new encryptions.
	Algorithm() cryptoDomain.Algorithm
}

// KMSKeeper is the subset of gocloud.dev/secrets.Keeper used to unwrap the
// KMS-encrypted global secret at boot.
type KMSKeeper interface {
	Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error)
	Encrypt(ctx context.Context, plaintext []byte) ([]byte, error)
	Close() error
}
