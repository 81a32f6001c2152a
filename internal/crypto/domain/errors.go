package domain

import (
	"github.com/allisson/onetime/internal/errors"
)

// Cryptographic operation error definitions.
//
// The split between ErrDecryptionFailed and ErrMalformedCiphertext is load
// bearing: only an integrity failure may trigger the nil-global-secret
// fallback attempt. A malformed blob is rejected before any key is tried and
// is never retried.
var (
	// ErrUnsupportedAlgorithm indicates the requested AEAD algorithm is not
	// supported. Supported: aes-gcm, chacha20-poly1305.
	ErrUnsupportedAlgorithm = errors.Wrap(errors.ErrInvalidInput, "unsupported algorithm")

	// ErrInvalidKeySize indicates a derived or supplied key is not 32 bytes.
	ErrInvalidKeySize = errors.Wrap(errors.ErrInvalidInput, "invalid key size")

	// ErrDecryptionFailed indicates an authenticated decryption failed its
	// integrity check. This covers both a wrong passphrase and a wrong or
	// rotated global secret; the ciphertext alone cannot distinguish them,
	// and the specific cause is deliberately not disclosed.
	ErrDecryptionFailed = errors.Wrap(errors.ErrInvalidInput, "decryption failed")

	// ErrMalformedCiphertext indicates the ciphertext blob is not validly
	// formatted for the cipher (e.g., shorter than nonce plus tag). Distinct
	// from an integrity failure; surfaced immediately without fallback.
	ErrMalformedCiphertext = errors.Wrap(errors.ErrInvalidInput, "malformed ciphertext")

	// ErrUnsupportedSchemeVersion indicates the stored value_encryption tag
	// names a scheme this build does not implement. Only version 2 is defined.
	ErrUnsupportedSchemeVersion = errors.Wrap(errors.ErrInvalidInput, "unsupported encryption scheme version")
)
