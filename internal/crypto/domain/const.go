// Package domain defines core cryptographic types for passphrase-derived
// secret encryption: the encryption scheme version tag, supported AEAD
// algorithms, and the runtime global-secret state.
package domain

// SchemeVersion identifies which key-derivation/encryption scheme produced a
// stored ciphertext. The version is persisted alongside the ciphertext and
// must be interpreted before choosing a decryption path.
type SchemeVersion int

const (
	// SchemeV2 derives a per-secret key from the global secret, the secret's
	// identifier, and the creator-supplied passphrase, then seals the value
	// with an AEAD. This is the only scheme defined for new writes.
	SchemeV2 SchemeVersion = 2
)

// KeySize is the symmetric key size in bytes produced by key derivation and
// required by both supported AEADs.
const KeySize = 32

// Algorithm represents the AEAD used to seal a secret value.
//
// Both algorithms provide authenticated encryption: decryption with a wrong
// key fails with an integrity error instead of returning garbage plaintext.
type Algorithm string

const (
	// AESGCM is AES-256-GCM. Preferred on CPUs with AES-NI acceleration.
	AESGCM Algorithm = "aes-gcm"

	// ChaCha20 is ChaCha20-Poly1305. Preferred on platforms without AES
	// hardware support; constant-time in software.
	ChaCha20 Algorithm = "chacha20-poly1305"
)

// ParseAlgorithm converts a configuration string to an Algorithm.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch Algorithm(s) {
	case AESGCM:
		return AESGCM, nil
	case ChaCha20:
		return ChaCha20, nil
	default:
		return "", ErrUnsupportedAlgorithm
	}
}
