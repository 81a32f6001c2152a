package service

import (
	"fmt"

	cryptoDomain "github.com/allisson/onetime/internal/crypto/domain"
	apperrors "github.com/allisson/onetime/internal/errors"
)

// SecretCipherService implements SecretCipher: versioned passphrase-derived
// encryption with an opt-in fallback decryption path for global-secret
// rotation.
//
// The service is pure with respect to runtime state: the current global
// secret and the allow-nil flag are resolved by the caller and passed in as
// parameters, keeping both code paths independently testable.
type SecretCipherService struct {
	aeadManager AEADManager
	algorithm   cryptoDomain.Algorithm
}

// NewSecretCipher creates a SecretCipherService that seals new secrets with
// the given algorithm.
func NewSecretCipher(aeadManager AEADManager, alg cryptoDomain.Algorithm) *SecretCipherService {
	return &SecretCipherService{
		aeadManager: aeadManager,
		algorithm:   alg,
	}
}

// Algorithm returns the AEAD algorithm used for new encryptions.
func (s *SecretCipherService) Algorithm() cryptoDomain.Algorithm {
	return s.algorithm
}

// Encrypt seals plaintext under the key derived from (global, identifier,
// passphrase). The returned version must be persisted as the record's
// value_encryption so the matching decryption scheme is chosen later.
func (s *SecretCipherService) Encrypt(
	plaintext []byte,
	identifier, passphrase string,
	global cryptoDomain.GlobalSecret,
) ([]byte, cryptoDomain.SchemeVersion, error) {
	key := DeriveKey(global, identifier, passphrase)
	defer cryptoDomain.Zero(key)

	aead, err := s.aeadManager.CreateCipher(key, s.algorithm)
	if err != nil {
		return nil, 0, err
	}

	blob, err := aead.Seal(plaintext, schemeAAD(cryptoDomain.SchemeV2))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to encrypt secret value: %w", err)
	}

	return blob, cryptoDomain.SchemeV2, nil
}

// Decrypt recovers plaintext from a ciphertext blob.
//
// The primary attempt uses a key derived from the current global secret. If
// that attempt fails its integrity check and allowNilFallback is true, one
// additional attempt is made with a key derived as though the global secret
// were nil, tolerating an operator rotating the global secret away from nil
// without invalidating stored secrets.
//
// A wrong passphrase derives a wrong key on both attempts, so it fails
// identically with ErrDecryptionFailed regardless of the flag; the integrity
// check is what gates success, not the fallback logic. Malformed blobs and
// any other non-integrity error are propagated immediately, never retried.
func (s *SecretCipherService) Decrypt(
	blob []byte,
	version cryptoDomain.SchemeVersion,
	alg cryptoDomain.Algorithm,
	identifier, passphrase string,
	global cryptoDomain.GlobalSecret,
	allowNilFallback bool,
) ([]byte, error) {
	if version != cryptoDomain.SchemeV2 {
		return nil, cryptoDomain.ErrUnsupportedSchemeVersion
	}

	plaintext, err := s.open(blob, version, alg, identifier, passphrase, global)
	if err == nil {
		return plaintext, nil
	}
	if !apperrors.Is(err, cryptoDomain.ErrDecryptionFailed) {
		return nil, err
	}
	if !allowNilFallback {
		return nil, err
	}
	if global.IsNil() {
		// The fallback key would equal the primary key; a second attempt
		// cannot change the outcome.
		return nil, err
	}

	return s.open(blob, version, alg, identifier, passphrase, cryptoDomain.NilGlobalSecret())
}

// open performs a single decryption attempt with the key derived from the
// given global secret.
func (s *SecretCipherService) open(
	blob []byte,
	version cryptoDomain.SchemeVersion,
	alg cryptoDomain.Algorithm,
	identifier, passphrase string,
	global cryptoDomain.GlobalSecret,
) ([]byte, error) {
	key := DeriveKey(global, identifier, passphrase)
	defer cryptoDomain.Zero(key)

	aead, err := s.aeadManager.CreateCipher(key, alg)
	if err != nil {
		return nil, err
	}

	return aead.Open(blob, schemeAAD(version))
}

// schemeAAD binds the value_encryption version tag into the authenticated
// data so a tampered version tag fails the integrity check.
func schemeAAD(version cryptoDomain.SchemeVersion) []byte {
	return []byte(fmt.Sprintf("value_encryption=%d", version))
}
