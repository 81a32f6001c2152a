package service

import (
	"crypto/sha256"
	"encoding/binary"
	"io"

	"golang.org/x/crypto/hkdf"

	cryptoDomain "github.com/allisson/onetime/internal/crypto/domain"
)

// derivationLabel domain-separates keys derived by this scheme from any other
// HKDF use of the same inputs.
const derivationLabel = "onetime.secret.v2"

// DeriveKey produces the 32-byte symmetric key for a secret from the global
// secret, the secret's identifier, and the creator-supplied passphrase.
//
// The function is pure and deterministic: the same three inputs always yield
// the same key. The identifier acts as per-secret salt, so two secrets with
// the same passphrase and global secret still derive different keys. A nil
// global secret is a distinct input, not equivalent to the empty string.
//
// Callers should Zero the returned key as soon as it is no longer needed.
func DeriveKey(global cryptoDomain.GlobalSecret, identifier, passphrase string) []byte {
	salt := sha256.Sum256([]byte(identifier))
	reader := hkdf.New(sha256.New, []byte(passphrase), salt[:], derivationInfo(global))

	key := make([]byte, cryptoDomain.KeySize)
	if _, err := io.ReadFull(reader, key); err != nil {
		// HKDF cannot fail for a single 32-byte block.
		panic(err)
	}
	return key
}

// derivationInfo encodes the global secret into the HKDF info parameter with
// unambiguous framing: a presence marker followed by a length-prefixed value.
// The absent marker (0x00) has no value bytes, so derive(nil, ...) and
// derive("", ...) produce different keys.
func derivationInfo(global cryptoDomain.GlobalSecret) []byte {
	info := make([]byte, 0, len(derivationLabel)+6)
	info = append(info, derivationLabel...)

	value, ok := global.Value()
	if !ok {
		return append(info, 0x00)
	}

	info = append(info, 0x01)
	info = binary.BigEndian.AppendUint32(info, uint32(len(value)))
	return append(info, value...)
}
