package service

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
)

// identifierChars excludes characters that are easy to misread in a share
// link (0/O, 1/l/I).
const identifierChars = "abcdefghijkmnopqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// IdentifierLength is the default length of generated share identifiers.
const IdentifierLength = 27

type identifierGenerator struct{}

// NewIdentifierGenerator creates a generator for public share identifiers.
func NewIdentifierGenerator() IdentifierGenerator {
	return &identifierGenerator{}
}

// Generate creates a cryptographically secure random identifier of the
// specified length. Returns an error if length is less than 1 or greater
// than 255.
func (g *identifierGenerator) Generate(length int) (string, error) {
	if length < 1 {
		return "", errors.New("length must be at least 1")
	}
	if length > 255 {
		return "", errors.New("length must not exceed 255")
	}

	identifier := make([]byte, length)
	charsLen := big.NewInt(int64(len(identifierChars)))

	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, charsLen)
		if err != nil {
			return "", fmt.Errorf("failed to generate random character: %w", err)
		}
		identifier[i] = identifierChars[n.Int64()]
	}

	return string(identifier), nil
}

// Validate checks that the identifier only contains characters this
// generator emits and has a plausible length.
func (g *identifierGenerator) Validate(identifier string) error {
	if len(identifier) == 0 {
		return errors.New("identifier cannot be empty")
	}
	if len(identifier) > 255 {
		return errors.New("identifier must not exceed 255 characters")
	}

	for _, c := range identifier {
		if !isIdentifierChar(byte(c)) {
			return errors.New("identifier contains invalid characters")
		}
	}

	return nil
}

func isIdentifierChar(c byte) bool {
	for i := 0; i < len(identifierChars); i++ {
		if identifierChars[i] == c {
			return true
		}
	}
	return false
}
