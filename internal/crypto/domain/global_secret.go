package domain

import (
	"sync"
)

// GlobalSecret is the process-wide, operator-configurable secondary
// key-derivation input shared by all secrets at a point in time.
//
// A nil global secret is a distinct, well-defined input: deriving with nil
// and deriving with the empty string produce different keys. The zero value
// of GlobalSecret is nil.
type GlobalSecret struct {
	value string
	set   bool
}

// NewGlobalSecret returns a present global secret with the given value.
// The empty string is a valid present value, not equivalent to nil.
func NewGlobalSecret(value string) GlobalSecret {
	return GlobalSecret{value: value, set: true}
}

// NilGlobalSecret returns the absent global secret.
func NilGlobalSecret() GlobalSecret {
	return GlobalSecret{}
}

// Value returns the secret value and whether it is present.
func (g GlobalSecret) Value() (string, bool) {
	return g.value, g.set
}

// IsNil reports whether the global secret is absent.
func (g GlobalSecret) IsNil() bool {
	return !g.set
}

// Equal reports whether two global secrets are the same input to key
// derivation (same presence and, when present, same value).
func (g GlobalSecret) Equal(other GlobalSecret) bool {
	return g.set == other.set && g.value == other.value
}

// Keystore is the single source of truth for the current global secret.
//
// The value is mutable because operators rotate it at runtime. Readers must
// consult the keystore once per operation and must not cache the value beyond
// that operation; a secret encrypted moments before a rotation is expected to
// need the fallback decryption path exactly once.
type Keystore struct {
	mu     sync.RWMutex
	global GlobalSecret
}

// NewKeystore creates a keystore holding the given global secret.
func NewKeystore(global GlobalSecret) *Keystore {
	return &Keystore{global: global}
}

// GlobalSecret returns the current global secret.
func (k *Keystore) GlobalSecret() GlobalSecret {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.global
}

// SetGlobalSecret replaces the current global secret wholesale.
func (k *Keystore) SetGlobalSecret(global GlobalSecret) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.global = global
}
