package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// ErrNoSecret is returned by Hash when asked to hash an empty secret.
var ErrNoSecret = errors.New("secret is empty")

// SecretValidator checks presented credentials against one shared secret.
// The secret is held either in plain form, compared in constant time, or as
// a bcrypt hash. A validator without a secret rejects every credential.
type SecretValidator struct {
	mu     sync.RWMutex
	secret []byte
	hash   []byte
}

// NewSecretValidator creates a validator. When hash is non-empty it takes
// precedence over secret.
func NewSecretValidator(secret, hash string) *SecretValidator {
	v := &SecretValidator{}
	v.Rotate(secret, hash)
	return v
}

// Authorize reports whether credential matches the configured secret.
func (v *SecretValidator) Authorize(credential string) bool {
	if credential == "" {
		return false
	}

	v.mu.RLock()
	secret, hash := v.secret, v.hash
	v.mu.RUnlock()

	switch {
	case len(hash) > 0:
		return bcrypt.CompareHashAndPassword(hash, []byte(credential)) == nil
	case len(secret) > 0:
		return subtle.ConstantTimeCompare(secret, []byte(credential)) == 1
	default:
		return false
	}
}

// Rotate replaces the secret. Calls to Authorize that start afterwards see
// the new value.
func (v *SecretValidator) Rotate(secret, hash string) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.secret, v.hash = nil, nil
	if hash != "" {
		v.hash = []byte(hash)
		return
	}
	if secret != "" {
		v.secret = []byte(secret)
	}
}

// Configured reports whether a secret is set.
func (v *SecretValidator) Configured() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.secret) > 0 || len(v.hash) > 0
}

// Hash returns a bcrypt hash of secret suitable for auth.secret_hash.
// A cost of zero selects bcrypt.DefaultCost.
func Hash(secret string, cost int) (string, error) {
	if secret == "" {
		return "", ErrNoSecret
	}
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash secret: %w", err)
	}
	return string(hash), nil
}
