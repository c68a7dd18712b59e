// Package secrets provides the one-way credential function applied at the
// transport boundary. The record core only ever sees the derived value.
package secrets

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Hasher derives a storage-safe value from an inbound credential. The
// function is opaque to the rest of the system: callers only rely on it
// being one-way.
type Hasher interface {
	Hash(credential string) (string, error)
}

// BcryptHasher implements Hasher with bcrypt.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher returns a Hasher using bcrypt's default cost.
func NewBcryptHasher() *BcryptHasher {
	return &BcryptHasher{cost: bcrypt.DefaultCost}
}

func (h *BcryptHasher) Hash(credential string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(credential), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash credential: %w", err)
	}
	return string(hashed), nil
}
