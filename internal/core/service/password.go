package service

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/friendconnect/auth-service/internal/core/domain"
)

// bcrypt refuses inputs longer than 72 bytes. The limit is on bytes, not
// runes, so a short multibyte password can still exceed it.
const maxPasswordBytes = 72

// BcryptHasher implements ports.PasswordHasher on top of bcrypt.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher creates a hasher with the given cost; values outside the
// bcrypt range fall back to bcrypt.DefaultCost.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

// Hash produces a salted bcrypt hash. Two calls with the same input yield
// different hashes, both of which verify against the original plaintext.
func (h *BcryptHasher) Hash(password string) (string, error) {
	if password == "" {
		return "", domain.ErrInvalidCredentials
	}
	if len(password) > maxPasswordBytes {
		return "", domain.ErrPasswordTooLong
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Check reports whether password matches hash. bcrypt compares in constant
// time; a malformed hash is treated as a mismatch, not an error.
func (h *BcryptHasher) Check(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
