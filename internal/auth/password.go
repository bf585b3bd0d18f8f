// Package auth provides the credential primitives used by the session issuer:
// one-way password hashing and signed session tokens. It keeps no state of
// its own; callers supply the secret and the stored hash.
package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword hashes a plaintext password using bcrypt with the given cost.
// Costs outside the bcrypt range fall back to bcrypt.DefaultCost.
func HashPassword(password string, cost int) (string, error) {
	if len(password) == 0 {
		return "", errors.New("password is empty")
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword compares a plaintext password with a stored bcrypt hash.
// It returns a non-nil error on mismatch.
func VerifyPassword(hash, password string) error {
	if hash == "" {
		return errors.New("password hash is empty")
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// dummyHash is a bcrypt digest of a random string nobody knows. Login runs a
// compare against it when the username does not exist so that unknown-user and
// wrong-password attempts cost the same.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// VerifyDummy burns one bcrypt comparison against a throwaway hash. It always
// returns a non-nil error.
func VerifyDummy(password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(password))
	if err == nil {
		return errors.New("dummy hash matched")
	}
	return err
}
