// Package credentials hashes and verifies principal passwords with bcrypt.
// Plaintext passwords are never persisted or logged; every principal table
// stores its own bcrypt digest.
package credentials

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Store wraps bcrypt with a fixed cost.
type Store struct {
	cost int
}

// NewStore creates a credential store with the default bcrypt cost.
func NewStore() *Store {
	return &Store{cost: bcrypt.DefaultCost}
}

// Hash derives a salted one-way digest from a plaintext password.
func (s *Store) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// Verify reports whether password matches the stored digest.
func (s *Store) Verify(digest, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}

// dummyDigest is a valid bcrypt digest of an unguessable value. Comparing
// against it costs the same as a real verification.
const dummyDigest = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// VerifyDummy burns one bcrypt comparison so that lookups which miss take as
// long as lookups which hit. It always returns false.
func (s *Store) VerifyDummy(password string) bool {
	_ = bcrypt.CompareHashAndPassword([]byte(dummyDigest), []byte(password))
	return false
}
