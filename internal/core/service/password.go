package service

import (
	"golang.org/x/crypto/bcrypt"
)

// BcryptVerifier checks passwords against bcrypt hashes. It holds no state
// and is safe for concurrent use.
type BcryptVerifier struct{}

func NewBcryptVerifier() BcryptVerifier {
	return BcryptVerifier{}
}

// Verify reports whether plaintext matches storedHash. A malformed or empty
// hash is a mismatch.
func (BcryptVerifier) Verify(plaintext, storedHash string) bool {
	if storedHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(plaintext)) == nil
}

// HashPassword returns a salted bcrypt hash. cost <= 0 selects bcrypt.DefaultCost.
func HashPassword(plaintext string, cost int) (string, error) {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
