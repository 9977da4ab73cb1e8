package utils

import (
	"golang.org/x/crypto/bcrypt"
)

// HashPassword derives a bcrypt hash at the default cost. The salt is embedded
// in the hash, so the returned string is all that gets stored for a user.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(hash), err
}

// CheckPasswordHash reports whether the plaintext matches the stored bcrypt hash.
func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
