package crypto

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost is the bcrypt cost used for new password hashes.
const DefaultCost = bcrypt.DefaultCost

// HashPassword returns a bcrypt hash of password.
func HashPassword(password string, cost int) (string, error) {
	if password == "" {
		return "", fmt.Errorf("password cannot be empty")
	}
	if cost == 0 {
		cost = DefaultCost
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// LegacyHash is the unsalted SHA-256 hex digest written by earlier
// releases. It is only used to verify and upgrade old rows.
func LegacyHash(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// IsLegacyHash reports whether stored is an unsalted SHA-256 digest.
func IsLegacyHash(stored string) bool {
	return !strings.HasPrefix(stored, "$2")
}

// VerifyPassword checks password against a stored bcrypt or legacy hash.
func VerifyPassword(password, stored string) bool {
	if stored == "" {
		return false
	}
	if IsLegacyHash(stored) {
		computed := LegacyHash(password)
		return subtle.ConstantTimeCompare([]byte(computed), []byte(strings.ToLower(stored))) == 1
	}
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) == nil
}
