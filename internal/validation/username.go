package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// UsernamePattern accepts letters, digits, spaces, dots, dashes and
// underscores.
var UsernamePattern = regexp.MustCompile(`^[\p{L}\p{N}_.\- ]+$`)

const (
	// MinUsernameLen is the minimum username length in characters.
	MinUsernameLen = 3
	// MaxUsernameLen matches the users.username column width.
	MaxUsernameLen = 50
	// MinPasswordLen is the minimum password length in characters.
	MinPasswordLen = 4
)

// NormalizeUsername trims surrounding whitespace. Case is preserved;
// usernames compare case-sensitively.
func NormalizeUsername(username string) string {
	return strings.TrimSpace(username)
}

// ValidateUsername checks a normalized username.
func ValidateUsername(username string) error {
	if username == "" {
		return fmt.Errorf("username cannot be empty")
	}

	n := utf8.RuneCountInString(username)
	if n < MinUsernameLen {
		return fmt.Errorf("username must be at least %d characters long", MinUsernameLen)
	}
	if n > MaxUsernameLen {
		return fmt.Errorf("username must not exceed %d characters", MaxUsernameLen)
	}

	if !UsernamePattern.MatchString(username) {
		return fmt.Errorf("username can only contain letters, numbers, spaces, dots, dashes and underscores")
	}

	return nil
}

// ValidatePassword checks the minimum password requirements.
func ValidatePassword(password string) error {
	if password == "" {
		return fmt.Errorf("password cannot be empty")
	}

	if utf8.RuneCountInString(password) < MinPasswordLen {
		return fmt.Errorf("password must be at least %d characters long", MinPasswordLen)
	}

	return nil
}
