// Package validation holds the account format rules: email shape, username
// charset and length, and password strength. All checks are pure functions
// returning a *domain.ValidationError with a client-safe message.
package validation

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/Bappoz/auth-system/internal/core/domain"
)

const (
	maxEmailLength    = 255
	minUsernameLength = 3
	maxUsernameLength = 50
	minPasswordLength = 8

	// specialChars is the full set accepted as a password special character.
	specialChars = "!@#$%^&*()_+-=[]{}|;:,.<>?"
)

var (
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

	// First and last character must be alphanumeric; underscore and hyphen
	// are only allowed in between.
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_-]*[a-zA-Z0-9]$`)
)

// ValidateEmail checks that the address matches local@domain.tld with a TLD
// of at least two letters, and does not exceed 255 characters.
func ValidateEmail(email string) error {
	if !emailPattern.MatchString(email) {
		return domain.NewValidationError("Invalid email format")
	}
	if len(email) > maxEmailLength {
		return domain.NewValidationError("Email is too long (max 255 characters)")
	}
	return nil
}

// ValidateUsername checks length (3-50) and charset (letters, digits,
// underscore, hyphen; must start and end with a letter or digit).
func ValidateUsername(username string) error {
	if len(username) < minUsernameLength {
		return domain.NewValidationError("Username must be at least 3 characters long")
	}
	if len(username) > maxUsernameLength {
		return domain.NewValidationError("Username is too long (max 50 characters)")
	}
	if !usernamePattern.MatchString(username) {
		return domain.NewValidationError(
			"Username can only contain letters, numbers, underscore and hyphen. Cannot start or end with special characters")
	}
	return nil
}

// ValidatePassword enforces the strength rules: at least 8 characters, one
// uppercase letter, one lowercase letter, one digit, and one special
// character. Unlike the other validators it aggregates every unmet rule
// into a single message rather than stopping at the first failure.
func ValidatePassword(password string) error {
	var unmet []string

	if len(password) < minPasswordLength {
		unmet = append(unmet, "at least 8 characters")
	}
	if !containsFunc(password, unicode.IsUpper) {
		unmet = append(unmet, "at least one uppercase letter (A-Z)")
	}
	if !containsFunc(password, unicode.IsLower) {
		unmet = append(unmet, "at least one lowercase letter (a-z)")
	}
	if !containsFunc(password, unicode.IsDigit) {
		unmet = append(unmet, "at least one number (0-9)")
	}
	if !strings.ContainsAny(password, specialChars) {
		unmet = append(unmet, "at least one special character")
	}

	if len(unmet) > 0 {
		return domain.NewValidationError("Password must contain: " + strings.Join(unmet, ", "))
	}
	return nil
}

func containsFunc(s string, fn func(rune) bool) bool {
	for _, r := range s {
		if fn(r) {
			return true
		}
	}
	return false
}
