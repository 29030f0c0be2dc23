package identity

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	MinUsernameLength = 3
	MaxUsernameLength = 20
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// ValidateUsername checks the format of a username. Checks run in order and
// the first failure is reported.
func ValidateUsername(username string) ValidationResult {
	switch n := utf8.RuneCountInString(username); {
	case strings.TrimSpace(username) == "":
		return invalid("Username is required")
	case n < MinUsernameLength:
		return invalid("Username must be at least 3 characters long")
	case n > MaxUsernameLength:
		return invalid("Username must be less than 20 characters long")
	case !usernamePattern.MatchString(username):
		return invalid("Username can only contain letters, numbers, underscores, and hyphens")
	}
	return ValidationResult{Valid: true}
}

func invalid(msg string) ValidationResult {
	return ValidationResult{Valid: false, Error: msg}
}
