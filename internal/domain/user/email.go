package user

import (
	"fmt"
	"regexp"
	"strings"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

const maxEmailLength = 100

// NormalizeEmail lowercases and trims value and checks its format.
func NormalizeEmail(value string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	if normalized == "" {
		return "", fmt.Errorf("email cannot be empty")
	}
	if len(normalized) > maxEmailLength {
		return "", fmt.Errorf("email cannot exceed %d characters", maxEmailLength)
	}
	if !emailRegex.MatchString(normalized) {
		return "", fmt.Errorf("invalid email format: %s", value)
	}
	return normalized, nil
}
