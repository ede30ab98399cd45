// utils/validator.go - Input validation
package utils

import (
	"regexp"
	"strings"
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	nikRegex   = regexp.MustCompile(`^[0-9]{16}$`)
	pinRegex   = regexp.MustCompile(`^[0-9]{6}$`)
)

// ValidateEmail checks if email is valid
func ValidateEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// ValidateNIK checks the 16-digit national identification number.
func ValidateNIK(nik string) bool {
	return nikRegex.MatchString(nik)
}

// ValidatePIN checks the 6-digit numeric signing PIN.
func ValidatePIN(pin string) bool {
	return pinRegex.MatchString(pin)
}

// ValidatePassword checks password strength
func ValidatePassword(password string) (bool, string) {
	if len(password) < 8 {
		return false, "Password must be at least 8 characters"
	}

	return true, ""
}

// SanitizeInput removes potentially harmful characters
func SanitizeInput(input string) string {
	input = strings.TrimSpace(input)
	input = strings.ReplaceAll(input, "\x00", "")

	return input
}
