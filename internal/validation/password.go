package validation

import (
	"errors"
	"strings"
)

var (
	ErrPasswordTooShort = errors.New("password must be at least 6 characters")
	ErrPasswordTooLong  = errors.New("password must not exceed 72 characters")
	ErrPasswordCommon   = errors.New("password is too common, please choose a stronger one")
)

// ValidatePassword validates password strength
func ValidatePassword(password string) error {
	if len(password) < 6 {
		return ErrPasswordTooShort
	}

	// bcrypt silently truncates passwords longer than 72 bytes
	if len(password) > 72 {
		return ErrPasswordTooLong
	}

	lower := strings.ToLower(password)
	commonPatterns := []string{
		"password", "123456", "qwerty", "letmein", "doorbell",
	}

	for _, pattern := range commonPatterns {
		if strings.Contains(lower, pattern) {
			return ErrPasswordCommon
		}
	}

	return nil
}
