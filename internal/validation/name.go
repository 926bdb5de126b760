package validation

import (
	"errors"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

const maxNameLength = 100

var (
	ErrNameRequired = errors.New("name is required")
	ErrNameTooLong  = errors.New("name is too long (max 100 characters)")
	ErrNameTooShort = errors.New("name must be at least 2 characters")
)

// NormalizeName trims surrounding space and composes the name to NFC so
// visually identical names compare equal.
func NormalizeName(name string) string {
	return norm.NFC.String(strings.TrimSpace(name))
}

// ValidateName validates a family or profile name
func ValidateName(name string) error {
	trimmed := strings.TrimSpace(name)

	if trimmed == "" {
		return ErrNameRequired
	}

	if utf8.RuneCountInString(trimmed) > maxNameLength {
		return ErrNameTooLong
	}

	return nil
}

// ValidateDisplayName is the stricter rule used at registration.
func ValidateDisplayName(name string) error {
	err := ValidateName(name)
	if err != nil {
		return err
	}
	if utf8.RuneCountInString(strings.TrimSpace(name)) < 2 {
		return ErrNameTooShort
	}
	return nil
}
