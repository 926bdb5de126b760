package validation

import (
	"errors"
	"strings"

	"golang.org/x/text/width"
)

// JoinCodeAlphabet is the set of characters a join code is drawn from.
const JoinCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// JoinCodeLength is the length of every issued join code.
const JoinCodeLength = 6

var (
	ErrJoinCodeRequired = errors.New("join code is required")
	ErrJoinCodeInvalid  = errors.New("join code is not well formed")
)

// NormalizeJoinCode folds full-width characters typed on some mobile
// keyboards to ASCII, trims, and uppercases.
func NormalizeJoinCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(width.Fold.String(code)))
}

// IsJoinCode reports whether code has the given length and only uses
// characters from JoinCodeAlphabet.
func IsJoinCode(code string, length int) bool {
	if len(code) != length {
		return false
	}
	for _, c := range code {
		if !strings.ContainsRune(JoinCodeAlphabet, c) {
			return false
		}
	}
	return true
}

// ValidateJoinCode checks an already normalized code. A malformed code can
// never match a family, so callers may reject it without a lookup.
func ValidateJoinCode(code string) error {
	if code == "" {
		return ErrJoinCodeRequired
	}
	if !IsJoinCode(code, JoinCodeLength) {
		return ErrJoinCodeInvalid
	}
	return nil
}
