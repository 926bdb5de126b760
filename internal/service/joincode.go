package service

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/homewatch/dashboard/internal/validation"
)

// JoinCodeGenerator produces a candidate join code of the given length.
type JoinCodeGenerator func(length int) (string, error)

var joinCodeAlphabetSize = big.NewInt(int64(len(validation.JoinCodeAlphabet)))

// GenerateJoinCode draws length characters uniformly from the join code
// alphabet using crypto/rand.
func GenerateJoinCode(length int) (string, error) {
	code := make([]byte, length)
	for i := range code {
		n, err := rand.Int(rand.Reader, joinCodeAlphabetSize)
		if err != nil {
			return "", fmt.Errorf("failed to read random source: %w", err)
		}
		code[i] = validation.JoinCodeAlphabet[n.Int64()]
	}
	return string(code), nil
}
