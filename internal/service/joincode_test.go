package service

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/homewatch/dashboard/internal/validation"
)

func TestGenerateJoinCode(t *testing.T) {
	seen := map[string]bool{}
	for range 200 {
		code, err := GenerateJoinCode(6)
		require.NoError(t, err)
		require.True(t, validation.IsJoinCode(code, 6), "unexpected code %q", code)
		seen[code] = true
	}

	// 36^6 codes; 200 draws colliding more than a couple of times means
	// the generator is not uniform.
	require.Greater(t, len(seen), 195)

	code, err := GenerateJoinCode(10)
	require.NoError(t, err)
	require.Len(t, code, 10)
}
