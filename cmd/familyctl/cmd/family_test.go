package cmd

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/homewatch/dashboard/internal/model"
)

func TestPrintFamily(t *testing.T) {
	alice, aliceEmail := "Alice", "alice@example.com"
	bobEmail := "bob@example.com"

	family := &model.Family{
		ID:        "f1",
		Name:      "Smiths",
		JoinCode:  "ABC123",
		CreatorID: "u1",
		CreatedAt: time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC),
	}
	members := []*model.Member{
		{ID: "u1", Name: &alice, Email: &aliceEmail},
		{ID: "u2", Email: &bobEmail},
	}

	var out bytes.Buffer
	require.NoError(t, printFamily(&out, family, members))

	text := out.String()
	require.Contains(t, text, "Join code: ABC123")
	require.Contains(t, text, "Created:   2026-05-01T09:00:00Z")
	require.Regexp(t, `Alice\s+alice@example.com\s+creator`, text)
	require.Regexp(t, `-\s+bob@example.com\s+member`, text)
}
