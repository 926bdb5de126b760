package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/homewatch/dashboard/internal/model"
)

func TestDoorbellService(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*DoorbellService, *familyEnv) {
		env := newFamilyEnv(t)
		return NewDoorbellService(env.store, env.invalidator), env
	}

	t.Run("registers for family", func(t *testing.T) {
		doorbells, env := setup(t)
		alice := session("alice")
		created, err := env.service.CreateFamily(ctx, alice, "Smiths")
		require.NoError(t, err)

		doorbell, err := doorbells.Register(ctx, alice, " Porch ", "Front door", model.DoorbellModelB)
		require.NoError(t, err)
		require.NotEmpty(t, doorbell.ID)
		require.Equal(t, created.ID, doorbell.FamilyID)
		require.Equal(t, "Porch", doorbell.Name)
		require.Equal(t, "alice", doorbell.CreatedBy)
		require.Equal(t, 2, env.invalidator.Count())

		// Other members see the family's doorbells.
		_, err = env.service.JoinFamily(ctx, session("bob"), created.JoinCode)
		require.NoError(t, err)

		list, err := doorbells.List(ctx, session("bob"))
		require.NoError(t, err)
		require.Len(t, list, 1)
		require.Equal(t, doorbell.ID, list[0].ID)
	})

	t.Run("validates input", func(t *testing.T) {
		doorbells, env := setup(t)
		alice := session("alice")
		_, err := env.service.CreateFamily(ctx, alice, "Smiths")
		require.NoError(t, err)

		_, err = doorbells.Register(ctx, alice, "P", "Front door", model.DoorbellModelA)
		require.ErrorIs(t, err, ErrInvalidInput)

		_, err = doorbells.Register(ctx, alice, "Porch", "F", model.DoorbellModelA)
		require.ErrorIs(t, err, ErrInvalidInput)

		_, err = doorbells.Register(ctx, alice, "Porch", "Front door", "model-z")
		require.ErrorIs(t, err, ErrInvalidInput)

		list, err := doorbells.List(ctx, alice)
		require.NoError(t, err)
		require.Empty(t, list)
	})

	t.Run("requires family", func(t *testing.T) {
		doorbells, _ := setup(t)

		_, err := doorbells.Register(ctx, session("alice"), "Porch", "Front door", model.DoorbellModelA)
		require.ErrorIs(t, err, ErrNoFamily)

		_, err = doorbells.List(ctx, session("alice"))
		require.ErrorIs(t, err, ErrNoFamily)

		_, err = doorbells.List(ctx, nil)
		require.ErrorIs(t, err, ErrUnauthorized)
	})
}
