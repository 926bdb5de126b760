package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/homewatch/dashboard/internal/dbtest"
	"github.com/homewatch/dashboard/internal/model"
	"github.com/homewatch/dashboard/internal/repository"
)

func newDashboardEnv(t *testing.T) (*DashboardService, *FamilyService, repository.Store) {
	t.Helper()

	store := repository.NewStore(dbtest.New(t))
	dashboard := NewDashboardService(store, 16, time.Minute, 12)
	families := NewFamilyService(store, NewIdentityResolver(), &recordingNotifier{}, dashboard, 10)
	return dashboard, families, store
}

func TestDashboardView(t *testing.T) {
	ctx := context.Background()

	t.Run("requires session", func(t *testing.T) {
		dashboard, _, _ := newDashboardEnv(t)

		_, err := dashboard.View(ctx, nil)
		require.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("empty without family", func(t *testing.T) {
		dashboard, _, _ := newDashboardEnv(t)

		view, err := dashboard.View(ctx, session("alice"))
		require.NoError(t, err)
		require.False(t, view.HasFamily)
		require.Nil(t, view.Family)
		require.Empty(t, view.Feed)
		require.Empty(t, view.Doorbells)
	})

	t.Run("feed for family", func(t *testing.T) {
		dashboard, families, store := newDashboardEnv(t)
		alice := session("alice")

		created, err := families.CreateFamily(ctx, alice, "Smiths")
		require.NoError(t, err)
		require.NoError(t, store.Doorbells().Create(ctx, &model.Doorbell{
			FamilyID: created.ID, Name: "Porch", Location: "Front", Model: model.DoorbellModelA, CreatedBy: "alice",
		}))

		view, err := dashboard.View(ctx, alice)
		require.NoError(t, err)
		require.True(t, view.HasFamily)
		require.Equal(t, created.ID, view.Family.ID)
		require.Len(t, view.Doorbells, 1)
		require.Len(t, view.Feed, 12)

		for i, event := range view.Feed {
			require.Equal(t, "Porch", event.Camera)
			require.GreaterOrEqual(t, event.Confidence, 55)
			require.Less(t, event.Confidence, 100)
			require.False(t, event.At.After(view.BuiltAt))
			require.True(t, event.At.After(view.BuiltAt.Add(-24*time.Hour)))
			if event.Status == model.VisitorKnown {
				require.Equal(t, "Name alice", event.Visitor)
			} else {
				require.Equal(t, "Unknown", event.Visitor)
			}
			if i > 0 {
				require.False(t, event.At.After(view.Feed[i-1].At), "feed must be newest first")
			}
		}
	})

	t.Run("default cameras", func(t *testing.T) {
		dashboard, families, _ := newDashboardEnv(t)
		dashboard.randomInt = func(int) int { return 0 }

		_, err := families.CreateFamily(ctx, session("alice"), "Smiths")
		require.NoError(t, err)

		view, err := dashboard.View(ctx, session("alice"))
		require.NoError(t, err)
		require.Equal(t, "Front Door", view.Feed[0].Camera)
		require.Equal(t, model.VisitorKnown, view.Feed[0].Status)
		require.Equal(t, 55, view.Feed[0].Confidence)
		require.Equal(t, 0, view.UnknownVisitors())
	})

	t.Run("caches until invalidated", func(t *testing.T) {
		dashboard, families, _ := newDashboardEnv(t)
		alice := session("alice")

		first, err := dashboard.View(ctx, alice)
		require.NoError(t, err)
		require.False(t, first.HasFamily)

		cached, err := dashboard.View(ctx, alice)
		require.NoError(t, err)
		require.Same(t, first, cached)

		// Creating a family invalidates through the family service.
		_, err = families.CreateFamily(ctx, alice, "Smiths")
		require.NoError(t, err)

		fresh, err := dashboard.View(ctx, alice)
		require.NoError(t, err)
		require.NotSame(t, first, fresh)
		require.True(t, fresh.HasFamily)
	})
}
