package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/homewatch/dashboard/internal/dbtest"
	"github.com/homewatch/dashboard/internal/model"
)

func newTestStore(t *testing.T) Store {
	t.Helper()
	return NewStore(dbtest.New(t))
}

func createUser(t *testing.T, store Store, id, email string) *model.User {
	t.Helper()
	name := "User " + id
	user := &model.User{ID: id, Email: email, Name: &name}
	require.NoError(t, store.Users().Create(context.Background(), user))
	return user
}

func createFamily(t *testing.T, store Store, id, code, creatorID string) *model.Family {
	t.Helper()
	family := &model.Family{ID: id, Name: "Family " + id, JoinCode: code, CreatorID: creatorID}
	require.NoError(t, store.Families().Create(context.Background(), family))
	return family
}

func TestUserRepository(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("create and lookup", func(t *testing.T) {
		t.Parallel()
		store := newTestStore(t)
		createUser(t, store, "u1", "ann@example.com")

		byID, err := store.Users().ByID(ctx, "u1")
		require.NoError(t, err)
		require.Equal(t, "ann@example.com", byID.Email)
		require.False(t, byID.HasFamily())

		byEmail, err := store.Users().ByEmail(ctx, "ann@example.com")
		require.NoError(t, err)
		require.Equal(t, "u1", byEmail.ID)

		_, err = store.Users().ByID(ctx, "missing")
		require.ErrorIs(t, err, ErrUserNotFound)

		_, err = store.Users().ByEmail(ctx, "missing@example.com")
		require.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("duplicate email", func(t *testing.T) {
		t.Parallel()
		store := newTestStore(t)
		createUser(t, store, "u1", "ann@example.com")

		err := store.Users().Create(ctx, &model.User{ID: "u2", Email: "ann@example.com"})
		require.ErrorIs(t, err, ErrDuplicateEmail)
	})

	t.Run("update id", func(t *testing.T) {
		t.Parallel()
		store := newTestStore(t)
		createUser(t, store, "old", "ann@example.com")
		createUser(t, store, "taken", "bob@example.com")

		require.NoError(t, store.Users().UpdateID(ctx, "old", "new"))

		user, err := store.Users().ByID(ctx, "new")
		require.NoError(t, err)
		require.Equal(t, "ann@example.com", user.Email)

		_, err = store.Users().ByID(ctx, "old")
		require.ErrorIs(t, err, ErrUserNotFound)

		require.ErrorIs(t, store.Users().UpdateID(ctx, "missing", "other"), ErrUserNotFound)
		require.ErrorIs(t, store.Users().UpdateID(ctx, "new", "taken"), ErrDuplicateUserID)
	})

	t.Run("set family once", func(t *testing.T) {
		t.Parallel()
		store := newTestStore(t)
		createUser(t, store, "u1", "ann@example.com")
		first := createFamily(t, store, "f1", "AAAAAA", "u1")
		second := createFamily(t, store, "f2", "BBBBBB", "u1")

		joinedAt := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
		require.NoError(t, store.Users().SetFamily(ctx, "u1", first.ID, joinedAt))

		err := store.Users().SetFamily(ctx, "u1", second.ID, joinedAt)
		require.ErrorIs(t, err, ErrFamilyAlreadySet)

		user, err := store.Users().ByID(ctx, "u1")
		require.NoError(t, err)
		require.Equal(t, first.ID, *user.FamilyID)
		require.NotNil(t, user.FamilyJoinedAt)
		require.True(t, joinedAt.Equal(*user.FamilyJoinedAt))

		err = store.Users().SetFamily(ctx, "missing", first.ID, joinedAt)
		require.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("update image", func(t *testing.T) {
		t.Parallel()
		store := newTestStore(t)
		createUser(t, store, "u1", "ann@example.com")

		url := "https://cdn.example.com/a.png"
		require.NoError(t, store.Users().UpdateImage(ctx, "u1", &url))

		user, err := store.Users().ByID(ctx, "u1")
		require.NoError(t, err)
		require.Equal(t, url, *user.Image)

		require.ErrorIs(t, store.Users().UpdateImage(ctx, "missing", &url), ErrUserNotFound)
	})
}

func TestFamilyRepository(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("join code is unique", func(t *testing.T) {
		t.Parallel()
		store := newTestStore(t)
		createFamily(t, store, "f1", "ABC123", "u1")

		exists, err := store.Families().JoinCodeExists(ctx, "ABC123")
		require.NoError(t, err)
		require.True(t, exists)

		exists, err = store.Families().JoinCodeExists(ctx, "ZZZ999")
		require.NoError(t, err)
		require.False(t, exists)

		err = store.Families().Create(ctx, &model.Family{ID: "f2", Name: "Other", JoinCode: "ABC123", CreatorID: "u2"})
		require.ErrorIs(t, err, ErrDuplicateJoinCode)

		_, err = store.Families().ByID(ctx, "f2")
		require.ErrorIs(t, err, ErrFamilyNotFound)
	})

	t.Run("lookup", func(t *testing.T) {
		t.Parallel()
		store := newTestStore(t)
		created := createFamily(t, store, "f1", "ABC123", "u1")

		byCode, err := store.Families().ByJoinCode(ctx, "ABC123")
		require.NoError(t, err)
		require.Equal(t, created.ID, byCode.ID)
		require.Equal(t, created.Name, byCode.Name)

		_, err = store.Families().ByJoinCode(ctx, "abc123")
		require.ErrorIs(t, err, ErrFamilyNotFound)
	})

	t.Run("members ordered by join time", func(t *testing.T) {
		t.Parallel()
		store := newTestStore(t)
		family := createFamily(t, store, "f1", "ABC123", "c")

		base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
		// Created in one order, joined in another
		for _, id := range []string{"b", "a", "c"} {
			createUser(t, store, id, id+"@example.com")
		}
		require.NoError(t, store.Users().SetFamily(ctx, "b", family.ID, base.Add(2*time.Minute)))
		require.NoError(t, store.Users().SetFamily(ctx, "c", family.ID, base))
		require.NoError(t, store.Users().SetFamily(ctx, "a", family.ID, base.Add(time.Minute)))

		createUser(t, store, "outsider", "out@example.com")

		members, err := store.Families().Members(ctx, family.ID)
		require.NoError(t, err)
		require.Len(t, members, 3)
		require.Equal(t, "c", members[0].ID)
		require.Equal(t, "a", members[1].ID)
		require.Equal(t, "b", members[2].ID)
		require.Equal(t, "a@example.com", *members[1].Email)
	})

	t.Run("reassign creator", func(t *testing.T) {
		t.Parallel()
		store := newTestStore(t)
		createFamily(t, store, "f1", "ABC123", "old")

		require.NoError(t, store.Families().ReassignCreator(ctx, "old", "new"))

		family, err := store.Families().ByID(ctx, "f1")
		require.NoError(t, err)
		require.Equal(t, "new", family.CreatorID)
	})
}

func TestDoorbellRepository(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := newTestStore(t)
	createFamily(t, store, "f1", "ABC123", "u1")
	createFamily(t, store, "f2", "DEF456", "u2")

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, name := range []string{"Front", "Back"} {
		require.NoError(t, store.Doorbells().Create(ctx, &model.Doorbell{
			FamilyID:  "f1",
			Name:      name,
			Location:  "House",
			Model:     model.DoorbellModelA,
			CreatedBy: "u1",
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}))
	}
	require.NoError(t, store.Doorbells().Create(ctx, &model.Doorbell{
		FamilyID: "f2", Name: "Gate", Location: "Yard", Model: model.DoorbellModelB, CreatedBy: "u2",
	}))

	doorbells, err := store.Doorbells().ByFamily(ctx, "f1")
	require.NoError(t, err)
	require.Len(t, doorbells, 2)
	require.Equal(t, "Back", doorbells[0].Name)
	require.Equal(t, "Front", doorbells[1].Name)
	require.NotEmpty(t, doorbells[0].ID)

	none, err := store.Doorbells().ByFamily(ctx, "nope")
	require.NoError(t, err)
	require.Empty(t, none)

	err = store.Doorbells().Create(ctx, &model.Doorbell{FamilyID: "missing", Name: "X", Location: "Y", Model: model.DoorbellModelA, CreatedBy: "u1"})
	require.Error(t, err)

	require.NoError(t, store.Doorbells().ReassignCreator(ctx, "u1", "u9"))
	doorbells, err = store.Doorbells().ByFamily(ctx, "f1")
	require.NoError(t, err)
	for _, d := range doorbells {
		require.Equal(t, "u9", d.CreatedBy)
	}
	gate, err := store.Doorbells().ByFamily(ctx, "f2")
	require.NoError(t, err)
	require.Equal(t, "u2", gate[0].CreatedBy)
}

func TestInTx(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("commit", func(t *testing.T) {
		t.Parallel()
		store := newTestStore(t)

		err := store.InTx(ctx, func(tx Repos) error {
			return tx.Users().Create(ctx, &model.User{ID: "u1", Email: "ann@example.com"})
		})
		require.NoError(t, err)

		_, err = store.Users().ByID(ctx, "u1")
		require.NoError(t, err)
	})

	t.Run("rollback on error", func(t *testing.T) {
		t.Parallel()
		store := newTestStore(t)

		err := store.InTx(ctx, func(tx Repos) error {
			err := tx.Users().Create(ctx, &model.User{ID: "u1", Email: "ann@example.com"})
			require.NoError(t, err)
			return tx.Families().Create(ctx, &model.Family{ID: "f1", Name: "A", JoinCode: "ABC123", CreatorID: "u1"})
		})
		require.NoError(t, err)

		err = store.InTx(ctx, func(tx Repos) error {
			err := tx.Users().Create(ctx, &model.User{ID: "u2", Email: "bob@example.com"})
			require.NoError(t, err)
			return tx.Families().Create(ctx, &model.Family{ID: "f2", Name: "B", JoinCode: "ABC123", CreatorID: "u2"})
		})
		require.ErrorIs(t, err, ErrDuplicateJoinCode)

		_, err = store.Users().ByID(ctx, "u2")
		require.ErrorIs(t, err, ErrUserNotFound)
	})
}
