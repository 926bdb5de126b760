package service

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/homewatch/dashboard/internal/dbtest"
	"github.com/homewatch/dashboard/internal/model"
	"github.com/homewatch/dashboard/internal/repository"
)

type joinedEmail struct {
	To, CreatorName, MemberName, FamilyName string
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []joinedEmail
}

func (n *recordingNotifier) SendMemberJoinedEmail(_ context.Context, to, creatorName, memberName, familyName string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, joinedEmail{to, creatorName, memberName, familyName})
	return nil
}

func (n *recordingNotifier) Sent() []joinedEmail {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]joinedEmail(nil), n.sent...)
}

type countingInvalidator struct {
	n atomic.Int32
}

func (c *countingInvalidator) Invalidate() { c.n.Add(1) }

func (c *countingInvalidator) Count() int { return int(c.n.Load()) }

// tickingClock returns a clock that advances one second per call, so
// membership times are distinct and ordered.
func tickingClock(start time.Time) func() time.Time {
	var mu sync.Mutex
	now := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		now = now.Add(time.Second)
		return now
	}
}

type familyEnv struct {
	db          *sqlx.DB
	store       repository.Store
	service     *FamilyService
	notifier    *recordingNotifier
	invalidator *countingInvalidator
}

func newFamilyEnv(t *testing.T) *familyEnv {
	t.Helper()

	database := dbtest.New(t)
	store := repository.NewStore(database)
	env := &familyEnv{
		db:          database,
		store:       store,
		notifier:    &recordingNotifier{},
		invalidator: &countingInvalidator{},
	}
	env.service = NewFamilyService(store, NewIdentityResolver(), env.notifier, env.invalidator, 10)
	env.service.now = tickingClock(time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC))
	return env
}

func (e *familyEnv) familyCount(t *testing.T) int {
	t.Helper()
	var n int
	require.NoError(t, e.db.Get(&n, `SELECT COUNT(*) FROM families`))
	return n
}

func (e *familyEnv) user(t *testing.T, id string) *model.User {
	t.Helper()
	user, err := e.store.Users().ByID(context.Background(), id)
	require.NoError(t, err)
	return user
}

func session(id string) *model.Session {
	return &model.Session{UserID: id, Email: id + "@example.com", Name: "Name " + id}
}

// fixedCodes returns a generator that yields codes in order and then
// repeats the last one.
func fixedCodes(codes ...string) (JoinCodeGenerator, *atomic.Int32) {
	calls := &atomic.Int32{}
	return func(int) (string, error) {
		i := int(calls.Add(1)) - 1
		if i >= len(codes) {
			i = len(codes) - 1
		}
		return codes[i], nil
	}, calls
}

// blindStore hides existing join codes from the pre-insert check, so only
// the unique index can catch a duplicate.
type blindStore struct {
	repository.Store
}

func (s blindStore) InTx(ctx context.Context, fn func(tx repository.Repos) error) error {
	return s.Store.InTx(ctx, func(tx repository.Repos) error {
		return fn(blindRepos{tx})
	})
}

type blindRepos struct {
	repository.Repos
}

func (r blindRepos) Families() repository.FamilyRepository {
	return blindFamilies{r.Repos.Families()}
}

type blindFamilies struct {
	repository.FamilyRepository
}

func (blindFamilies) JoinCodeExists(context.Context, string) (bool, error) {
	return false, nil
}

// staleStore answers user lookups inside a transaction as if the user had
// no family yet, the way a read that lost a race with another join would.
// Only the guarded membership update can then refuse the link.
type staleStore struct {
	repository.Store
}

func (s staleStore) InTx(ctx context.Context, fn func(tx repository.Repos) error) error {
	return s.Store.InTx(ctx, func(tx repository.Repos) error {
		return fn(staleRepos{tx})
	})
}

type staleRepos struct {
	repository.Repos
}

func (r staleRepos) Users() repository.UserRepository {
	return staleUsers{r.Repos.Users()}
}

type staleUsers struct {
	repository.UserRepository
}

func (u staleUsers) ByID(ctx context.Context, id string) (*model.User, error) {
	user, err := u.UserRepository.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	stale := *user
	stale.FamilyID = nil
	stale.FamilyJoinedAt = nil
	return &stale, nil
}
