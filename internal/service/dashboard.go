package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/homewatch/dashboard/internal/model"
	"github.com/homewatch/dashboard/internal/repository"
)

const unknownVisitor = "Unknown"

var defaultCameras = []string{"Front Door", "Back Yard", "Garage", "Side Gate"}

// DashboardService builds the dashboard view for a user. Views are cached
// per user and the whole cache is dropped whenever family membership or a
// family's doorbells change.
type DashboardService struct {
	store     repository.Store
	cache     *expirable.LRU[string, *model.Dashboard]
	feedSize  int
	now       func() time.Time
	randomInt func(n int) int
}

func NewDashboardService(store repository.Store, cacheSize int, cacheTTL time.Duration, feedSize int) *DashboardService {
	return &DashboardService{
		store:     store,
		cache:     expirable.NewLRU[string, *model.Dashboard](cacheSize, nil, cacheTTL),
		feedSize:  feedSize,
		now:       func() time.Time { return time.Now().UTC() },
		randomInt: rand.IntN,
	}
}

func (s *DashboardService) View(ctx context.Context, session *model.Session) (*model.Dashboard, error) {
	if session == nil || session.UserID == "" {
		return nil, ErrUnauthorized
	}

	if view, ok := s.cache.Get(session.UserID); ok {
		return view, nil
	}

	view, err := s.build(ctx, session.UserID)
	if err != nil {
		return nil, err
	}

	s.cache.Add(session.UserID, view)
	return view, nil
}

// Invalidate drops every cached view.
func (s *DashboardService) Invalidate() {
	s.cache.Purge()
}

func (s *DashboardService) build(ctx context.Context, userID string) (*model.Dashboard, error) {
	view := &model.Dashboard{
		Doorbells: []*model.Doorbell{},
		Feed:      []*model.VisitorEvent{},
		BuiltAt:   s.now(),
	}

	user, err := s.store.Users().ByID(ctx, userID)
	if errors.Is(err, repository.ErrUserNotFound) {
		return view, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if !user.HasFamily() {
		return view, nil
	}

	family, err := s.store.Families().ByID(ctx, *user.FamilyID)
	if err != nil {
		return nil, fmt.Errorf("failed to get family: %w", err)
	}

	doorbells, err := s.store.Doorbells().ByFamily(ctx, family.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list doorbells: %w", err)
	}

	members, err := s.store.Families().Members(ctx, family.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}

	view.HasFamily = true
	view.Family = family.Summary()
	view.Doorbells = doorbells
	view.Feed = s.mockFeed(view.BuiltAt, members, doorbells)
	return view, nil
}

// mockFeed invents visitor events for the last 24 hours. Known visitors
// are drawn from the family's members and cameras from its doorbells.
func (s *DashboardService) mockFeed(now time.Time, members []*model.Member, doorbells []*model.Doorbell) []*model.VisitorEvent {
	cameras := defaultCameras
	if len(doorbells) > 0 {
		cameras = make([]string, len(doorbells))
		for i, d := range doorbells {
			cameras[i] = d.Name
		}
	}

	feed := make([]*model.VisitorEvent, 0, s.feedSize)
	for range s.feedSize {
		event := &model.VisitorEvent{
			ID:         uuid.New().String(),
			Visitor:    unknownVisitor,
			Status:     model.VisitorUnknown,
			Camera:     cameras[s.randomInt(len(cameras))],
			Confidence: 55 + s.randomInt(45),
			At:         now.Add(-time.Duration(s.randomInt(24*60)) * time.Minute),
		}

		if len(members) > 0 && s.randomInt(2) == 0 {
			m := members[s.randomInt(len(members))]
			event.Visitor = memberName(m)
			event.Status = model.VisitorKnown
		}

		feed = append(feed, event)
	}

	sort.Slice(feed, func(i, j int) bool {
		return feed[i].At.After(feed[j].At)
	})
	return feed
}

func memberName(m *model.Member) string {
	if m.Name != nil && *m.Name != "" {
		return *m.Name
	}
	if m.Email != nil {
		return *m.Email
	}
	return unknownVisitor
}
