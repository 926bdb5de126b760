package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/homewatch/dashboard/internal/model"
	"github.com/homewatch/dashboard/internal/repository"
	"github.com/homewatch/dashboard/internal/validation"
)

// MemberNotifier tells a family's creator that someone joined.
type MemberNotifier interface {
	SendMemberJoinedEmail(ctx context.Context, to, creatorName, memberName, familyName string) error
}

// CacheInvalidator drops cached views that depend on family membership.
type CacheInvalidator interface {
	Invalidate()
}

type FamilyService struct {
	store       repository.Store
	resolver    *IdentityResolver
	notifier    MemberNotifier
	invalidator CacheInvalidator
	generate    JoinCodeGenerator
	now         func() time.Time
	maxAttempts int
}

func NewFamilyService(
	store repository.Store,
	resolver *IdentityResolver,
	notifier MemberNotifier,
	invalidator CacheInvalidator,
	maxAttempts int,
) *FamilyService {
	return &FamilyService{
		store:       store,
		resolver:    resolver,
		notifier:    notifier,
		invalidator: invalidator,
		generate:    GenerateJoinCode,
		now:         func() time.Time { return time.Now().UTC() },
		maxAttempts: maxAttempts,
	}
}

// CreateFamily creates a family owned by the caller and makes the caller
// its first member. The join code is returned only here.
func (s *FamilyService) CreateFamily(ctx context.Context, session *model.Session, name string) (*model.CreatedFamily, error) {
	if session == nil || session.UserID == "" {
		return nil, ErrUnauthorized
	}

	name = validation.NormalizeName(name)
	err := validation.ValidateName(name)
	if errors.Is(err, validation.ErrNameRequired) {
		return nil, invalidInput("Family name is required")
	}
	if err != nil {
		return nil, invalidInput("Family name must be 100 characters or less")
	}

	var created *model.CreatedFamily
	err = s.store.InTx(ctx, func(tx repository.Repos) error {
		user, err := s.resolver.Resolve(ctx, tx, session)
		if err != nil {
			return err
		}
		if user.HasFamily() {
			return ErrAlreadyInFamily
		}

		code, err := s.uniqueJoinCode(ctx, tx.Families())
		if err != nil {
			return err
		}

		now := s.now()
		family := &model.Family{
			ID:        uuid.New().String(),
			Name:      name,
			JoinCode:  code,
			CreatorID: user.ID,
			CreatedAt: now,
		}

		// The unique index is authoritative: a concurrent create may have
		// taken the code after the existence check above.
		err = tx.Families().Create(ctx, family)
		if errors.Is(err, repository.ErrDuplicateJoinCode) {
			return ErrJoinCodeTaken
		}
		if err != nil {
			return fmt.Errorf("failed to create family: %w", err)
		}

		err = tx.Users().SetFamily(ctx, user.ID, family.ID, now)
		if errors.Is(err, repository.ErrFamilyAlreadySet) {
			return ErrAlreadyInFamily
		}
		if err != nil {
			return fmt.Errorf("failed to link creator: %w", err)
		}

		created = &model.CreatedFamily{ID: family.ID, Name: family.Name, JoinCode: family.JoinCode}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidator.Invalidate()
	slog.Info("family created", "family_id", created.ID, "user_id", session.UserID)
	return created, nil
}

func (s *FamilyService) uniqueJoinCode(ctx context.Context, families repository.FamilyRepository) (string, error) {
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		code, err := s.generate(validation.JoinCodeLength)
		if err != nil {
			return "", err
		}

		exists, err := families.JoinCodeExists(ctx, code)
		if err != nil {
			return "", fmt.Errorf("failed to check join code: %w", err)
		}
		if !exists {
			return code, nil
		}

		slog.Debug("join code collision", "attempt", attempt)
	}

	slog.Error("join code space exhausted", "attempts", s.maxAttempts, "length", validation.JoinCodeLength)
	return "", ErrJoinCodeExhausted
}

// JoinFamily adds the caller to the family that owns code.
func (s *FamilyService) JoinFamily(ctx context.Context, session *model.Session, code string) (*model.FamilySummary, error) {
	if session == nil || session.UserID == "" {
		return nil, ErrUnauthorized
	}

	code = validation.NormalizeJoinCode(code)
	codeErr := validation.ValidateJoinCode(code)
	if errors.Is(codeErr, validation.ErrJoinCodeRequired) {
		return nil, invalidInput("Join code is required")
	}

	var (
		member *model.User
		family *model.Family
	)
	err := s.store.InTx(ctx, func(tx repository.Repos) error {
		user, err := s.resolver.Resolve(ctx, tx, session)
		if err != nil {
			return err
		}
		if user.HasFamily() {
			return ErrAlreadyInFamily
		}
		if codeErr != nil {
			return ErrInvalidJoinCode
		}

		family, err = tx.Families().ByJoinCode(ctx, code)
		if errors.Is(err, repository.ErrFamilyNotFound) {
			return ErrInvalidJoinCode
		}
		if err != nil {
			return fmt.Errorf("failed to get family by join code: %w", err)
		}

		err = tx.Users().SetFamily(ctx, user.ID, family.ID, s.now())
		if errors.Is(err, repository.ErrFamilyAlreadySet) {
			return ErrAlreadyInFamily
		}
		if err != nil {
			return fmt.Errorf("failed to link member: %w", err)
		}

		member = user
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidator.Invalidate()
	slog.Info("family joined", "family_id", family.ID, "user_id", member.ID)

	s.notifyCreator(ctx, family, member)
	return family.Summary(), nil
}

func (s *FamilyService) notifyCreator(ctx context.Context, family *model.Family, member *model.User) {
	creator, err := s.store.Users().ByID(ctx, family.CreatorID)
	if err != nil {
		slog.Warn("failed to load family creator", "error", err, "family_id", family.ID)
		return
	}

	err = s.notifier.SendMemberJoinedEmail(ctx, creator.Email, creator.DisplayName(), member.DisplayName(), family.Name)
	if err != nil {
		slog.Warn("failed to send member joined email", "error", err, "family_id", family.ID)
	}
}

// UserHasFamily reports whether the session's user row is linked to a
// family. It never repairs identity and reports false on any error.
func (s *FamilyService) UserHasFamily(ctx context.Context, session *model.Session) bool {
	if session == nil || session.UserID == "" {
		return false
	}

	user, err := s.store.Users().ByID(ctx, session.UserID)
	if err != nil {
		if !errors.Is(err, repository.ErrUserNotFound) {
			slog.Error("failed to check family membership", "error", err, "user_id", session.UserID)
		}
		return false
	}
	return user.HasFamily()
}

// UserFamily returns the caller's family without its join code, or nil.
// Like the mutations it resolves identity first, so the first call for a
// new session provisions the user row.
func (s *FamilyService) UserFamily(ctx context.Context, session *model.Session) *model.FamilySummary {
	if session == nil || session.UserID == "" {
		return nil
	}

	var summary *model.FamilySummary
	err := s.store.InTx(ctx, func(tx repository.Repos) error {
		user, err := s.resolver.Resolve(ctx, tx, session)
		if err != nil {
			return err
		}
		if !user.HasFamily() {
			return nil
		}

		family, err := tx.Families().ByID(ctx, *user.FamilyID)
		if err != nil {
			return fmt.Errorf("failed to get family: %w", err)
		}
		summary = family.Summary()
		return nil
	})
	if err != nil {
		slog.Error("failed to get user family", "error", err, "user_id", session.UserID)
		return nil
	}
	return summary
}

// FamilyJoinCode returns the join code of the caller's family, or "".
func (s *FamilyService) FamilyJoinCode(ctx context.Context, session *model.Session) string {
	family := s.familyOf(ctx, session)
	if family == nil {
		return ""
	}
	return family.JoinCode
}

// FamilyMembers returns the caller's family roster, oldest membership
// first, or nil.
func (s *FamilyService) FamilyMembers(ctx context.Context, session *model.Session) *model.Roster {
	family := s.familyOf(ctx, session)
	if family == nil {
		return nil
	}

	members, err := s.store.Families().Members(ctx, family.ID)
	if err != nil {
		slog.Error("failed to list family members", "error", err, "family_id", family.ID)
		return nil
	}

	return &model.Roster{Members: members, CreatorID: family.CreatorID}
}

func (s *FamilyService) familyOf(ctx context.Context, session *model.Session) *model.Family {
	if session == nil || session.UserID == "" {
		return nil
	}

	user, err := s.store.Users().ByID(ctx, session.UserID)
	if err != nil {
		if !errors.Is(err, repository.ErrUserNotFound) {
			slog.Error("failed to get user", "error", err, "user_id", session.UserID)
		}
		return nil
	}
	if !user.HasFamily() {
		return nil
	}

	family, err := s.store.Families().ByID(ctx, *user.FamilyID)
	if err != nil {
		slog.Error("failed to get family", "error", err, "family_id", *user.FamilyID)
		return nil
	}
	return family
}
