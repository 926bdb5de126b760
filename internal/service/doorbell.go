package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/homewatch/dashboard/internal/model"
	"github.com/homewatch/dashboard/internal/repository"
	"github.com/homewatch/dashboard/internal/validation"
)

type DoorbellService struct {
	store       repository.Store
	invalidator CacheInvalidator
}

func NewDoorbellService(store repository.Store, invalidator CacheInvalidator) *DoorbellService {
	return &DoorbellService{store: store, invalidator: invalidator}
}

// Register adds a doorbell to the caller's family.
func (s *DoorbellService) Register(ctx context.Context, session *model.Session, name, location, deviceModel string) (*model.Doorbell, error) {
	if session == nil || session.UserID == "" {
		return nil, ErrUnauthorized
	}

	name = strings.TrimSpace(name)
	location = strings.TrimSpace(location)

	err := validation.ValidateDoorbell(name, location, deviceModel)
	if err != nil {
		return nil, invalidInput(err.Error())
	}

	familyID, err := s.familyID(ctx, session.UserID)
	if err != nil {
		return nil, err
	}

	doorbell := &model.Doorbell{
		FamilyID:  familyID,
		Name:      name,
		Location:  location,
		Model:     deviceModel,
		CreatedBy: session.UserID,
	}

	err = s.store.Doorbells().Create(ctx, doorbell)
	if err != nil {
		return nil, fmt.Errorf("failed to create doorbell: %w", err)
	}

	s.invalidator.Invalidate()
	slog.Info("doorbell registered", "doorbell_id", doorbell.ID, "family_id", familyID, "user_id", session.UserID)
	return doorbell, nil
}

// List returns the doorbells of the caller's family, newest first.
func (s *DoorbellService) List(ctx context.Context, session *model.Session) ([]*model.Doorbell, error) {
	if session == nil || session.UserID == "" {
		return nil, ErrUnauthorized
	}

	familyID, err := s.familyID(ctx, session.UserID)
	if err != nil {
		return nil, err
	}

	return s.store.Doorbells().ByFamily(ctx, familyID)
}

func (s *DoorbellService) familyID(ctx context.Context, userID string) (string, error) {
	user, err := s.store.Users().ByID(ctx, userID)
	if errors.Is(err, repository.ErrUserNotFound) {
		return "", ErrNoFamily
	}
	if err != nil {
		return "", fmt.Errorf("failed to get user: %w", err)
	}
	if !user.HasFamily() {
		return "", ErrNoFamily
	}
	return *user.FamilyID, nil
}
