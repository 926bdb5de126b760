package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/homewatch/dashboard/internal/model"
	"github.com/homewatch/dashboard/internal/repository"
)

const defaultUserName = "User"

// IdentityResolver maps an authenticated session to its durable user row,
// repairing the row when the session and the database disagree.
//
// Resolution order:
//  1. user with the session's id
//  2. user with the session's email, whose id is rewritten to the session id
//  3. a new user provisioned from the session
//
// Without an email only step 1 applies, and a miss is ErrUserNotFound.
type IdentityResolver struct{}

func NewIdentityResolver() *IdentityResolver {
	return &IdentityResolver{}
}

// Resolve runs on the repositories it is given, so callers decide whether
// the repair happens inside their own transaction.
func (r *IdentityResolver) Resolve(ctx context.Context, repos repository.Repos, session *model.Session) (*model.User, error) {
	if session == nil || session.UserID == "" {
		return nil, ErrUnauthorized
	}

	users := repos.Users()

	user, err := users.ByID(ctx, session.UserID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}

	if !session.HasEmail() {
		return nil, ErrUserNotFound
	}
	email := strings.ToLower(strings.TrimSpace(session.Email))

	user, err = users.ByEmail(ctx, email)
	if err == nil {
		return r.adoptSessionID(ctx, repos, user, session.UserID)
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return r.provision(ctx, repos, session, email)
}

func (r *IdentityResolver) adoptSessionID(ctx context.Context, repos repository.Repos, user *model.User, sessionID string) (*model.User, error) {
	oldID := user.ID

	err := repos.Users().UpdateID(ctx, oldID, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to update user id: %w", err)
	}

	err = repos.Families().ReassignCreator(ctx, oldID, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to reassign family creator: %w", err)
	}

	err = repos.Doorbells().ReassignCreator(ctx, oldID, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to reassign doorbell creator: %w", err)
	}

	slog.Info("user id reconciled with session", "old_user_id", oldID, "user_id", sessionID)
	user.ID = sessionID
	return user, nil
}

func (r *IdentityResolver) provision(ctx context.Context, repos repository.Repos, session *model.Session, email string) (*model.User, error) {
	name := strings.TrimSpace(session.Name)
	if name == "" {
		name = defaultUserName
	}

	user := &model.User{
		ID:    session.UserID,
		Email: email,
		Name:  &name,
	}
	if session.Image != "" {
		image := session.Image
		user.Image = &image
	}

	err := repos.Users().Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("failed to provision user: %w", err)
	}

	slog.Info("user provisioned from session", "user_id", user.ID, "email", email)
	return user, nil
}
