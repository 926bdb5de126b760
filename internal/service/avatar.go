package service

import (
	"context"
	"fmt"
	"log/slog"
	"mime/multipart"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/homewatch/dashboard/internal/repository"
	"github.com/homewatch/dashboard/internal/storage"
)

type AvatarService struct {
	users       repository.UserRepository
	storage     storage.Storage
	invalidator CacheInvalidator
}

// NewAvatarService returns a service that rejects uploads with
// ErrStorageDisabled when store is nil.
func NewAvatarService(users repository.UserRepository, store storage.Storage, invalidator CacheInvalidator) *AvatarService {
	return &AvatarService{users: users, storage: store, invalidator: invalidator}
}

func (s *AvatarService) Enabled() bool {
	return s.storage != nil
}

// UploadAvatar stores an already validated image and points the user's
// image at it. It returns the new image URL.
func (s *AvatarService) UploadAvatar(ctx context.Context, userID, contentType string, file multipart.File, header *multipart.FileHeader) (string, error) {
	if s.storage == nil {
		return "", ErrStorageDisabled
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	key := path.Join("avatars", userID, uuid.New().String()+ext)

	err := s.storage.Save(ctx, key, contentType, file)
	if err != nil {
		return "", fmt.Errorf("failed to save avatar: %w", err)
	}

	url := s.storage.URL(ctx, key)

	err = s.users.UpdateImage(ctx, userID, &url)
	if err != nil {
		delErr := s.storage.Delete(ctx, key)
		if delErr != nil {
			slog.Error("failed to delete avatar during cleanup", "error", delErr, "path", key)
		}
		return "", fmt.Errorf("failed to update user image: %w", err)
	}

	s.invalidator.Invalidate()
	slog.Info("avatar uploaded", "user_id", userID, "path", key)
	return url, nil
}
