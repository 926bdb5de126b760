package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/homewatch/dashboard/internal/dbtest"
	"github.com/homewatch/dashboard/internal/model"
	"github.com/homewatch/dashboard/internal/repository"
)

type memoryStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{objects: map[string][]byte{}}
}

func (m *memoryStorage) Save(_ context.Context, path, _ string, file io.Reader) error {
	data, err := io.ReadAll(file)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[path] = data
	return nil
}

func (m *memoryStorage) Delete(_ context.Context, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, path)
	return nil
}

func (m *memoryStorage) URL(_ context.Context, path string) string {
	return "https://cdn.example.com/" + path
}

func (m *memoryStorage) keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.objects))
	for k := range m.objects {
		keys = append(keys, k)
	}
	return keys
}

type memoryFile struct {
	*bytes.Reader
}

func (memoryFile) Close() error { return nil }

type failingUsers struct {
	repository.UserRepository
}

func (failingUsers) UpdateImage(context.Context, string, *string) error {
	return errors.New("database is down")
}

func TestUploadAvatar(t *testing.T) {
	ctx := context.Background()
	png := []byte("\x89PNG\r\n\x1a\n rest of the image")

	t.Run("stores and links image", func(t *testing.T) {
		store := repository.NewStore(dbtest.New(t))
		require.NoError(t, store.Users().Create(ctx, &model.User{ID: "u1", Email: "alice@example.com"}))

		objects := newMemoryStorage()
		invalidator := &countingInvalidator{}
		avatars := NewAvatarService(store.Users(), objects, invalidator)
		require.True(t, avatars.Enabled())

		url, err := avatars.UploadAvatar(ctx, "u1", "image/png", memoryFile{bytes.NewReader(png)}, &multipart.FileHeader{Filename: "Me.PNG"})
		require.NoError(t, err)

		keys := objects.keys()
		require.Len(t, keys, 1)
		require.True(t, strings.HasPrefix(keys[0], "avatars/u1/"))
		require.True(t, strings.HasSuffix(keys[0], ".png"))
		require.Equal(t, "https://cdn.example.com/"+keys[0], url)

		user, err := store.Users().ByID(ctx, "u1")
		require.NoError(t, err)
		require.Equal(t, url, *user.Image)
		require.Equal(t, 1, invalidator.Count())
	})

	t.Run("removes object when user update fails", func(t *testing.T) {
		store := repository.NewStore(dbtest.New(t))
		objects := newMemoryStorage()
		avatars := NewAvatarService(failingUsers{store.Users()}, objects, &countingInvalidator{})

		_, err := avatars.UploadAvatar(ctx, "u1", "image/png", memoryFile{bytes.NewReader(png)}, &multipart.FileHeader{Filename: "me.png"})
		require.Error(t, err)
		require.Empty(t, objects.keys())
	})

	t.Run("disabled without storage", func(t *testing.T) {
		avatars := NewAvatarService(nil, nil, &countingInvalidator{})
		require.False(t, avatars.Enabled())

		_, err := avatars.UploadAvatar(ctx, "u1", "image/png", memoryFile{bytes.NewReader(png)}, &multipart.FileHeader{Filename: "me.png"})
		require.ErrorIs(t, err, ErrStorageDisabled)
	})
}
