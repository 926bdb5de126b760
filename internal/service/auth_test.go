package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/homewatch/dashboard/internal/dbtest"
	"github.com/homewatch/dashboard/internal/model"
	"github.com/homewatch/dashboard/internal/repository"
)

const testJWTSecret = "test-secret-that-is-long-enough-for-hs256"

func newAuthService(t *testing.T) *AuthService {
	t.Helper()

	store := repository.NewStore(dbtest.New(t))
	emails := NewEmailService("", "noreply@example.com", "http://localhost:8080", "Homewatch", true)
	return NewAuthService(store.Users(), emails, testJWTSecret, time.Hour, false)
}

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("round trip", func(t *testing.T) {
		auth := newAuthService(t)

		user, err := auth.Register(ctx, " Alice ", " Alice@Example.com ", "s3cret-pass")
		require.NoError(t, err)
		require.Equal(t, "alice@example.com", user.Email)
		require.Equal(t, "Alice", *user.Name)
		require.False(t, user.HasFamily())
		require.NotEqual(t, "s3cret-pass", *user.PasswordHash)

		logged, err := auth.Login(ctx, "ALICE@example.com", "s3cret-pass")
		require.NoError(t, err)
		require.Equal(t, user.ID, logged.ID)

		_, err = auth.Login(ctx, "alice@example.com", "wrong-pass")
		require.ErrorIs(t, err, ErrInvalidCredentials)

		_, err = auth.Login(ctx, "nobody@example.com", "s3cret-pass")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("duplicate email", func(t *testing.T) {
		auth := newAuthService(t)

		_, err := auth.Register(ctx, "Alice", "alice@example.com", "s3cret-pass")
		require.NoError(t, err)

		_, err = auth.Register(ctx, "Alice Two", "ALICE@example.com", "s3cret-pass")
		require.ErrorIs(t, err, ErrEmailAlreadyExists)
	})

	t.Run("validation", func(t *testing.T) {
		auth := newAuthService(t)

		tests := []struct {
			name, displayName, email, password string
			wantErr                            error
			wantMessage                        string
		}{
			{"short name", "A", "a@example.com", "s3cret-pass", ErrInvalidInput, "name must be at least 2 characters"},
			{"bad email", "Alice", "not-an-email", "s3cret-pass", ErrInvalidEmail, ""},
			{"short password", "Alice", "a@example.com", "abc", ErrInvalidInput, "password must be at least 6 characters"},
			{"common password", "Alice", "a@example.com", "mypassword1", ErrInvalidInput, "password is too common, please choose a stronger one"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := auth.Register(ctx, tt.displayName, tt.email, tt.password)
				require.ErrorIs(t, err, tt.wantErr)
				if tt.wantMessage != "" {
					require.Equal(t, tt.wantMessage, UserMessage(err, "fallback"))
				}
			})
		}
	})

	t.Run("oauth account is reused", func(t *testing.T) {
		auth := newAuthService(t)

		first, err := auth.AuthenticateOAuth(ctx, "Bob@Example.com", "Bob", "https://example.com/bob.png", "github")
		require.NoError(t, err)
		require.False(t, first.HasPassword())
		require.Equal(t, "https://example.com/bob.png", *first.Image)

		again, err := auth.AuthenticateOAuth(ctx, "bob@example.com", "", "", "google")
		require.NoError(t, err)
		require.Equal(t, first.ID, again.ID)

		_, err = auth.Login(ctx, "bob@example.com", "anything")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestJWT(t *testing.T) {
	auth := newAuthService(t)

	name := "Alice"
	user := &model.User{ID: "u1", Email: "alice@example.com", Name: &name}

	token, err := auth.GenerateJWT(user)
	require.NoError(t, err)

	session, err := auth.VerifyJWT(token)
	require.NoError(t, err)
	require.Equal(t, &model.Session{UserID: "u1", Email: "alice@example.com", Name: "Alice"}, session)

	t.Run("wrong secret", func(t *testing.T) {
		other := NewAuthService(nil, nil, "another-secret", time.Hour, false)
		_, err := other.VerifyJWT(token)
		require.Error(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		expired := NewAuthService(nil, nil, testJWTSecret, -time.Minute, false)
		stale, err := expired.GenerateJWT(user)
		require.NoError(t, err)

		_, err = auth.VerifyJWT(stale)
		require.ErrorIs(t, err, jwt.ErrTokenExpired)
	})

	t.Run("rejects other algorithms", func(t *testing.T) {
		unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"user_id": "u1"}).
			SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = auth.VerifyJWT(unsigned)
		require.Error(t, err)
	})

	t.Run("requires user id", func(t *testing.T) {
		blank, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"email": "a@example.com"}).
			SignedString([]byte(testJWTSecret))
		require.NoError(t, err)

		_, err = auth.VerifyJWT(blank)
		require.Error(t, err)
	})

	t.Run("session from cookie", func(t *testing.T) {
		rec := httptest.NewRecorder()
		auth.SetJWTCookie(rec, token)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		for _, c := range rec.Result().Cookies() {
			req.AddCookie(c)
		}
		require.Equal(t, "u1", auth.SessionFromRequest(req).UserID)

		require.Nil(t, auth.SessionFromRequest(httptest.NewRequest(http.MethodGet, "/", nil)))

		bad := httptest.NewRequest(http.MethodGet, "/", nil)
		bad.AddCookie(&http.Cookie{Name: "auth_token", Value: "garbage"})
		require.Nil(t, auth.SessionFromRequest(bad))
	})
}
