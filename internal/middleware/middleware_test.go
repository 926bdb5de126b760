package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/homewatch/dashboard/internal/ctxkeys"
	"github.com/homewatch/dashboard/internal/model"
	"github.com/homewatch/dashboard/internal/service"
)

func ok(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func TestRequireSession(t *testing.T) {
	handler := RequireSession(ok)

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodPost, "/app/family", nil))
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, map[string]any{"success": false, "error": "Unauthorized"}, body)

	req := httptest.NewRequest(http.MethodPost, "/app/family", nil)
	req = req.WithContext(ctxkeys.WithSession(req.Context(), &model.Session{UserID: "u1"}))
	rec = httptest.NewRecorder()
	handler(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireAuth(t *testing.T) {
	handler := RequireAuth(ok)

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/app/dashboard", nil))
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/auth/login", rec.Header().Get("Location"))

	req := httptest.NewRequest(http.MethodGet, "/app/dashboard", nil)
	req.Header.Set("HX-Request", "true")
	rec = httptest.NewRecorder()
	handler(rec, req)
	require.Equal(t, "/auth/login", rec.Header().Get("HX-Redirect"))
}

func TestAuth(t *testing.T) {
	auth := service.NewAuthService(nil, nil, "middleware-test-secret", time.Hour, false)
	token, err := auth.GenerateJWT(&model.User{ID: "u1", Email: "alice@example.com"})
	require.NoError(t, err)

	var seen *model.Session
	handler := Auth(auth)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = ctxkeys.Session(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "auth_token", Value: token})
	handler.ServeHTTP(httptest.NewRecorder(), req)
	require.NotNil(t, seen)
	require.Equal(t, "u1", seen.UserID)
	require.Equal(t, "alice@example.com", seen.Email)

	seen = nil
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "auth_token", Value: "tampered"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Nil(t, seen)

	cleared := rec.Result().Cookies()
	require.Len(t, cleared, 1)
	require.Equal(t, "auth_token", cleared[0].Name)
	require.Empty(t, cleared[0].Value)
}

func TestRateLimiter(t *testing.T) {
	limiter := NewRateLimiter(3, time.Hour)

	for range 3 {
		require.True(t, limiter.Allow("10.0.0.1"))
	}
	require.False(t, limiter.Allow("10.0.0.1"))
	require.True(t, limiter.Allow("10.0.0.2"))

	handler := RateLimit(NewRateLimiter(1, time.Hour))(ok)

	req := httptest.NewRequest(http.MethodPost, "/app/family/join", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")

	rec := httptest.NewRecorder()
	handler(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	handler(rec, req)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.1:1234"
	require.Equal(t, "192.0.2.1", clientIP(req))

	req.Header.Set("X-Real-IP", " 198.51.100.2 ")
	require.Equal(t, "198.51.100.2", clientIP(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	require.Equal(t, "203.0.113.7", clientIP(req))
}

func TestCSRFProtection(t *testing.T) {
	var token string
	handler := CSRFProtection(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token = ctxkeys.CSRFToken(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, token)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)

	t.Run("rejects missing token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/app/family/join", nil)
		req.AddCookie(cookies[0])
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		require.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("accepts header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/app/family/join", strings.NewReader(`{}`))
		req.AddCookie(cookies[0])
		req.Header.Set("X-CSRF-Token", token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("accepts form field", func(t *testing.T) {
		form := url.Values{"csrf_token": {token}, "joinCode": {"ABC123"}}
		req := httptest.NewRequest(http.MethodPost, "/app/setup/join", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.AddCookie(cookies[0])
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
	})
}
