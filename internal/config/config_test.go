package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestEnvHelpers(t *testing.T) {
	t.Setenv("TEST_STRING", "hello")
	t.Setenv("TEST_BOOL", "true")
	t.Setenv("TEST_BAD_BOOL", "maybe")
	t.Setenv("TEST_INT", "12")
	t.Setenv("TEST_NEGATIVE_INT", "-3")
	t.Setenv("TEST_DURATION", "90s")
	t.Setenv("TEST_BAD_DURATION", "soon")

	require.Equal(t, "hello", envString("TEST_STRING", "default"))
	require.Equal(t, "default", envString("TEST_UNSET", "default"))

	require.True(t, envBool("TEST_BOOL", false))
	require.True(t, envBool("TEST_BAD_BOOL", true))
	require.False(t, envBool("TEST_UNSET", false))

	require.Equal(t, 12, envInt("TEST_INT", 6))
	require.Equal(t, 6, envInt("TEST_NEGATIVE_INT", 6))
	require.Equal(t, 6, envInt("TEST_UNSET", 6))

	require.Equal(t, 90*time.Second, envDuration("TEST_DURATION", time.Minute))
	require.Equal(t, time.Minute, envDuration("TEST_BAD_DURATION", time.Minute))
}

func TestLoad(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("APP_URL", "http://localhost:8090")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("JOIN_CODE_MAX_ATTEMPTS", "4")
	t.Setenv("S3_BUCKET", "")

	cfg := Load()
	require.True(t, cfg.IsDevelopment())
	require.False(t, cfg.SecureCookies())
	require.Equal(t, 4, cfg.JoinCodeMaxAttempts)
	require.False(t, cfg.StorageEnabled())

	safe := cfg.Sanitized()
	require.Empty(t, safe.JWTSecret)
	require.Empty(t, safe.ResendAPIKey)
	require.Equal(t, cfg.AppURL, safe.AppURL)
}

func TestSecureCookiesFollowProduction(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("APP_URL", "https://homewatch.example.com")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("RESEND_API_KEY", "re_test")

	require.True(t, Load().SecureCookies())

	t.Setenv("SECURE_COOKIES", "false")
	require.False(t, Load().SecureCookies())
}
