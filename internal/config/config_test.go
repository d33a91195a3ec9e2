package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv unsets a variable for the test while letting t.Setenv restore
// the original value afterwards.
func clearEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t, "APP_ENV", "PORT", "ALLOWED_ORIGINS", "REDIS_URL",
		"JWT_SECRET", "JWT_TOKEN_TTL", "DEFAULT_ROLE", "ACTION_GUARD_TTL")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "change-me", cfg.JWTSecret)
	assert.Equal(t, time.Hour, cfg.JWTTokenTTL)
	assert.Equal(t, "member", cfg.DefaultRole)
	assert.Equal(t, 5*time.Second, cfg.ActionGuardTTL)
	assert.Empty(t, cfg.RedisURL)
}

func TestLoad_ReadsEnvironment(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("PORT", "9090")
	t.Setenv("JWT_SECRET", "super-secret")
	t.Setenv("JWT_TOKEN_TTL", "30m")
	t.Setenv("DEFAULT_ROLE", "admin")
	t.Setenv("ACTION_GUARD_TTL", "2s")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.AppEnv)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "super-secret", cfg.JWTSecret)
	assert.Equal(t, 30*time.Minute, cfg.JWTTokenTTL)
	assert.Equal(t, "admin", cfg.DefaultRole)
	assert.Equal(t, 2*time.Second, cfg.ActionGuardTTL)
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
}

func TestLoad_RejectsBadDurations(t *testing.T) {
	t.Setenv("JWT_TOKEN_TTL", "tomorrow")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("JWT_TOKEN_TTL", "1h")
	t.Setenv("ACTION_GUARD_TTL", "sometimes")
	_, err = Load()
	assert.Error(t, err)
}
