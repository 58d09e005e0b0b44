package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("PREPDECK_DATABASE_URL", "postgres://localhost:5432/prepdeck_test")
	t.Setenv("PREPDECK_AUTH_JWT_SECRET", "test-secret-key-thats-at-least-32-chars")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Server.LogLevel)
	assert.Equal(t, 10, cfg.Server.ShutdownTimeout)
	assert.True(t, cfg.Database.AutoMigrate)
	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	assert.Equal(t, 60, cfg.Auth.TokenLifetimeMinutes)
}

func TestLoad_EnvOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PREPDECK_SERVER_PORT", "9999")
	t.Setenv("PREPDECK_SERVER_LOG_LEVEL", "debug")
	t.Setenv("PREPDECK_DATABASE_AUTO_MIGRATE", "false")
	t.Setenv("PREPDECK_STUDY_XP_PER_REVIEW", "25")
	t.Setenv("PREPDECK_STUDY_DUE_LIST_LIMIT", "40")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.LogLevel)
	assert.False(t, cfg.Database.AutoMigrate)
	assert.Equal(t, 25, cfg.Study.XPPerReview)
	assert.Equal(t, 40, cfg.Study.DueListLimit)
}

func TestLoad_MissingDatabaseURL(t *testing.T) {
	t.Setenv("PREPDECK_AUTH_JWT_SECRET", "test-secret-key-thats-at-least-32-chars")
	t.Setenv("PREPDECK_DATABASE_URL", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_ShortJWTSecret(t *testing.T) {
	t.Setenv("PREPDECK_DATABASE_URL", "postgres://localhost:5432/prepdeck_test")
	t.Setenv("PREPDECK_AUTH_JWT_SECRET", "too-short")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_InvalidLogLevel(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PREPDECK_SERVER_LOG_LEVEL", "verbose")

	_, err := Load()
	assert.Error(t, err)
}
