package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configKeys = []string{
	"PORT", "LISTEN_ADDR", "DATABASE_DRIVER", "DATABASE_PATH", "DATABASE_DSN",
	"DATABASE_LOG_LEVEL", "SESSION_SECRET", "SESSION_NAME", "SESSION_MAX_AGE",
	"SESSION_SECURE", "GIN_MODE", "STATIC_DIR", "BCRYPT_COST",
	"AUTH_RATE_LIMIT_WINDOW", "AUTH_RATE_LIMIT_MAX",
	"ADMIN_USERNAME", "ADMIN_EMAIL", "ADMIN_PASSWORD",
}

func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range configKeys {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearConfigEnv(t)

	cfg := Load()
	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, "sqlite", cfg.DatabaseDriver)
	assert.Equal(t, "cuteblog.db", cfg.DatabaseTarget())
	assert.Equal(t, "sessionId", cfg.SessionName)
	assert.Equal(t, time.Hour, cfg.SessionMaxAge)
	assert.False(t, cfg.SessionSecure)
	assert.Equal(t, defaultSessionSecret, cfg.SessionSecret)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.Equal(t, 15*time.Minute, cfg.AuthRateWindow)
	assert.Equal(t, 4, cfg.AuthRateMax)
	assert.Equal(t, "web/static", cfg.StaticDir)
}

func TestLoadOverrides(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("PORT", "9000")
	t.Setenv("DATABASE_DRIVER", "Postgres")
	t.Setenv("DATABASE_DSN", "host=localhost user=blog dbname=blog")
	t.Setenv("SESSION_MAX_AGE", "30m")
	t.Setenv("SESSION_SECURE", "true")
	t.Setenv("AUTH_RATE_LIMIT_MAX", "10")

	cfg := Load()
	assert.Equal(t, ":9000", cfg.ListenAddr)
	assert.Equal(t, "postgres", cfg.DatabaseDriver)
	assert.Equal(t, "host=localhost user=blog dbname=blog", cfg.DatabaseTarget())
	assert.Equal(t, 30*time.Minute, cfg.SessionMaxAge)
	assert.True(t, cfg.SessionSecure)
	assert.Equal(t, 10, cfg.AuthRateMax)
}

func TestLoadIgnoresInvalidNumbers(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("BCRYPT_COST", "lots")
	t.Setenv("AUTH_RATE_LIMIT_WINDOW", "-5m")
	t.Setenv("SESSION_SECURE", "maybe")

	cfg := Load()
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.Equal(t, 15*time.Minute, cfg.AuthRateWindow)
	assert.False(t, cfg.SessionSecure)
}

func TestLoadDotEnvDoesNotOverrideEnvironment(t *testing.T) {
	clearConfigEnv(t)
	os.Unsetenv("SESSION_NAME")
	os.Unsetenv("PORT")
	t.Setenv("GIN_MODE", "debug")

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("SESSION_NAME=fromfile\nGIN_MODE=release\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("SESSION_NAME") })

	LoadDotEnv(path, filepath.Join(t.TempDir(), "missing.env"))

	cfg := Load()
	assert.Equal(t, "fromfile", cfg.SessionName)
	assert.Equal(t, "debug", cfg.GinMode)
}
