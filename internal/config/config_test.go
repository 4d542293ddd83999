package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("Success: Defaults with secret from env", func(t *testing.T) {
		t.Setenv("KANSO_AUTH_JWT_SECRET", "env-secret")

		cfg, err := Load("")

		require.NoError(t, err)
		assert.Equal(t, "8080", cfg.Server.Port)
		assert.Equal(t, BackendPostgres, cfg.Storage.Backend)
		assert.Equal(t, "env-secret", cfg.Auth.JWTSecret)
		assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
		assert.Equal(t, 2000.0, cfg.Goals.WaterMl)
		assert.Equal(t, 8.0, cfg.Goals.SleepHours)
		assert.Equal(t, 600.0, cfg.Goals.Calories)
		assert.Equal(t, 100, cfg.RateLimit.Requests)
		assert.Equal(t, time.Minute, cfg.RateLimit.Window)
		assert.False(t, cfg.Redis.Enabled)
	})

	t.Run("Success: File values with env override", func(t *testing.T) {
		path := writeFile(t, "kanso.yaml", `
server:
  port: "9090"
storage:
  backend: memory
auth:
  jwt_secret: file-secret
  token_ttl: 2h
goals:
  water_ml: 2500
app:
  timezone: Europe/Rome
log:
  level: debug
  pretty: true
`)
		t.Setenv("KANSO_SERVER_PORT", "7070")

		cfg, err := Load(path)

		require.NoError(t, err)
		assert.Equal(t, "7070", cfg.Server.Port)
		assert.Equal(t, BackendMemory, cfg.Storage.Backend)
		assert.Equal(t, "file-secret", cfg.Auth.JWTSecret)
		assert.Equal(t, 2*time.Hour, cfg.Auth.TokenTTL)
		assert.Equal(t, 2500.0, cfg.Goals.WaterMl)
		assert.Equal(t, 8.0, cfg.Goals.SleepHours)
		assert.Equal(t, "debug", cfg.Log.Level)
		assert.True(t, cfg.Log.Pretty)
	})

	t.Run("Fail: Missing secret", func(t *testing.T) {
		t.Setenv("KANSO_AUTH_JWT_SECRET", "")

		_, err := Load("")

		assert.ErrorContains(t, err, "auth.jwt_secret")
	})

	t.Run("Fail: Unknown backend", func(t *testing.T) {
		t.Setenv("KANSO_AUTH_JWT_SECRET", "s")
		t.Setenv("KANSO_STORAGE_BACKEND", "sqlite")

		_, err := Load("")

		assert.ErrorContains(t, err, "storage.backend")
	})

	t.Run("Fail: Missing config file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.ErrorContains(t, err, "failed to read config file")
	})
}

func TestDBConfig_DSN(t *testing.T) {
	c := DBConfig{User: "u", Password: "p", Host: "h", Port: "5432", Name: "db", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p@h:5432/db?sslmode=disable", c.DSN())
}

func TestAppConfig_Location(t *testing.T) {
	loc, err := AppConfig{}.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)

	_, err = AppConfig{Timezone: "Mars/Olympus"}.Location()
	assert.Error(t, err)
}
