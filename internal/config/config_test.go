package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "does-not-exist.toml")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "tripcraft", cfg.App.Name)
	assert.Equal(t, DefaultJWTSecret, cfg.Auth.JWTSecret)
	assert.Equal(t, 7*24*60, cfg.Auth.JWTExpireMinute)
	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTPAddr())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("CONFIG_FILE", "does-not-exist.toml")
	t.Setenv("JWT_SECRET_KEY", "from-env")
	t.Setenv("GEMINI_API_KEY", "gk-123")
	t.Setenv("DB_DRIVER", "mysql")
	t.Setenv("MYSQL_HOST", "db.internal")
	t.Setenv("APP_PORT", "9000")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Auth.JWTSecret)
	assert.Equal(t, "gk-123", cfg.LLM.GeminiAPIKey)
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, 9000, cfg.App.Port)
	assert.Contains(t, cfg.MySQLDSN(), "db.internal")
}

func TestLoad_BadIntEnvFallsBack(t *testing.T) {
	t.Setenv("CONFIG_FILE", "does-not-exist.toml")
	t.Setenv("APP_PORT", "not-a-port")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.App.Port)
}
