package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
database:
  url: postgres://localhost/test
server:
  port: ":4000"
auth:
  jwt_secret: test-secret
  token_ttl_hours: 12
quota:
  default_daily_limit: 5
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "postgres://localhost/test", cfg.Database.URL)
	assert.Equal(t, ":4000", cfg.Server.Port)
	assert.Equal(t, "test-secret", cfg.Auth.JWTSecret)
	assert.Equal(t, 12, cfg.Auth.TokenTTLHours)
	assert.Equal(t, 5, cfg.Quota.DefaultDailyLimit)
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeConfig(t, `
auth:
  jwt_secret: test-secret
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultTokenTTLHours, cfg.Auth.TokenTTLHours)
	assert.Equal(t, DefaultDailyLimit, cfg.Quota.DefaultDailyLimit)
	assert.Equal(t, DefaultPort, cfg.Server.Port)
}

// Startup must fail outright without a signing secret.
func TestLoadConfigMissingSecret(t *testing.T) {
	path := writeConfig(t, `
server:
  port: ":4000"
`)

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "jwt secret")
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
auth:
  jwt_secret: file-secret
`)

	t.Setenv("JWT_SECRET_KEY", "env-secret")
	t.Setenv("PORT", "9999")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "env-secret", cfg.Auth.JWTSecret)
	assert.Equal(t, ":9999", cfg.Server.Port)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yml"))
	assert.Error(t, err)
}
