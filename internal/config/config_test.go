package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.App.Env)
	assert.False(t, cfg.App.IsDevelopment())
	assert.Equal(t, ":8080", cfg.HTTP.Addr())
	assert.Equal(t, 5*time.Minute, cfg.Cache.HomepageTTL)
	assert.Empty(t, cfg.Database.URL)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "folio.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
app:
  env: development
http:
  port: 9000
cache:
  homepage_ttl: 2m
`), 0o600))

	t.Setenv("FOLIO_HTTP_PORT", "9100")
	t.Setenv("FOLIO_DATABASE_URL", "postgres://localhost/folio")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.True(t, cfg.App.IsDevelopment())
	assert.Equal(t, 9100, cfg.HTTP.Port)
	assert.Equal(t, 2*time.Minute, cfg.Cache.HomepageTTL)
	assert.Equal(t, "postgres://localhost/folio", cfg.Database.URL)
}

func TestLoad_Validation(t *testing.T) {
	t.Run("unknown env", func(t *testing.T) {
		t.Setenv("FOLIO_APP_ENV", "staging")
		_, err := Load("")
		require.Error(t, err)
	})

	t.Run("admin needs a strong secret", func(t *testing.T) {
		t.Setenv("FOLIO_AUTH_ADMIN_EMAIL", "me@example.com")
		t.Setenv("FOLIO_AUTH_ADMIN_PASSWORD_HASH", "$2a$10$abc")
		t.Setenv("FOLIO_AUTH_JWT_SECRET", "short")
		_, err := Load("")
		require.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
	})
}
