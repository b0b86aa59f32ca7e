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
	path := filepath.Join(t.TempDir(), "vp21rc.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("returns defaults when the file is missing", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "missing.yml")

		config, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, Default(), config)
		assert.False(t, config.AuthEnabled())

		_, err = os.Stat(path)
		assert.True(t, os.IsNotExist(err), "Load must not create the file")
	})

	t.Run("overlays file values on defaults", func(t *testing.T) {
		path := writeConfig(t, `
serial:
  port: /dev/ttyUSB0
log:
  level: debug
api:
  jwt_secret: 0123456789abcdef0123
`)

		config, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "/dev/ttyUSB0", config.Serial.Port)
		assert.Equal(t, "debug", config.Log.Level)
		assert.Equal(t, "127.0.0.1:8021", config.API.Listen)
		assert.Equal(t, 24, config.API.TokenExpiryHours)
		assert.True(t, config.AuthEnabled())
	})

	t.Run("rejects malformed yaml", func(t *testing.T) {
		path := writeConfig(t, "serial: [unterminated")

		_, err := Load(path)
		assert.ErrorContains(t, err, "failed to parse config file")
	})

	t.Run("rejects invalid values", func(t *testing.T) {
		path := writeConfig(t, "log:\n  level: verbose\n")

		_, err := Load(path)
		assert.ErrorContains(t, err, "log.level")
	})
}

func TestValidate(t *testing.T) {
	t.Run("accepts defaults", func(t *testing.T) {
		assert.NoError(t, Default().Validate())
	})

	t.Run("rejects a listen address without port", func(t *testing.T) {
		config := Default()
		config.API.Listen = "localhost"
		assert.ErrorContains(t, config.Validate(), "api.listen")
	})

	t.Run("rejects a short jwt secret", func(t *testing.T) {
		config := Default()
		config.API.JWTSecret = "short"
		assert.ErrorContains(t, config.Validate(), "jwt_secret")
	})

	t.Run("rejects non-positive token expiry", func(t *testing.T) {
		config := Default()
		config.API.TokenExpiryHours = 0
		assert.ErrorContains(t, config.Validate(), "token_expiry_hours")
	})
}
