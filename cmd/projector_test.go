package cmd

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)

	missing := filepath.Join(t.TempDir(), "vp21rc.yml")
	rootCmd.SetArgs(append(args, "--config", missing))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestProjectorCommands(t *testing.T) {
	t.Run("lists buttons", func(t *testing.T) {
		out, err := execute(t, "projector", "list")
		require.NoError(t, err)
		assert.Contains(t, out, "computer  KEY 43")
		assert.Contains(t, out, "power     toggle")
	})

	t.Run("presses a key on the simulator", func(t *testing.T) {
		out, err := execute(t, "projector", "key", "Auto", "--test")
		require.NoError(t, err)
		assert.Contains(t, out, "auto (KEY 4a) sent")
	})

	t.Run("rejects unknown buttons", func(t *testing.T) {
		_, err := execute(t, "projector", "key", "volume", "--test")
		assert.ErrorContains(t, err, "unknown button")
	})

	t.Run("toggles power on the simulator", func(t *testing.T) {
		out, err := execute(t, "projector", "power", "--test")
		require.NoError(t, err)
		assert.Contains(t, out, "Power ON sent")
	})

	t.Run("reports power status", func(t *testing.T) {
		out, err := execute(t, "projector", "status", "--test")
		require.NoError(t, err)
		assert.Contains(t, out, "Power: off")
	})

	t.Run("queries raw commands", func(t *testing.T) {
		out, err := execute(t, "projector", "query", "PWR?", "--test")
		require.NoError(t, err)
		assert.Contains(t, out, `"PWR=00\r:"`)
	})

	t.Run("lists the simulator port", func(t *testing.T) {
		out, err := execute(t, "ports", "--test")
		require.NoError(t, err)
		assert.Contains(t, out, "simulator")
	})

	t.Run("token requires a secret", func(t *testing.T) {
		_, err := execute(t, "token", "panel")
		assert.ErrorContains(t, err, "api.jwt_secret")
	})
}
