package projector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulator(t *testing.T) {
	t.Run("toggles power through a session", func(t *testing.T) {
		sim := NewSimulator()
		s := NewSession(WithOpener(SimulatorOpener(sim)))
		require.NoError(t, s.Open(SimulatorPort))

		state, err := s.TogglePower()
		require.NoError(t, err)
		assert.Equal(t, PowerOn, state)
		assert.True(t, sim.Powered())

		state, err = s.TogglePower()
		require.NoError(t, err)
		assert.Equal(t, PowerOff, state)
		assert.False(t, sim.Powered())

		assert.Equal(t, []string{"PWR?", "PWR ON", "PWR?", "PWR OFF"}, sim.Lines())
	})

	t.Run("assembles lines split across writes", func(t *testing.T) {
		sim := NewSimulator()
		_, err := sim.Write([]byte("KEY "))
		require.NoError(t, err)
		assert.Empty(t, sim.Lines())

		_, err = sim.Write([]byte("43\r\nKEY 4a\r\n"))
		require.NoError(t, err)
		assert.Equal(t, []string{"KEY 43", "KEY 4a"}, sim.Lines())
	})

	t.Run("answers unknown commands with ERR", func(t *testing.T) {
		sim := NewSimulator()
		_, err := sim.Write([]byte("LAMP?\r\n"))
		require.NoError(t, err)

		assert.Equal(t, "ERR\r:", readAvailable(sim))
	})

	t.Run("rejects writes after close", func(t *testing.T) {
		sim := NewSimulator()
		require.NoError(t, sim.Close())

		_, err := sim.Write([]byte("KEY 43\r\n"))
		assert.Error(t, err)
	})

	t.Run("reopens after close", func(t *testing.T) {
		sim := NewSimulator()
		s := NewSession(WithOpener(SimulatorOpener(sim)))
		require.NoError(t, s.Open(SimulatorPort))
		require.NoError(t, s.Open(SimulatorPort))

		require.NoError(t, s.SendKey("49"))
		assert.Equal(t, []string{"KEY 49"}, sim.Lines())
	})
}
