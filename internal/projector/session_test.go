package projector

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTransport records writes and replays a scripted response
type fakeTransport struct {
	name     string
	written  []string
	response []byte
	closed   int

	inputResets  int
	outputResets int

	closeErr error
	writeErr error
	resetErr error
	shortBy  int

	events *[]string
}

func (f *fakeTransport) Write(p []byte) (int, error) {
	if f.writeErr != nil {
		return 0, f.writeErr
	}
	f.written = append(f.written, string(p))
	return len(p) - f.shortBy, nil
}

func (f *fakeTransport) Read(p []byte) (int, error) {
	if len(f.response) == 0 {
		return 0, nil
	}
	n := copy(p, f.response)
	f.response = f.response[n:]
	return n, nil
}

func (f *fakeTransport) Close() error {
	f.closed++
	if f.events != nil {
		*f.events = append(*f.events, "close "+f.name)
	}
	return f.closeErr
}

func (f *fakeTransport) ResetInputBuffer() error {
	if f.resetErr != nil {
		return f.resetErr
	}
	f.inputResets++
	f.response = nil
	return nil
}

func (f *fakeTransport) ResetOutputBuffer() error {
	f.outputResets++
	return nil
}

type notification struct {
	enabled bool
	message string
}

// newTestSession returns a session whose opener hands out transports by port name
func newTestSession(transports map[string]*fakeTransport, events *[]string) (*Session, *[]notification) {
	var notes []notification
	opener := func(port string) (Transport, error) {
		if events != nil {
			*events = append(*events, "open "+port)
		}
		tr, ok := transports[port]
		if !ok {
			return nil, errors.New("no such file or directory")
		}
		tr.events = events
		return tr, nil
	}
	s := NewSession(
		WithOpener(opener),
		WithNotifier(func(enabled bool, message string) {
			notes = append(notes, notification{enabled, message})
		}),
	)
	return s, &notes
}

func TestSessionOpen(t *testing.T) {
	t.Run("opens and notifies connected", func(t *testing.T) {
		tr := &fakeTransport{name: "COM3"}
		s, notes := newTestSession(map[string]*fakeTransport{"COM3": tr}, nil)

		require.NoError(t, s.Open("COM3"))
		assert.True(t, s.IsOpen())
		assert.Equal(t, "COM3", s.Port())
		assert.Equal(t, []notification{{true, StatusConnected}}, *notes)
	})

	t.Run("discards stale input on every open", func(t *testing.T) {
		tr := &fakeTransport{name: "COM3", response: []byte("PWR=01\r:")}
		s, _ := newTestSession(map[string]*fakeTransport{"COM3": tr}, nil)

		require.NoError(t, s.Open("COM3"))
		assert.Equal(t, 1, tr.inputResets)
		assert.Equal(t, 1, tr.outputResets)

		tr.response = []byte("PWR=01\r:")
		require.NoError(t, s.Open("COM3"))
		assert.Equal(t, 2, tr.inputResets)
		assert.Equal(t, 2, tr.outputResets)

		state, err := s.TogglePower()
		require.NoError(t, err)
		assert.Equal(t, PowerOn, state)
		assert.Equal(t, []string{"PWR?\r\n", "PWR ON\r\n"}, tr.written)
	})

	t.Run("reports connection error and stays closed", func(t *testing.T) {
		s, notes := newTestSession(map[string]*fakeTransport{}, nil)

		err := s.Open("COM9")
		require.Error(t, err)

		var cerr *ConnectionError
		require.ErrorAs(t, err, &cerr)
		assert.Equal(t, "COM9", cerr.Port)
		assert.Contains(t, err.Error(), "no such file or directory")
		assert.False(t, s.IsOpen())
		require.Len(t, *notes, 1)
		assert.False(t, (*notes)[0].enabled)
		assert.Equal(t, err.Error(), (*notes)[0].message)
	})

	t.Run("closes the transport when buffers cannot be reset", func(t *testing.T) {
		tr := &fakeTransport{name: "COM3", resetErr: errors.New("io error")}
		s, _ := newTestSession(map[string]*fakeTransport{"COM3": tr}, nil)

		var cerr *ConnectionError
		require.ErrorAs(t, s.Open("COM3"), &cerr)
		assert.Equal(t, 1, tr.closed)
		assert.False(t, s.IsOpen())
	})

	t.Run("closes the previous transport before opening a new one", func(t *testing.T) {
		var events []string
		first := &fakeTransport{name: "COM3", closeErr: errors.New("device vanished")}
		second := &fakeTransport{name: "COM4"}
		s, notes := newTestSession(map[string]*fakeTransport{"COM3": first, "COM4": second}, &events)

		require.NoError(t, s.Open("COM3"))
		require.NoError(t, s.Open("COM4"))

		assert.Equal(t, []string{"open COM3", "close COM3", "open COM4"}, events)
		assert.Equal(t, "COM4", s.Port())
		assert.True(t, s.IsOpen())
		assert.Len(t, *notes, 2)
	})

	t.Run("failed reopen leaves the session closed", func(t *testing.T) {
		first := &fakeTransport{name: "COM3"}
		s, _ := newTestSession(map[string]*fakeTransport{"COM3": first}, nil)

		require.NoError(t, s.Open("COM3"))
		require.Error(t, s.Open("COM5"))

		assert.Equal(t, 1, first.closed)
		assert.False(t, s.IsOpen())
		assert.Empty(t, s.Port())
	})
}

func TestSessionClose(t *testing.T) {
	t.Run("swallows close errors", func(t *testing.T) {
		tr := &fakeTransport{name: "COM3", closeErr: errors.New("bad file descriptor")}
		s, _ := newTestSession(map[string]*fakeTransport{"COM3": tr}, nil)

		require.NoError(t, s.Open("COM3"))
		s.Close()

		assert.False(t, s.IsOpen())
		assert.Equal(t, 1, tr.closed)
	})

	t.Run("is a no-op when already closed", func(t *testing.T) {
		s, _ := newTestSession(nil, nil)
		s.Close()
		assert.False(t, s.IsOpen())
	})
}

func TestSessionSendKey(t *testing.T) {
	t.Run("does nothing when closed", func(t *testing.T) {
		tr := &fakeTransport{name: "COM3"}
		s, _ := newTestSession(map[string]*fakeTransport{"COM3": tr}, nil)

		assert.NoError(t, s.SendKey("43"))
		assert.Empty(t, tr.written)
	})

	t.Run("writes the key line", func(t *testing.T) {
		tr := &fakeTransport{name: "COM3"}
		s, _ := newTestSession(map[string]*fakeTransport{"COM3": tr}, nil)
		require.NoError(t, s.Open("COM3"))

		require.NoError(t, s.SendKey("43"))
		assert.Equal(t, []string{"KEY 43\r\n"}, tr.written)
	})

	t.Run("surfaces write failures and stays open", func(t *testing.T) {
		tr := &fakeTransport{name: "COM3"}
		s, _ := newTestSession(map[string]*fakeTransport{"COM3": tr}, nil)
		require.NoError(t, s.Open("COM3"))

		require.NoError(t, s.SendKey("4a"))
		assert.Equal(t, []string{"KEY 4a\r\n"}, tr.written)

		tr.writeErr = errors.New("input/output error")
		err := s.SendKey("3f")

		var serr *SendError
		require.ErrorAs(t, err, &serr)
		assert.Equal(t, "input/output error", serr.Error())
		assert.Equal(t, "KEY 3f", serr.Command)
		assert.True(t, s.IsOpen())
	})

	t.Run("reports short writes", func(t *testing.T) {
		tr := &fakeTransport{name: "COM3", shortBy: 2}
		s, _ := newTestSession(map[string]*fakeTransport{"COM3": tr}, nil)
		require.NoError(t, s.Open("COM3"))

		var serr *SendError
		require.ErrorAs(t, s.SendKey("3c"), &serr)
		assert.ErrorIs(t, serr, io.ErrShortWrite)
		assert.Equal(t, "KEY 3c", serr.Command)
		assert.True(t, s.IsOpen())
	})
}

func TestSessionSendKeyConnected(t *testing.T) {
	t.Run("reports a closed session", func(t *testing.T) {
		tr := &fakeTransport{name: "COM3"}
		s, _ := newTestSession(map[string]*fakeTransport{"COM3": tr}, nil)

		var serr *SendError
		require.ErrorAs(t, s.SendKeyConnected("5a"), &serr)
		assert.ErrorIs(t, serr, ErrNotConnected)
		assert.Equal(t, "KEY 5a", serr.Command)
		assert.Empty(t, tr.written)
	})

	t.Run("writes the key line when open", func(t *testing.T) {
		tr := &fakeTransport{name: "COM3"}
		s, _ := newTestSession(map[string]*fakeTransport{"COM3": tr}, nil)
		require.NoError(t, s.Open("COM3"))

		require.NoError(t, s.SendKeyConnected("5a"))
		assert.Equal(t, []string{"KEY 5a\r\n"}, tr.written)
	})
}

func TestSessionSend(t *testing.T) {
	tr := &fakeTransport{name: "COM3"}
	s, _ := newTestSession(map[string]*fakeTransport{"COM3": tr}, nil)
	require.NoError(t, s.Open("COM3"))

	require.NoError(t, s.Send("PWR ON"))
	assert.Equal(t, []string{"PWR ON\r\n"}, tr.written)
}

func TestSessionTogglePower(t *testing.T) {
	cases := []struct {
		name     string
		response string
		state    PowerState
		command  string
	}{
		{"powered on turns off", "PWR=01\r:", PowerOff, "PWR OFF\r\n"},
		{"standby turns on", "PWR=00\r:", PowerOn, "PWR ON\r\n"},
		{"warming up turns on", "PWR=02\r:", PowerOn, "PWR ON\r\n"},
		{"empty response turns on", "", PowerOn, "PWR ON\r\n"},
		{"marker after noise turns off", ":\r:PWR=01\r:", PowerOff, "PWR OFF\r\n"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			tr := &fakeTransport{name: "COM3", response: []byte(c.response)}
			s, _ := newTestSession(map[string]*fakeTransport{"COM3": tr}, nil)
			require.NoError(t, s.Open("COM3"))

			state, err := s.TogglePower()
			require.NoError(t, err)
			assert.Equal(t, c.state, state)
			assert.Equal(t, []string{"PWR?\r\n", c.command}, tr.written)
		})
	}

	t.Run("fails on a closed session", func(t *testing.T) {
		s, _ := newTestSession(nil, nil)

		_, err := s.TogglePower()
		assert.ErrorIs(t, err, ErrNotConnected)
	})

	t.Run("surfaces write failures", func(t *testing.T) {
		tr := &fakeTransport{name: "COM3"}
		s, _ := newTestSession(map[string]*fakeTransport{"COM3": tr}, nil)
		require.NoError(t, s.Open("COM3"))
		tr.writeErr = errors.New("broken pipe")

		_, err := s.TogglePower()
		var serr *SendError
		require.ErrorAs(t, err, &serr)
		assert.Equal(t, CommandPowerQuery, serr.Command)
		assert.True(t, s.IsOpen())
	})
}

func TestSessionPowerStatus(t *testing.T) {
	tr := &fakeTransport{name: "COM3", response: []byte("PWR=01\r:")}
	s, _ := newTestSession(map[string]*fakeTransport{"COM3": tr}, nil)
	require.NoError(t, s.Open("COM3"))

	on, err := s.PowerStatus()
	require.NoError(t, err)
	assert.True(t, on)
	assert.Equal(t, []string{"PWR?\r\n"}, tr.written)
}

func TestReadAvailableStopsAtLimit(t *testing.T) {
	endless := readerFunc(func(p []byte) (int, error) {
		for i := range p {
			p[i] = 'x'
		}
		return len(p), nil
	})

	resp := readAvailable(endless)
	assert.GreaterOrEqual(t, len(resp), maxResponseSize)
	assert.Less(t, len(resp), maxResponseSize+128)
}

type readerFunc func([]byte) (int, error)

func (f readerFunc) Read(p []byte) (int, error) { return f(p) }
