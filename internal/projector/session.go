// Copyright 2025 Arion Yau
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package projector

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"vp21rc/internal/logger"
)

// Transport is an open link to the projector
type Transport interface {
	io.ReadWriteCloser
	ResetInputBuffer() error
	ResetOutputBuffer() error
}

// Opener opens a transport on the named port
type Opener func(port string) (Transport, error)

// Notifier receives the outcome of every Open attempt. enabled reports
// whether key controls should accept presses. It runs with the session
// locked and must not call back into the session.
type Notifier func(enabled bool, message string)

// StatusConnected is the message sent to the Notifier after a successful Open
const StatusConnected = "Connected"

// Session owns the single serial connection to the projector
type Session struct {
	mu     sync.Mutex
	opener Opener
	notify Notifier
	logger zerolog.Logger

	conn Transport
	port string
}

// SessionOption configures a Session
type SessionOption func(*Session)

// WithOpener replaces the serial port opener
func WithOpener(opener Opener) SessionOption {
	return func(s *Session) {
		s.opener = opener
	}
}

// WithNotifier registers the connection state callback
func WithNotifier(notify Notifier) SessionOption {
	return func(s *Session) {
		s.notify = notify
	}
}

// WithLogger replaces the session logger
func WithLogger(log zerolog.Logger) SessionOption {
	return func(s *Session) {
		s.logger = log
	}
}

// NewSession creates a closed session
func NewSession(options ...SessionOption) *Session {
	s := &Session{
		opener: OpenSerial,
		logger: logger.New(),
	}
	for _, option := range options {
		option(s)
	}
	return s
}

// Open connects to port, replacing any existing connection
func (s *Session) Open(port string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closeLocked()

	conn, err := s.opener(port)
	if err != nil {
		cerr := &ConnectionError{Port: port, Err: err}
		s.logger.Error().Err(err).Str("port", port).Msg("Failed to open serial port")
		s.emit(false, cerr.Error())
		return cerr
	}

	if err := resetBuffers(conn); err != nil {
		conn.Close()
		cerr := &ConnectionError{Port: port, Err: fmt.Errorf("failed to reset buffers: %w", err)}
		s.logger.Error().Err(err).Str("port", port).Msg("Failed to reset serial buffers")
		s.emit(false, cerr.Error())
		return cerr
	}

	s.conn = conn
	s.port = port

	s.logger.Info().Str("port", port).Msg("Connected to projector")
	s.emit(true, StatusConnected)
	return nil
}

// Close closes the connection if one is open. Close errors are dropped.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closeLocked()
}

// IsOpen reports whether a connection is open
func (s *Session) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn != nil
}

// Port returns the port of the open connection, or "" when closed
func (s *Session) Port() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.port
}

// Send writes a command line. It does nothing on a closed session.
func (s *Session) Send(line string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil {
		s.logger.Debug().Str("command", line).Msg("Session closed, dropping command")
		return nil
	}
	return s.writeLocked(line)
}

// SendKey sends a remote key press
func (s *Session) SendKey(code KeyCode) error {
	return s.Send(commandKeyPrefix + string(code))
}

// SendKeyConnected sends a key press like SendKey but reports
// ErrNotConnected instead of dropping the press on a closed session.
// The open check and the write happen under one lock.
func (s *Session) SendKeyConnected(code KeyCode) error {
	line := commandKeyPrefix + string(code)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil {
		return &SendError{Command: line, Err: ErrNotConnected}
	}
	return s.writeLocked(line)
}

// Query sends a command line and returns whatever the projector answers
// within the read timeout.
func (s *Session) Query(line string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queryLocked(line)
}

// TogglePower asks the projector for its power state and sends the
// opposite command. A missing or unrecognised answer counts as off.
func (s *Session) TogglePower() (PowerState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	resp, err := s.queryLocked(CommandPowerQuery)
	if err != nil {
		return "", err
	}

	if strings.Contains(resp, powerOnMarker) {
		return PowerOff, s.writeLocked(CommandPowerOff)
	}
	return PowerOn, s.writeLocked(CommandPowerOn)
}

// PowerStatus reports whether the projector says it is powered on
func (s *Session) PowerStatus() (bool, error) {
	resp, err := s.Query(CommandPowerQuery)
	if err != nil {
		return false, err
	}
	return strings.Contains(resp, powerOnMarker), nil
}

func (s *Session) closeLocked() {
	if s.conn == nil {
		return
	}
	if err := s.conn.Close(); err != nil {
		s.logger.Debug().Err(err).Str("port", s.port).Msg("Ignoring error closing serial port")
	}
	s.conn = nil
	s.port = ""
}

func (s *Session) writeLocked(line string) error {
	data := []byte(line + lineTerminator)
	n, err := s.conn.Write(data)
	if err == nil && n != len(data) {
		err = io.ErrShortWrite
	}
	if err != nil {
		s.logger.Error().Err(err).Str("command", line).Int("written", n).Msg("Failed to send command")
		return &SendError{Command: line, Err: err}
	}
	s.logger.Debug().Str("command", line).Msg("Command sent")
	return nil
}

func (s *Session) queryLocked(line string) (string, error) {
	if s.conn == nil {
		return "", &SendError{Command: line, Err: ErrNotConnected}
	}
	if err := s.writeLocked(line); err != nil {
		return "", err
	}

	resp := readAvailable(s.conn)
	s.logger.Debug().Str("command", line).Str("response", resp).Msg("Query answered")
	return resp, nil
}

// readAvailable reads until the port stops producing data. A read that
// times out returns zero bytes.
func readAvailable(r io.Reader) string {
	var sb strings.Builder
	buf := make([]byte, 128)
	for sb.Len() < maxResponseSize {
		n, err := r.Read(buf)
		sb.Write(buf[:n])
		if n == 0 || err != nil {
			break
		}
	}
	return sb.String()
}

func resetBuffers(conn Transport) error {
	if err := conn.ResetInputBuffer(); err != nil {
		return err
	}
	return conn.ResetOutputBuffer()
}

func (s *Session) emit(enabled bool, message string) {
	if s.notify != nil {
		s.notify(enabled, message)
	}
}
