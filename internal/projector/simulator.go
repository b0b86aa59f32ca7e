package projector

import (
	"bytes"
	"errors"
	"strings"
	"sync"
)

// SimulatorPort is the port name reported in test mode
const SimulatorPort = "simulator"

var errSimulatorClosed = errors.New("simulator: port closed")

// Simulator is an in-memory projector speaking the ESC/VP21 subset used
// by the remote. It answers every command line with ":" and power
// queries with "PWR=0x\r:".
type Simulator struct {
	mu      sync.Mutex
	powered bool
	closed  bool
	pending bytes.Buffer
	out     bytes.Buffer
	lines   []string
}

// NewSimulator creates a powered-off simulator
func NewSimulator() *Simulator {
	return &Simulator{}
}

// SimulatorOpener returns an Opener that always connects to sim
func SimulatorOpener(sim *Simulator) Opener {
	return func(port string) (Transport, error) {
		sim.mu.Lock()
		defer sim.mu.Unlock()
		sim.closed = false
		return sim, nil
	}
}

func (s *Simulator) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, errSimulatorClosed
	}

	s.pending.Write(p)
	for {
		line, err := s.pending.ReadString('\n')
		if err != nil {
			// keep the partial line for the next write
			rest := line
			s.pending.Reset()
			s.pending.WriteString(rest)
			break
		}
		s.handle(strings.TrimRight(line, "\r\n"))
	}
	return len(p), nil
}

// Read returns queued answers; an empty queue reads zero bytes like a
// timed out serial read.
func (s *Simulator) Read(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, errSimulatorClosed
	}
	if s.out.Len() == 0 {
		return 0, nil
	}
	return s.out.Read(p)
}

func (s *Simulator) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *Simulator) ResetInputBuffer() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.out.Reset()
	return nil
}

func (s *Simulator) ResetOutputBuffer() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending.Reset()
	return nil
}

// Powered reports the simulated power state
func (s *Simulator) Powered() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.powered
}

// Lines returns every command line received so far
func (s *Simulator) Lines() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.lines...)
}

func (s *Simulator) handle(line string) {
	s.lines = append(s.lines, line)

	switch {
	case line == CommandPowerQuery:
		if s.powered {
			s.out.WriteString("PWR=01\r:")
		} else {
			s.out.WriteString("PWR=00\r:")
		}
	case line == CommandPowerOn:
		s.powered = true
		s.out.WriteString(":")
	case line == CommandPowerOff:
		s.powered = false
		s.out.WriteString(":")
	case strings.HasPrefix(line, commandKeyPrefix) && len(line) == len(commandKeyPrefix)+2:
		s.out.WriteString(":")
	default:
		s.out.WriteString("ERR\r:")
	}
}
