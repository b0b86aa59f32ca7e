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
	"errors"
	"fmt"
	"time"
)

// KeyCode is a two-digit lowercase hex key code in the ESC/VP21 protocol
type KeyCode string

// Button identifies a button on the projector remote
type Button int

// PowerState is the power state requested by a toggle
type PowerState string

const (
	// PowerOn is requested when the projector did not report itself on
	PowerOn PowerState = "on"
	// PowerOff is requested when the projector reported PWR=01
	PowerOff PowerState = "off"
)

// Serial link parameters
const (
	BaudRate    = 9600
	ReadTimeout = 500 * time.Millisecond

	// upper bound on a single query response
	maxResponseSize = 1024
)

// Protocol vocabulary
const (
	CommandPowerQuery = "PWR?"
	CommandPowerOn    = "PWR ON"
	CommandPowerOff   = "PWR OFF"
	commandKeyPrefix  = "KEY "

	// substring of a power query response when the lamp is on
	powerOnMarker = "PWR=01"

	lineTerminator = "\r\n"
)

var (
	// ErrNotFound is returned for buttons outside the command table
	ErrNotFound = errors.New("button not found")

	// ErrNotConnected is returned when a query needs an open session
	ErrNotConnected = errors.New("not connected")
)

// ConnectionError reports a failure to open a serial port
type ConnectionError struct {
	Port string
	Err  error
}

func (e *ConnectionError) Error() string {
	if e.Port == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Port, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// SendError reports a failed write on an open connection
type SendError struct {
	Command string
	Err     error
}

func (e *SendError) Error() string {
	return e.Err.Error()
}

func (e *SendError) Unwrap() error {
	return e.Err
}
