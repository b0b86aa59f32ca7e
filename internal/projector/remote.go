package projector

import (
	"errors"
	"fmt"
	"strings"

	"vp21rc/internal/device"
)

// Remote implements device.Device for an ESC/VP21 projector behind a Session
type Remote struct {
	session *Session
	model   string
}

// NewRemote wraps session as a device.Device
func NewRemote(session *Session) *Remote {
	return &Remote{
		session: session,
		model:   "Epson ESC/VP21",
	}
}

// Session returns the underlying session
func (r *Remote) Session() *Session {
	return r.session
}

// GetDeviceInfo returns information about the projector
func (r *Remote) GetDeviceInfo() device.DeviceInfo {
	return device.DeviceInfo{
		Type:      "projector",
		Model:     r.model,
		Address:   r.session.Port(),
		Connected: r.session.IsOpen(),
		Capabilities: []string{
			"remote_control",
			"power_control",
		},
	}
}

// Process handles JSON action requests
func (r *Remote) Process(actionJSON []byte) (*device.ActionResponse, error) {
	request, err := device.ParseActionRequest(actionJSON)
	if err != nil {
		return device.Failure("%v", err), nil
	}

	switch request.Type {
	case device.ActionTypeKey:
		return r.processKeyAction(request.Action), nil
	case device.ActionTypePower:
		return r.processPowerAction(device.PowerAction(request.Action)), nil
	case device.ActionTypeQuery:
		return r.processQueryAction(request.Action), nil
	default:
		return device.Failure("unsupported action type: %s", request.Type), nil
	}
}

// Press dispatches a single button press. Unlike Session.SendKey, a press
// on a closed session fails with ErrNotConnected.
func (r *Remote) Press(b Button) (string, error) {
	if b == ButtonPower {
		state, err := r.session.TogglePower()
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Power %s sent", strings.ToUpper(string(state))), nil
	}

	code, err := Lookup(b)
	if err != nil {
		return "", err
	}
	if err := r.session.SendKeyConnected(code); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s (KEY %s) sent", b, code), nil
}

func (r *Remote) processKeyAction(name string) *device.ActionResponse {
	b, err := ParseButton(name)
	if err != nil {
		return device.Failure("unsupported key: %s", name)
	}

	msg, err := r.Press(b)
	if err != nil {
		if errors.Is(err, ErrNotConnected) {
			return device.Failure("not connected")
		}
		return device.Failure("%s failed: %v", b, err)
	}
	return &device.ActionResponse{Success: true, Data: msg}
}

func (r *Remote) processPowerAction(action device.PowerAction) *device.ActionResponse {
	switch action {
	case device.PowerActionToggle:
		state, err := r.session.TogglePower()
		if err != nil {
			return device.Failure("power toggle failed: %v", err)
		}
		return &device.ActionResponse{
			Success: true,
			Data:    map[string]interface{}{"requested": state},
		}
	case device.PowerActionStatus:
		on, err := r.session.PowerStatus()
		if err != nil {
			return device.Failure("power query failed: %v", err)
		}
		return &device.ActionResponse{
			Success: true,
			Data:    map[string]interface{}{"powered": on},
		}
	default:
		return device.Failure("unsupported power action: %s", action)
	}
}

func (r *Remote) processQueryAction(command string) *device.ActionResponse {
	if command != CommandPowerQuery {
		return device.Failure("unsupported query: %s", command)
	}

	resp, err := r.session.Query(command)
	if err != nil {
		if errors.Is(err, ErrNotConnected) {
			return device.Failure("not connected")
		}
		return device.Failure("query failed: %v", err)
	}
	return &device.ActionResponse{Success: true, Data: resp}
}
