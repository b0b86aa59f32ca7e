package device

import (
	"encoding/json"
	"fmt"
)

// Device represents a generic device that can process commands
type Device interface {
	// Process handles a JSON-encoded action and executes the corresponding operation
	Process(actionJSON []byte) (*ActionResponse, error)

	// GetDeviceInfo returns basic information about the device
	GetDeviceInfo() DeviceInfo
}

// DeviceInfo contains basic information about a device
type DeviceInfo struct {
	Type         string   `json:"type"`
	Model        string   `json:"model"`
	Address      string   `json:"address"`
	Connected    bool     `json:"connected"`
	Capabilities []string `json:"capabilities"`
}

// ActionType represents the type of action to perform
type ActionType string

const (
	ActionTypeKey   ActionType = "key"
	ActionTypePower ActionType = "power"
	ActionTypeQuery ActionType = "query"
)

// ActionRequest represents a JSON action request
type ActionRequest struct {
	Type   ActionType `json:"type"`   // "key", "power" or "query"
	Action string     `json:"action"` // button name, power action or command
}

// ActionResponse represents the response from processing an action
type ActionResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// PowerAction represents the actions accepted for ActionTypePower
type PowerAction string

const (
	PowerActionToggle PowerAction = "toggle"
	PowerActionStatus PowerAction = "status"
)

// NewActionRequest encodes an action for Device.Process
func NewActionRequest(actionType ActionType, action string) ([]byte, error) {
	return json.Marshal(ActionRequest{Type: actionType, Action: action})
}

// ParseActionRequest parses JSON input into ActionRequest
func ParseActionRequest(actionJSON []byte) (*ActionRequest, error) {
	var request ActionRequest
	if err := json.Unmarshal(actionJSON, &request); err != nil {
		return nil, fmt.Errorf("failed to parse action request: %w", err)
	}

	if request.Type == "" {
		return nil, fmt.Errorf("action type is required")
	}

	if request.Action == "" {
		return nil, fmt.Errorf("action is required")
	}

	return &request, nil
}

// Failure builds an unsuccessful response
func Failure(format string, args ...interface{}) *ActionResponse {
	return &ActionResponse{
		Success: false,
		Error:   fmt.Sprintf(format, args...),
	}
}
