package projector

import (
	"fmt"
	"strings"
)

// Remote buttons in panel order
const (
	ButtonPower Button = iota
	ButtonComputer
	ButtonVideo
	ButtonColour
	ButtonMenu
	ButtonMute
	ButtonFreeze
	ButtonMinus
	ButtonPlus
	ButtonUp
	ButtonDown
	ButtonLeft
	ButtonRight
	ButtonEnter
	ButtonAuto
	ButtonEsc

	buttonCount
)

var buttonNames = [buttonCount]string{
	ButtonPower:    "power",
	ButtonComputer: "computer",
	ButtonVideo:    "video",
	ButtonColour:   "colour",
	ButtonMenu:     "menu",
	ButtonMute:     "mute",
	ButtonFreeze:   "freeze",
	ButtonMinus:    "minus",
	ButtonPlus:     "plus",
	ButtonUp:       "up",
	ButtonDown:     "down",
	ButtonLeft:     "left",
	ButtonRight:    "right",
	ButtonEnter:    "enter",
	ButtonAuto:     "auto",
	ButtonEsc:      "esc",
}

// Lookup returns the key code sent for a button. Power has no key code
// of its own; it is handled by Session.TogglePower.
func Lookup(b Button) (KeyCode, error) {
	switch b {
	case ButtonComputer:
		return "43", nil
	case ButtonVideo:
		return "48", nil
	case ButtonColour:
		return "3f", nil
	case ButtonMenu:
		return "3c", nil
	case ButtonMute:
		return "3e", nil
	case ButtonFreeze:
		return "47", nil
	case ButtonMinus:
		return "29", nil
	case ButtonPlus:
		return "28", nil
	case ButtonUp:
		return "58", nil
	case ButtonDown:
		return "59", nil
	case ButtonLeft:
		return "5a", nil
	case ButtonRight:
		return "5b", nil
	case ButtonEnter:
		return "49", nil
	case ButtonAuto:
		return "4a", nil
	case ButtonEsc:
		return "3d", nil
	}
	return "", fmt.Errorf("%w: %s", ErrNotFound, b)
}

// ParseButton resolves a button by name, ignoring case
func ParseButton(name string) (Button, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "color" {
		return ButtonColour, nil
	}
	for i, n := range buttonNames {
		if n == name {
			return Button(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrNotFound, name)
}

func (b Button) String() string {
	if b < 0 || b >= buttonCount {
		return fmt.Sprintf("button(%d)", int(b))
	}
	return buttonNames[b]
}

// Buttons returns every remote button, power first
func Buttons() []Button {
	buttons := make([]Button, 0, buttonCount)
	for b := ButtonPower; b < buttonCount; b++ {
		buttons = append(buttons, b)
	}
	return buttons
}

// KeyButtons returns the buttons that map to a key code
func KeyButtons() []Button {
	return Buttons()[1:]
}
