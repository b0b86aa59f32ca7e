package cli

import (
	"time"

	"github.com/charmbracelet/lipgloss"
	"vp21rc/internal/projector"
)

// Screen types
type screen int

const (
	screenPortSetup screen = iota
	screenRemoteControl
)

// Common styles
var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1).
			Bold(true)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7D56F4")).
			Bold(true)

	remoteButtonStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				Padding(0, 1).
				Margin(0, 1).
				Background(lipgloss.Color("#44475A")).
				Foreground(lipgloss.Color("#F8F8F2"))

	remoteButtonActiveStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				Padding(0, 1).
				Margin(0, 1).
				Background(lipgloss.Color("#FF79C6")).
				Foreground(lipgloss.Color("#FAFAFA"))

	remoteButtonDisabledStyle = lipgloss.NewStyle().
					Border(lipgloss.RoundedBorder()).
					BorderForeground(lipgloss.Color("#44475A")).
					Padding(0, 1).
					Margin(0, 1).
					Foreground(lipgloss.Color("#6272A4"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5555")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#50FA7B")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6272A4"))
)

// keyBindings maps keyboard keys to remote buttons
var keyBindings = map[string]projector.Button{
	"p":         projector.ButtonPower,
	"c":         projector.ButtonComputer,
	"v":         projector.ButtonVideo,
	"o":         projector.ButtonColour,
	"m":         projector.ButtonMenu,
	"u":         projector.ButtonMute,
	"f":         projector.ButtonFreeze,
	"-":         projector.ButtonMinus,
	"+":         projector.ButtonPlus,
	"=":         projector.ButtonPlus,
	"up":        projector.ButtonUp,
	"down":      projector.ButtonDown,
	"left":      projector.ButtonLeft,
	"right":     projector.ButtonRight,
	"enter":     projector.ButtonEnter,
	"a":         projector.ButtonAuto,
	"esc":       projector.ButtonEsc,
	"backspace": projector.ButtonEsc,
}

// buttonLabels are the six-character captions drawn on the panel
var buttonLabels = map[projector.Button]string{
	projector.ButtonPower:    " PWR  ",
	projector.ButtonComputer: " COMP ",
	projector.ButtonVideo:    "VIDEO ",
	projector.ButtonColour:   "COLOUR",
	projector.ButtonMenu:     " MENU ",
	projector.ButtonMute:     " MUTE ",
	projector.ButtonFreeze:   "FREEZE",
	projector.ButtonMinus:    "  -   ",
	projector.ButtonPlus:     "  +   ",
	projector.ButtonUp:       "  ↑   ",
	projector.ButtonDown:     "  ↓   ",
	projector.ButtonLeft:     "  ←   ",
	projector.ButtonRight:    "  →   ",
	projector.ButtonEnter:    "ENTER ",
	projector.ButtonAuto:     " AUTO ",
	projector.ButtonEsc:      " ESC  ",
}

// connectionState is written by the session notifier and read by both screens
type connectionState struct {
	enabled bool
	status  string
}

func (c *connectionState) notifier() projector.Notifier {
	return func(enabled bool, message string) {
		c.enabled = enabled
		c.status = message
	}
}

// LogEntry represents a log entry for display
type LogEntry struct {
	Timestamp time.Time
	Level     string // INF, ERR
	Message   string
}
