package internal

import (
	"vp21rc/internal/projector"
)

// FnModeOptions carries the run mode shared by the CLI front ends
type FnModeOptions struct {
	Debug bool
	Test  bool
}

type FnModeOption func(*FnModeOptions)

func WithDebug(debug bool) FnModeOption {
	return func(opts *FnModeOptions) {
		opts.Debug = debug
	}
}

func WithTest(test bool) FnModeOption {
	return func(opts *FnModeOptions) {
		opts.Test = test
	}
}

func NewModeOptions(options ...FnModeOption) *FnModeOptions {
	opts := &FnModeOptions{}
	for _, option := range options {
		option(opts)
	}
	return opts
}

// Opener returns the port opener for this mode. Test mode talks to an
// in-memory projector instead of a serial port.
func (o *FnModeOptions) Opener() projector.Opener {
	if o.Test {
		return projector.SimulatorOpener(projector.NewSimulator())
	}
	return projector.OpenSerial
}

// Ports lists the ports selectable in this mode
func (o *FnModeOptions) Ports() ([]projector.PortInfo, error) {
	if o.Test {
		return []projector.PortInfo{{Name: projector.SimulatorPort}}, nil
	}
	return projector.ListPorts()
}
