package device

import (
	"errors"
	"io"
)

// Event defines the base event interface.
type Event interface {
	// IsInit indicates this is the init state.
	IsInit() bool
	// Index returns either Axis or Button index.
	Index() int
}

// AxisEvent represents the change on an axis.
type AxisEvent interface {
	Event
	Value() int
}

// ButtonEvent represents the change on a button.
type ButtonEvent interface {
	Event
	Pressed() bool
}

// Device represents an opened joystick.
type Device interface {
	io.Closer
	// Index returns the index of the device on the system.
	Index() int
	// Name returns the name of the device.
	Name() string
	// AxisCount returns the number of Axis on the device.
	AxisCount() int
	// ButtonCount returns the number of buttons on the device.
	ButtonCount() int
	// ReadEvent reads one event from the device.
	ReadEvent() (Event, error)
}

// MaxDevices is the number of device indices probed by DetectAndOpen.
const MaxDevices = 32

var (
	// ErrNoDevice is returned by DetectAndOpen when nothing is found.
	ErrNoDevice = errors.New("no joystick detected")
	// ErrUnsupported is returned on platforms without joystick support.
	ErrUnsupported = errors.New("joystick not supported on this platform")
)

// DetectAndOpen detects a next available device from startIndex and opens it.
func DetectAndOpen(startIndex int) (Device, error) {
	for index := startIndex; index < MaxDevices; index++ {
		d, err := Open(index)
		if err != nil {
			if errors.Is(err, ErrNoDevice) {
				continue
			}
			return nil, err
		}
		return d, nil
	}
	return nil, ErrNoDevice
}
