package joystick

import (
	"math"

	"github.com/robotalks/swerve.go/pkg/joystick/device"
	"github.com/robotalks/swerve.go/pkg/swerve/kinematics"
)

// AxisMax is the full scale of an axis value.
const AxisMax = 32767

// Action is the result of handling a joystick event.
type Action int

// Actions
const (
	ActionNone Action = iota
	ActionDrive
	ActionStop
	ActionToggleMode
)

// Mapping maps joystick axes and buttons to swerve commands.
// Sticks pushed up report negative values, so forward is inverted.
type Mapping struct {
	ForwardAxes  []int
	StrafeAxes   []int
	RotationAxes []int
	StopButton   int
	ModeButton   int
	// Deadband is the fraction of full scale treated as zero.
	Deadband float64

	cmd kinematics.ChassisCommand
}

// DefaultDeadband is the default dead band of axes.
const DefaultDeadband = 0.08

// DefaultMapping is the layout of a common gamepad: left stick and d-pad
// translate, right stick X rotates, A stops and B toggles the mode.
func DefaultMapping() *Mapping {
	return &Mapping{
		ForwardAxes:  []int{1, 7},
		StrafeAxes:   []int{0, 6},
		RotationAxes: []int{3},
		StopButton:   0,
		ModeButton:   1,
		Deadband:     DefaultDeadband,
	}
}

// Command returns the current chassis command.
func (m *Mapping) Command() kinematics.ChassisCommand {
	return m.cmd
}

// Reset clears the current chassis command.
func (m *Mapping) Reset() {
	m.cmd = kinematics.ChassisCommand{}
}

// Handle updates the state with an event.
func (m *Mapping) Handle(ev device.Event) Action {
	switch e := ev.(type) {
	case device.AxisEvent:
		val := m.scale(e.Value())
		cmd := m.cmd
		switch {
		case containsIndex(m.ForwardAxes, e.Index()):
			cmd.Forward = -val
		case containsIndex(m.StrafeAxes, e.Index()):
			cmd.Strafe = val
		case containsIndex(m.RotationAxes, e.Index()):
			cmd.Rotation = val
		default:
			return ActionNone
		}
		if cmd == m.cmd {
			return ActionNone
		}
		m.cmd = cmd
		return ActionDrive
	case device.ButtonEvent:
		if e.IsInit() || !e.Pressed() {
			return ActionNone
		}
		switch e.Index() {
		case m.StopButton:
			m.Reset()
			return ActionStop
		case m.ModeButton:
			return ActionToggleMode
		}
	}
	return ActionNone
}

func (m *Mapping) scale(v int) float64 {
	f := math.Max(-1, math.Min(1, float64(v)/AxisMax))
	if math.Abs(f) <= m.Deadband {
		return 0
	}
	return math.Copysign((math.Abs(f)-m.Deadband)/(1-m.Deadband), f)
}

func containsIndex(indices []int, index int) bool {
	for _, i := range indices {
		if i == index {
			return true
		}
	}
	return false
}
