// Package drive assembles the kinematics solver and the continuous rotation
// optimizer with per-wheel hardware into a complete swerve drive.
package drive

import (
	"errors"

	pkgerrors "github.com/pkg/errors"

	"github.com/robotalks/swerve.go/pkg/swerve/kinematics"
	"github.com/robotalks/swerve.go/pkg/swerve/rotation"
)

var (
	// ErrInvalidGearRatio indicates a non-positive gear ratio.
	ErrInvalidGearRatio = errors.New("gear ratio must be > 0")
	// ErrNoHardware indicates the enclosure has no hardware attached.
	ErrNoHardware = errors.New("hardware required")
)

// Hardware is the raw sensor/actuator access of one wheel enclosure.
// Positions are in native sensor ticks with hardware polarity.
type Hardware interface {
	// AbsolutePosition reads the accumulated steering sensor position.
	AbsolutePosition() (int64, error)
	// SetAbsolutePosition re-zeroes the steering sensor.
	SetAbsolutePosition(ticks int64) error
	// SetDrive sets drive motor output in [-1, 1].
	SetDrive(speed float64) error
	// SetSteering sets the steering position setpoint in native units.
	SetSteering(position float64) error
	// Stop stops both motors.
	Stop() error
}

// State is the outcome of the last Move of an enclosure.
type State struct {
	// Angle and Speed are the solved directive.
	Angle float64
	Speed float64
	// Output is the signed speed applied to the drive motor.
	Output float64
	// Target is the last issued steering target in turns.
	Target    float64
	DriveSign float64
	// Position is the steering position in turns when the move was computed.
	Position float64
}

// Enclosure is a drive/steer motor pair with its steering sensor.
// It is not safe for concurrent use.
type Enclosure struct {
	Name          string
	GearRatio     float64
	ReverseSensor bool
	ReverseSteer  bool
	Calibration   Calibration
	HW            Hardware

	state State
}

// NewEnclosure creates an Enclosure.
func NewEnclosure(name string, gearRatio float64, hw Hardware) (*Enclosure, error) {
	if !(gearRatio > 0) {
		return nil, pkgerrors.Wrapf(ErrInvalidGearRatio, "enclosure %s: %v", name, gearRatio)
	}
	if hw == nil {
		return nil, pkgerrors.Wrapf(ErrNoHardware, "enclosure %s", name)
	}
	return &Enclosure{Name: name, GearRatio: gearRatio, HW: hw, state: State{DriveSign: 1}}, nil
}

// Ticks reads the steering sensor with polarity applied.
func (e *Enclosure) Ticks() (int64, error) {
	ticks, err := e.HW.AbsolutePosition()
	if err != nil {
		return 0, pkgerrors.Wrapf(err, "enclosure %s: read position", e.Name)
	}
	if e.ReverseSensor {
		ticks = -ticks
	}
	return ticks, nil
}

// Position reads the steering position in turns.
func (e *Enclosure) Position() (float64, error) {
	ticks, err := e.Ticks()
	if err != nil {
		return 0, err
	}
	return rotation.EncoderTurns(ticks, e.GearRatio), nil
}

// Move drives the wheel according to the solved directive. The steering
// setpoint is left untouched when the resulting speed is zero.
func (e *Enclosure) Move(d kinematics.WheelDirective) (State, error) {
	ticks, err := e.Ticks()
	if err != nil {
		return e.state, err
	}
	cmd := rotation.Optimize(d.Angle, ticks, e.GearRatio)
	speed, steer := cmd.Apply(d.Speed)
	if err = e.HW.SetDrive(speed); err != nil {
		return e.state, pkgerrors.Wrapf(err, "enclosure %s: set drive", e.Name)
	}
	st := State{
		Angle:     d.Angle,
		Speed:     d.Speed,
		Output:    speed,
		Target:    e.state.Target,
		DriveSign: cmd.DriveSign,
		Position:  rotation.EncoderTurns(ticks, e.GearRatio),
	}
	if steer {
		pos := cmd.Native(e.GearRatio)
		if e.ReverseSteer {
			pos = -pos
		}
		if err = e.HW.SetSteering(pos); err != nil {
			e.state = st
			return st, pkgerrors.Wrapf(err, "enclosure %s: set steering", e.Name)
		}
		st.Target = cmd.Target
	}
	e.state = st
	return st, nil
}

// Stop stops the motors. The last steering target is kept.
func (e *Enclosure) Stop() error {
	e.state.Speed, e.state.Output = 0, 0
	if err := e.HW.Stop(); err != nil {
		return pkgerrors.Wrapf(err, "enclosure %s: stop", e.Name)
	}
	return nil
}

// Zero re-zeroes the steering sensor so it reads ticks.
func (e *Enclosure) Zero(ticks int64) error {
	if e.ReverseSensor {
		ticks = -ticks
	}
	if err := e.HW.SetAbsolutePosition(ticks); err != nil {
		return pkgerrors.Wrapf(err, "enclosure %s: set position", e.Name)
	}
	e.state.Target = 0
	return nil
}

// Calibrate re-zeroes the steering sensor from a raw absolute reading
// using the enclosure Calibration.
func (e *Enclosure) Calibrate(raw int64) error {
	return e.Zero(e.Calibration.Ticks(raw, e.GearRatio))
}

// LastState returns the state recorded by the last Move.
func (e *Enclosure) LastState() State {
	return e.state
}
