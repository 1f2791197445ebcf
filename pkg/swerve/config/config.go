// Package config loads the vehicle layout of a swerve robot from YAML.
package config

import (
	"errors"
	"io/ioutil"

	pkgerrors "github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/robotalks/swerve.go/pkg/swerve/drive"
	"github.com/robotalks/swerve.go/pkg/swerve/kinematics"
)

// Errors from validation.
var (
	ErrEnclosureCount = errors.New("exactly 4 enclosures required")
	ErrDuplicateWheel = errors.New("duplicated wheel")
	ErrDuplicateName  = errors.New("duplicated enclosure name")
)

// Vehicle is the physical layout of the robot.
type Vehicle struct {
	// Width is the distance between left and right wheel centers.
	Width float64 `yaml:"width"`
	// Length is the distance between front and rear wheel centers.
	Length float64 `yaml:"length"`
	// GearRatio is steering sensor ticks per steering turn.
	GearRatio float64 `yaml:"gear_ratio"`
	// CountsPerTurn is the absolute steering sensor range.
	CountsPerTurn float64 `yaml:"counts_per_turn"`
	// Mode is the initial reference mode: robot or field.
	Mode       string      `yaml:"mode"`
	CAN        CAN         `yaml:"can"`
	Enclosures []Enclosure `yaml:"enclosures"`
}

// CAN is the motor-controller bus.
type CAN struct {
	Interface string `yaml:"interface"`
	// StatusTimeoutMs is how long a position report stays valid.
	StatusTimeoutMs int `yaml:"status_timeout_ms"`
}

// Enclosure describes one wheel module.
type Enclosure struct {
	// Wheel is the position: front-right, front-left, rear-left, rear-right.
	Wheel         string  `yaml:"wheel"`
	Name          string  `yaml:"name"`
	DriveID       uint8   `yaml:"drive_id"`
	SteerID       uint8   `yaml:"steer_id"`
	Zero          int64   `yaml:"zero"`
	ReverseSensor bool    `yaml:"reverse_sensor"`
	ReverseSteer  bool    `yaml:"reverse_steer"`
	GearRatio     float64 `yaml:"gear_ratio,omitempty"`
}

// HardwareFactory creates the hardware for a wheel.
type HardwareFactory func(wheel kinematics.WheelIndex, conf *Enclosure) (drive.Hardware, error)

// Default returns a layout with four enclosures in wheel order and
// sequential CAN ids.
func Default() *Vehicle {
	v := &Vehicle{
		Width:         27.5,
		Length:        19,
		GearRatio:     1988 / 1.2,
		CountsPerTurn: drive.DefaultCountsPerTurn,
		Mode:          kinematics.RobotRelative.String(),
		CAN:           CAN{Interface: "can0", StatusTimeoutMs: 100},
	}
	for n := kinematics.WheelIndex(0); n < kinematics.WheelCount; n++ {
		v.Enclosures = append(v.Enclosures, Enclosure{
			Wheel:   n.String(),
			DriveID: uint8(n)*2 + 1,
			SteerID: uint8(n)*2 + 2,
		})
	}
	return v
}

// Load reads and validates a vehicle file.
func Load(fn string) (*Vehicle, error) {
	data, err := ioutil.ReadFile(fn)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "read vehicle config")
	}
	v, err := Parse(data)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "vehicle config %s", fn)
	}
	return v, nil
}

// Parse decodes and validates YAML content. Unset fields take values
// from Default, except enclosures.
func Parse(data []byte) (*Vehicle, error) {
	v := Default()
	v.Enclosures = nil
	if err := yaml.Unmarshal(data, v); err != nil {
		return nil, pkgerrors.Wrap(err, "parse")
	}
	if err := v.Validate(); err != nil {
		return nil, err
	}
	return v, nil
}

// Validate checks the layout.
func (v *Vehicle) Validate() error {
	if _, err := kinematics.NewGeometry(v.Width, v.Length); err != nil {
		return err
	}
	if !(v.GearRatio > 0) {
		return pkgerrors.Wrapf(drive.ErrInvalidGearRatio, "gear_ratio %v", v.GearRatio)
	}
	if _, err := kinematics.ParseReferenceMode(v.Mode); err != nil {
		return err
	}
	if len(v.Enclosures) != kinematics.WheelCount {
		return pkgerrors.Wrapf(ErrEnclosureCount, "got %d", len(v.Enclosures))
	}
	var seen [kinematics.WheelCount]bool
	names := make(map[string]bool)
	for n := range v.Enclosures {
		conf := &v.Enclosures[n]
		wheel, err := kinematics.ParseWheelIndex(conf.Wheel)
		if err != nil {
			return pkgerrors.Wrapf(err, "enclosure %d", n)
		}
		if seen[wheel] {
			return pkgerrors.Wrapf(ErrDuplicateWheel, "%s", conf.Wheel)
		}
		seen[wheel] = true
		name := conf.DisplayName()
		if names[name] {
			return pkgerrors.Wrapf(ErrDuplicateName, "%s", name)
		}
		names[name] = true
		if conf.GearRatio < 0 {
			return pkgerrors.Wrapf(drive.ErrInvalidGearRatio, "enclosure %s: gear_ratio %v", name, conf.GearRatio)
		}
	}
	return nil
}

// ReferenceMode returns the parsed initial mode.
func (v *Vehicle) ReferenceMode() kinematics.ReferenceMode {
	mode, _ := kinematics.ParseReferenceMode(v.Mode)
	return mode
}

// Enclosure finds the enclosure config of a wheel.
func (v *Vehicle) Enclosure(wheel kinematics.WheelIndex) *Enclosure {
	for n := range v.Enclosures {
		if v.Enclosures[n].Wheel == wheel.String() {
			return &v.Enclosures[n]
		}
	}
	return nil
}

// BuildDrive creates the Drive with hardware from factory.
func (v *Vehicle) BuildDrive(factory HardwareFactory) (*drive.Drive, error) {
	if err := v.Validate(); err != nil {
		return nil, err
	}
	solver, err := kinematics.New(v.Width, v.Length)
	if err != nil {
		return nil, err
	}
	var encs [kinematics.WheelCount]*drive.Enclosure
	for n := range encs {
		wheel := kinematics.WheelIndex(n)
		conf := v.Enclosure(wheel)
		hw, err := factory(wheel, conf)
		if err != nil {
			return nil, pkgerrors.Wrapf(err, "create hardware for %s", conf.DisplayName())
		}
		gearRatio := v.GearRatio
		if conf.GearRatio > 0 {
			gearRatio = conf.GearRatio
		}
		enc, err := drive.NewEnclosure(conf.DisplayName(), gearRatio, hw)
		if err != nil {
			return nil, err
		}
		enc.ReverseSensor = conf.ReverseSensor
		enc.ReverseSteer = conf.ReverseSteer
		enc.Calibration = drive.Calibration{Zero: conf.Zero, CountsPerTurn: v.CountsPerTurn}
		encs[n] = enc
	}
	d := drive.New(solver, encs)
	d.SetMode(v.ReferenceMode())
	return d, nil
}

// DisplayName is Name, or Wheel if Name is empty.
func (e *Enclosure) DisplayName() string {
	if e.Name != "" {
		return e.Name
	}
	return e.Wheel
}
