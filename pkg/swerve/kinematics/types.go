// Package kinematics converts a chassis command into per-wheel steering
// angles and speeds for a four-wheel swerve drive.
//
// Wheel layout, looking down at the robot with the front up:
//
//	         Front
//	  FrontLeft(1) ---- FrontRight(0)
//	      |                  |
//	  RearLeft(2) ----- RearRight(3)
//	         Rear
//
// Speeds are proportions in [-1, 1]. Angles are fractions of a full turn,
// 0 being straight ahead and +0.25 pointing right.
package kinematics

import (
	"fmt"
	"math"
)

// WheelIndex addresses a wheel in the fixed layout.
type WheelIndex int

// Wheel indices.
const (
	FrontRight WheelIndex = iota
	FrontLeft
	RearLeft
	RearRight

	// WheelCount is the number of wheels.
	WheelCount = 4
)

var wheelNames = [WheelCount]string{"front-right", "front-left", "rear-left", "rear-right"}

// String implements fmt.Stringer.
func (i WheelIndex) String() string {
	if i < 0 || int(i) >= WheelCount {
		return fmt.Sprintf("wheel(%d)", int(i))
	}
	return wheelNames[i]
}

// ParseWheelIndex parses a wheel name as produced by String.
func ParseWheelIndex(s string) (WheelIndex, error) {
	for n, name := range wheelNames {
		if s == name {
			return WheelIndex(n), nil
		}
	}
	return -1, fmt.Errorf("unknown wheel %q", s)
}

// ReferenceMode selects the frame forward/strafe are expressed in.
type ReferenceMode int

// Reference modes.
const (
	RobotRelative ReferenceMode = iota
	FieldRelative
)

// String implements fmt.Stringer.
func (m ReferenceMode) String() string {
	switch m {
	case RobotRelative:
		return "robot"
	case FieldRelative:
		return "field"
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// ParseReferenceMode parses "robot" or "field".
func ParseReferenceMode(s string) (ReferenceMode, error) {
	switch s {
	case "robot", "ROBOT", "robot-relative":
		return RobotRelative, nil
	case "field", "FIELD", "field-relative":
		return FieldRelative, nil
	}
	return RobotRelative, fmt.Errorf("unknown reference mode %q", s)
}

// ChassisCommand is the desired motion of the vehicle body for one cycle.
type ChassisCommand struct {
	Forward  float64
	Strafe   float64
	Rotation float64 // clockwise positive
	// Heading in degrees, only consulted in field-relative mode.
	Heading *float64
}

// WithHeading returns a copy of the command carrying heading (degrees).
func (c ChassisCommand) WithHeading(deg float64) ChassisCommand {
	c.Heading = &deg
	return c
}

// IsZero indicates no motion is requested.
func (c ChassisCommand) IsZero() bool {
	return c.Forward == 0 && c.Strafe == 0 && c.Rotation == 0
}

// WheelDirective is the solved angle (turns) and speed of a single wheel.
type WheelDirective struct {
	Angle float64
	Speed float64
}

// Geometry is the rectangle formed by the four wheel contact points.
// Units are arbitrary but must be consistent.
type Geometry struct {
	Width    float64
	Length   float64
	Diagonal float64
}

// NewGeometry validates dimensions and derives the diagonal.
func NewGeometry(width, length float64) (Geometry, error) {
	if !(width > 0) || !(length > 0) {
		return Geometry{}, &InvalidGeometryError{Width: width, Length: length}
	}
	return Geometry{
		Width:    width,
		Length:   length,
		Diagonal: math.Sqrt(width*width + length*length),
	}, nil
}
