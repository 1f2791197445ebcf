package kinematics

import "math"

// Solver computes wheel directives for a fixed vehicle geometry.
type Solver struct {
	geometry Geometry
}

// New creates a Solver for a vehicle of width x length.
func New(width, length float64) (*Solver, error) {
	g, err := NewGeometry(width, length)
	if err != nil {
		return nil, err
	}
	return &Solver{geometry: g}, nil
}

// NewWithGeometry creates a Solver from validated geometry.
func NewWithGeometry(g Geometry) *Solver {
	return &Solver{geometry: g}
}

// Geometry returns the vehicle geometry.
func (s *Solver) Geometry() Geometry {
	return s.geometry
}

// Solve converts cmd into four wheel directives indexed by WheelIndex.
// In FieldRelative mode cmd.Heading must be set.
func (s *Solver) Solve(cmd ChassisCommand, mode ReferenceMode) (out [WheelCount]WheelDirective, err error) {
	fwd, str, rcw := cmd.Forward, cmd.Strafe, cmd.Rotation
	switch mode {
	case FieldRelative:
		if cmd.Heading == nil {
			return out, ErrMissingHeadingReference
		}
		fwd, str = rotate(fwd, str, *cmd.Heading*math.Pi/180)
	}

	g := &s.geometry
	kl, kw := rcw*(g.Length/g.Diagonal), rcw*(g.Width/g.Diagonal)
	a, b := str-kl, str+kl
	c, d := fwd-kw, fwd+kw

	out[FrontRight] = directive(b, c)
	out[FrontLeft] = directive(b, d)
	out[RearLeft] = directive(a, d)
	out[RearRight] = directive(a, c)

	maxSpeed := out[0].Speed
	for _, w := range out[1:] {
		if w.Speed > maxSpeed {
			maxSpeed = w.Speed
		}
	}
	if maxSpeed > 1 {
		for n := range out {
			out[n].Speed /= maxSpeed
		}
	}
	return out, nil
}

// rotate rotates (fwd, str) by -h radians.
func rotate(fwd, str, h float64) (float64, float64) {
	sin, cos := math.Sincos(h)
	return fwd*cos + str*sin, -fwd*sin + str*cos
}

// directive builds the wheel vector with strafe component y and forward
// component x.
func directive(y, x float64) WheelDirective {
	return WheelDirective{
		Angle: math.Atan2(y, x) * 180 / math.Pi / 360,
		Speed: math.Sqrt(y*y + x*x),
	}
}
