package swerve

import (
	"math"
	"time"

	fx "github.com/robotalks/swerve.go/pkg/framework"
	"github.com/robotalks/swerve.go/pkg/sim"
	"github.com/robotalks/swerve.go/pkg/sim/physics"
	"github.com/robotalks/swerve.go/pkg/swerve/kinematics"
)

// Engine moves an object according to its wheels.
//
// The body frame is X forward, Y right. Rotation is clockwise positive,
// so the object orientation (counter-clockwise radians) decreases when
// turning right.
type Engine struct {
	Object   sim.Placeable2D
	Geometry kinematics.Geometry
	Wheels   [kinematics.WheelCount]*Wheel
	// MaxSpeed is the ground speed at full drive output.
	MaxSpeed float64

	lastTime time.Time
}

// New creates the engine.
func New(obj sim.Placeable2D, geometry kinematics.Geometry, wheels [kinematics.WheelCount]*Wheel) *Engine {
	return &Engine{Object: obj, Geometry: geometry, Wheels: wheels}
}

// WheelOffset is the position of a wheel in the body frame.
func (e *Engine) WheelOffset(wheel kinematics.WheelIndex) (x, y float64) {
	x, y = e.Geometry.Length/2, e.Geometry.Width/2
	switch wheel {
	case kinematics.FrontLeft:
		y = -y
	case kinematics.RearLeft:
		x, y = -x, -y
	case kinematics.RearRight:
		x = -x
	}
	return
}

// Velocity computes the body velocity from the wheels: forward and right
// in MaxSpeed units, and clockwise rotation in radians per unit time.
func (e *Engine) Velocity() (forward, right, rotation float64) {
	var vx, vy [kinematics.WheelCount]float64
	for n, w := range e.Wheels {
		sin, cos := math.Sincos(w.Angle() * 2 * math.Pi)
		vx[n], vy[n] = w.Speed()*cos*e.MaxSpeed, w.Speed()*sin*e.MaxSpeed
		forward += vx[n]
		right += vy[n]
	}
	forward /= kinematics.WheelCount
	right /= kinematics.WheelCount
	// least squares fit of v = (-w*y, w*x) on the residual.
	var num, den float64
	for n := range e.Wheels {
		x, y := e.WheelOffset(kinematics.WheelIndex(n))
		num += (vx[n]-forward)*-y + (vy[n]-right)*x
		den += x*x + y*y
	}
	if den > 0 {
		rotation = num / den
	}
	return
}

// Step advances wheels and integrates the pose over dt.
func (e *Engine) Step(dt time.Duration) {
	for _, w := range e.Wheels {
		w.Step(dt)
	}
	forward, right, rotation := e.Velocity()
	if forward == 0 && right == 0 && rotation == 0 {
		return
	}
	secs := dt.Seconds()
	pose := e.Object.Position2D()
	// integrate at the mid orientation.
	mid := pose.Orientation.AddRadians(-rotation * secs / 2)
	pose.Pos2D.OffsetBy(mid.Project(forward * secs))
	pose.Pos2D.OffsetBy(mid.AddDegrees(-90).Project(right * secs))
	pose.Orientation = pose.Orientation.AddRadians(-rotation * secs)
	e.Object.SetPose2D(pose)
}

// Heading is the clockwise heading in degrees, 0 facing +X.
func (e *Engine) Heading() (float64, error) {
	return e.Object.Position2D().Heading(), nil
}

// AddToLoop implements LoopAdder.
func (e *Engine) AddToLoop(l *fx.Loop) {
	l.AddController(fx.PrLvSense, fx.ControlFunc(e.Update))
}

// Update is a controller advancing the simulation to the current time.
func (e *Engine) Update(cc fx.ControlContext) error {
	e.Simulate(cc)
	return nil
}

// Simulate implements physics.Simulator.
func (e *Engine) Simulate(pc physics.Context) {
	e.AdvanceTo(pc.Time())
}

// AdvanceTo steps the simulation from the last update to now.
func (e *Engine) AdvanceTo(now time.Time) {
	if !e.lastTime.IsZero() && now.After(e.lastTime) {
		e.Step(now.Sub(e.lastTime))
	}
	e.lastTime = now
}
