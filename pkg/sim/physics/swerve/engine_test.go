package swerve

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/swerve.go/pkg/sim"
	"github.com/robotalks/swerve.go/pkg/sim/physics"
	"github.com/robotalks/swerve.go/pkg/swerve/kinematics"
)

const gearRatio = 1000

type object struct {
	pose sim.Pose2D
}

func (o *object) Position2D() sim.Pose2D { return o.pose }

func (o *object) SetPose2D(pose sim.Pose2D) sim.Pose2D {
	o.pose = pose
	return o.pose
}

func newTestEngine(t *testing.T, steerRate float64) (*Engine, *object) {
	g, err := kinematics.NewGeometry(20, 10)
	require.NoError(t, err)
	var wheels [kinematics.WheelCount]*Wheel
	for n := range wheels {
		wheels[n] = NewWheel(gearRatio, steerRate)
	}
	obj := &object{}
	e := New(obj, g, wheels)
	e.MaxSpeed = 100
	return e, obj
}

func apply(t *testing.T, e *Engine, cmd kinematics.ChassisCommand) {
	solver := kinematics.NewWithGeometry(e.Geometry)
	directives, err := solver.Solve(cmd, kinematics.RobotRelative)
	require.NoError(t, err)
	for n, w := range e.Wheels {
		require.NoError(t, w.SetSteering(directives[n].Angle*gearRatio))
		require.NoError(t, w.SetDrive(directives[n].Speed))
		w.Step(0)
	}
}

func TestWheelSteering(t *testing.T) {
	w := NewWheel(gearRatio, 1)
	require.NoError(t, w.SetSteering(500))
	w.Step(100 * time.Millisecond)
	ticks, err := w.AbsolutePosition()
	require.NoError(t, err)
	require.EqualValues(t, 100, ticks)
	require.InDelta(t, 0.1, w.Angle(), 1e-9)
	w.Step(time.Second)
	ticks, _ = w.AbsolutePosition()
	require.EqualValues(t, 500, ticks)

	require.NoError(t, w.SetAbsolutePosition(0))
	ticks, _ = w.AbsolutePosition()
	require.Zero(t, ticks)
	require.InDelta(t, 0.5, w.Angle(), 1e-9)
	w.Step(time.Second)
	require.InDelta(t, 0.5, w.Angle(), 1e-9)

	w.Twist(0.25)
	require.InDelta(t, 0.75, w.Angle(), 1e-9)
	ticks, _ = w.AbsolutePosition()
	require.Zero(t, ticks)

	require.NoError(t, w.SetDrive(3))
	require.Equal(t, 1.0, w.Speed())
	require.NoError(t, w.Stop())
	require.Zero(t, w.Speed())
}

func TestEngineTranslation(t *testing.T) {
	cases := []struct {
		name string
		cmd  kinematics.ChassisCommand
		x, y float64
	}{
		{"forward", kinematics.ChassisCommand{Forward: 1}, 100, 0},
		{"backward", kinematics.ChassisCommand{Forward: -1}, -100, 0},
		{"right", kinematics.ChassisCommand{Strafe: 1}, 0, -100},
		{"left", kinematics.ChassisCommand{Strafe: -0.5}, 0, 50},
		{"diagonal", kinematics.ChassisCommand{Forward: 1, Strafe: 1}, 100 / math.Sqrt2, -100 / math.Sqrt2},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			e, obj := newTestEngine(t, 0)
			apply(t, e, c.cmd)
			for i := 0; i < 10; i++ {
				e.Step(100 * time.Millisecond)
			}
			require.InDelta(t, c.x, obj.pose.X, 1e-6)
			require.InDelta(t, c.y, obj.pose.Y, 1e-6)
			require.InDelta(t, 0, obj.pose.Orientation.Radians(), 1e-9)
		})
	}
}

func TestEngineRotation(t *testing.T) {
	e, obj := newTestEngine(t, 0)
	apply(t, e, kinematics.ChassisCommand{Rotation: 1})
	_, _, rotation := e.Velocity()
	require.InDelta(t, 2*e.MaxSpeed/e.Geometry.Diagonal, rotation, 1e-9)

	e.Step(100 * time.Millisecond)
	require.InDelta(t, -rotation*0.1, obj.pose.Orientation.Radians(), 1e-9)
	require.InDelta(t, 0, obj.pose.X, 1e-9)
	require.InDelta(t, 0, obj.pose.Y, 1e-9)
	heading, err := e.Heading()
	require.NoError(t, err)
	require.True(t, heading > 0)
}

func TestEngineUpdate(t *testing.T) {
	e, obj := newTestEngine(t, 0)
	apply(t, e, kinematics.ChassisCommand{Forward: 1})
	now := time.Unix(1000, 0)
	var simulator physics.Simulator = e
	simulator.Simulate(physics.At(context.Background(), now))
	require.Zero(t, obj.pose.X)
	simulator.Simulate(physics.At(context.Background(), now.Add(500*time.Millisecond)))
	require.InDelta(t, 50, obj.pose.X, 1e-6)
	e.AdvanceTo(now)
	require.InDelta(t, 50, obj.pose.X, 1e-6)
}
