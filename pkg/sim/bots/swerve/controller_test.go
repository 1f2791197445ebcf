package swerve

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/swerve.go/pkg/l1"
	env "github.com/robotalks/swerve.go/pkg/l1/env/controller"
	"github.com/robotalks/swerve.go/pkg/sim"
	"github.com/robotalks/swerve.go/pkg/sim/visualization/see"
	"github.com/robotalks/swerve.go/pkg/swerve/config"
	"github.com/robotalks/swerve.go/pkg/swerve/kinematics"
)

func newTestBot(t *testing.T, conf *Config) *Controller {
	e := &env.Env{Config: &env.Config{Info: l1.ControllerInfo{Ref: l1.ControllerRef{Type: "sim-swerve", ID: "test"}}}}
	c, err := NewController(e, config.Default(), conf)
	require.NoError(t, err)
	return c
}

func run(t *testing.T, c *Controller, cmd kinematics.ChassisCommand, d time.Duration) {
	heading, err := c.Engine.Heading()
	require.NoError(t, err)
	require.NoError(t, c.Swerve.Drive.Move(cmd.WithHeading(heading)))
	for elapsed := time.Duration(0); elapsed < d; elapsed += 10 * time.Millisecond {
		c.Engine.Step(10 * time.Millisecond)
	}
}

func TestBotDrivesForward(t *testing.T) {
	c := newTestBot(t, &Config{UnitMM: 10, DriveSpeedMax: 100})
	require.Equal(t, sim.Rect{Pos2D: sim.Pos2D{X: -95, Y: -137.5}, Size2D: sim.Size2D{CX: 190, CY: 275}}, c.OutlineRect())
	run(t, c, kinematics.ChassisCommand{Forward: 1}, time.Second)
	require.InDelta(t, 100, c.Pose.X, 1e-6)
	require.InDelta(t, 0, c.Pose.Y, 1e-6)
	require.Equal(t, "sim-swerve/test", c.Name())
}

func TestBotFieldRelative(t *testing.T) {
	c := newTestBot(t, &Config{UnitMM: 10, DriveSpeedMax: 100})
	c.Swerve.Drive.SetMode(kinematics.FieldRelative)
	// facing right.
	c.SetPose2D(sim.Pose2D{Orientation: sim.AngleFromDegrees(-90)})
	run(t, c, kinematics.ChassisCommand{Forward: 1}, time.Second)
	require.InDelta(t, 100, c.Pose.X, 1e-6)
	require.InDelta(t, 0, c.Pose.Y, 1e-6)
	require.InDelta(t, -90, c.Pose.Orientation.Degrees(), 1e-6)
}

func TestBotTwistedWheels(t *testing.T) {
	c := newTestBot(t, &Config{UnitMM: 10, DriveSpeedMax: 100, Twist: 0.5})
	run(t, c, kinematics.ChassisCommand{Forward: 1}, time.Second)
	// the sensors read zero while wheels face backwards, so the drive
	// runs forward and the robot goes backwards.
	require.InDelta(t, -100, c.Pose.X, 1e-6)

	// re-zero the sensors to their physical position.
	require.NoError(t, c.Swerve.Drive.ZeroAll(int64(0.5*c.Swerve.Drive.Enclosures[0].GearRatio)))
	run(t, c, kinematics.ChassisCommand{Forward: 1}, time.Second)
	require.InDelta(t, 0, c.Pose.X, 1)
	for _, st := range c.Swerve.Drive.States() {
		require.Equal(t, -1.0, st.DriveSign)
	}
	for _, obj := range MapObject(nil).MapObject(c)[1:] {
		require.Equal(t, []string{"reversed"}, obj[see.PropStyles])
	}
}

func TestBotSeeMapping(t *testing.T) {
	c := newTestBot(t, &Config{UnitMM: 10, DriveSpeedMax: 100})
	objs := MapObject(nil).MapObject(c)
	require.Len(t, objs, 1+kinematics.WheelCount)
	require.Equal(t, "chassis", objs[0][see.PropType])
	require.Equal(t, "sim-swerve.test", objs[0][see.PropID])
	require.Equal(t, "sim-swerve.test.wheel.0", objs[1][see.PropID])
	require.Equal(t, "front-right", objs[1]["name"])
	origin := objs[1][see.PropOrigin].(*see.Pos)
	require.InDelta(t, 95, origin.X, 1e-9)
	require.InDelta(t, -137.5, origin.Y, 1e-9)

	fallback := see.MapObjectFunc(func(see.VisibleObject) []see.Object {
		return []see.Object{see.NewObject("other", "x")}
	})
	require.Len(t, MapObject(fallback).MapObject(&otherObject{}), 1)
	require.Empty(t, MapObject(nil).MapObject(&otherObject{}))
}

type otherObject struct{}

func (o *otherObject) Name() string           { return "other" }
func (o *otherObject) OutlineRect() sim.Rect  { return sim.Rect{} }
func (o *otherObject) Position2D() sim.Pose2D { return sim.Pose2D{} }
