package swerve

import (
	fx "github.com/robotalks/swerve.go/pkg/framework"
	env "github.com/robotalks/swerve.go/pkg/l1/env/controller"
	"github.com/robotalks/swerve.go/pkg/sim"
	swervesim "github.com/robotalks/swerve.go/pkg/sim/physics/swerve"
	"github.com/robotalks/swerve.go/pkg/swerve/config"
	"github.com/robotalks/swerve.go/pkg/swerve/controller"
	"github.com/robotalks/swerve.go/pkg/swerve/drive"
	"github.com/robotalks/swerve.go/pkg/swerve/kinematics"
)

// Controller is the L1 controller of a simulated swerve robot.
type Controller struct {
	Env *env.Env

	Outline sim.Rect
	Pose    sim.Pose2D
	Engine  *swervesim.Engine
	Swerve  *controller.Controller

	sim.ObjectsChangeCaster

	changes int
}

// NewController creates the controller.
func NewController(e *env.Env, vehicle *config.Vehicle, conf *Config) (*Controller, error) {
	geometry, err := kinematics.NewGeometry(vehicle.Width*conf.UnitMM, vehicle.Length*conf.UnitMM)
	if err != nil {
		return nil, err
	}
	c := &Controller{Env: e, changes: 1}
	c.Outline.CX, c.Outline.CY = geometry.Length, geometry.Width
	c.Outline.X, c.Outline.Y = -c.Outline.CX/2, -c.Outline.CY/2

	var wheels [kinematics.WheelCount]*swervesim.Wheel
	d, err := vehicle.BuildDrive(func(wheel kinematics.WheelIndex, enc *config.Enclosure) (drive.Hardware, error) {
		gearRatio := vehicle.GearRatio
		if enc.GearRatio > 0 {
			gearRatio = enc.GearRatio
		}
		w := swervesim.NewWheel(gearRatio, conf.SteerRate)
		w.Twist(conf.Twist)
		wheels[wheel] = w
		return w, nil
	})
	if err != nil {
		return nil, err
	}
	c.Engine = swervesim.New(c, geometry, wheels)
	c.Engine.MaxSpeed = conf.DriveSpeedMax
	c.Swerve = controller.New(d)
	c.Swerve.Heading = c.Engine
	if e != nil {
		c.Swerve.Registrar = e.Registrar
	}
	return c, nil
}

// Name implements Named.
func (c *Controller) Name() string {
	return c.Env.Config.Info.Ref.Name()
}

// AddToLoop implements LoopAdder.
func (c *Controller) AddToLoop(l *fx.Loop) {
	l.Add(c.Engine, c.Swerve)
	l.AddController(fx.PrLvPostProc, fx.ControlFunc(c.NotifyChanges))
}

// OutlineRect implements Rectangular.
func (c *Controller) OutlineRect() sim.Rect {
	return c.Outline
}

// Position2D implements Placeable2D.
func (c *Controller) Position2D() sim.Pose2D {
	return c.Pose
}

// SetPose2D implements Placeable2D.
func (c *Controller) SetPose2D(pose sim.Pose2D) sim.Pose2D {
	c.Pose = pose
	c.changes = 1
	return c.Pose
}

// WheelPose is the placement of a wheel in the world.
type WheelPose struct {
	Wheel kinematics.WheelIndex
	sim.Pose2D
	Speed float64
}

// WheelPoses computes the wheel placements.
func (c *Controller) WheelPoses() []WheelPose {
	poses := make([]WheelPose, 0, kinematics.WheelCount)
	right := c.Pose.Orientation.AddDegrees(-90)
	for n, w := range c.Engine.Wheels {
		x, y := c.Engine.WheelOffset(kinematics.WheelIndex(n))
		p := WheelPose{Wheel: kinematics.WheelIndex(n), Speed: w.Speed()}
		p.Pos2D = c.Pose.Pos2D
		p.Pos2D.OffsetBy(c.Pose.Orientation.Project(x)).OffsetBy(right.Project(y))
		p.Orientation = c.Pose.Orientation.Add(sim.AngleFromTurns(-w.Angle()))
		poses = append(poses, p)
	}
	return poses
}

// NotifyChanges notifies object changes. Wheels changing direction in
// place count as changes too.
func (c *Controller) NotifyChanges(cc fx.ControlContext) error {
	changes := c.changes
	c.changes = 0
	if changes > 0 || c.Swerve.Moving() {
		c.ObjectsChanged(cc, c)
	}
	return nil
}
