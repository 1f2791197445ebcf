// Package controller exposes a swerve drive as an L1 controller.
package controller

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang/glog"
	"github.com/golang/protobuf/proto"

	fx "github.com/robotalks/swerve.go/pkg/framework"
	"github.com/robotalks/swerve.go/pkg/l1"
	"github.com/robotalks/swerve.go/pkg/l1/msgs"
	"github.com/robotalks/swerve.go/pkg/swerve/drive"
	"github.com/robotalks/swerve.go/pkg/swerve/kinematics"
)

// Errors rejecting commands.
var (
	// ErrInvalidWheel indicates the wheel index in SwerveZero is out of range.
	ErrInvalidWheel = errors.New("invalid wheel")
	// ErrCalibrating indicates steering sensors are not calibrated yet.
	ErrCalibrating = errors.New("calibrating")
)

// HeadingSource provides the current heading of the robot in degrees,
// clockwise positive. A gyro, or the pose in simulation.
type HeadingSource interface {
	Heading() (float64, error)
}

// HeadingFunc is the func form of HeadingSource.
type HeadingFunc func() (float64, error)

// Heading implements HeadingSource.
func (f HeadingFunc) Heading() (float64, error) {
	return f()
}

// Controller drives the wheels with the latest chassis command.
type Controller struct {
	Drive *drive.Drive
	// Heading is used in field mode for commands without a heading.
	Heading HeadingSource
	// CommandTimeout stops the drive if no SwerveDrive is received in time.
	// 0 disables the watchdog.
	CommandTimeout time.Duration
	// Registrar receives SwerveStatus events when set.
	Registrar l1.Registrar

	cmd        *kinematics.ChassisCommand
	cmdTime    time.Time
	lastStatus *msgs.SwerveStatus

	calibrating      bool
	calibrateTimeout time.Duration
	calibrateUntil   time.Time
}

// New creates a Controller.
func New(d *drive.Drive) *Controller {
	return &Controller{Drive: d}
}

// AddToLoop implements LoopAdder.
func (c *Controller) AddToLoop(l *fx.Loop) {
	l.AddController(fx.PrLvControl, fx.ControlFunc(c.HandleCommand))
	l.AddController(fx.PrLvAcuate, fx.ControlFunc(c.Execute))
	l.AddController(fx.PrLvPostProc, fx.ControlFunc(c.NotifyStatus))
	l.AddShutdown(c)
}

// Shutdown implements Shutdowner and stops all wheels.
func (c *Controller) Shutdown(context.Context) error {
	glog.Info("stopping drive")
	return c.Stop()
}

// HandleCommand is a controller processing commands.
func (c *Controller) HandleCommand(cc fx.ControlContext) error {
	cc.Messages().ProcessMessages(fx.ProcessMessageFunc(func(mctx fx.MessageProcessingContext) {
		cmdMsg, ok := mctx.CurrentMessage().(*l1.CommandMsg)
		if !ok {
			return
		}
		var err error
		switch m := cmdMsg.Command.Msg().(type) {
		case *msgs.SwerveDrive:
			err = c.SetCommand(cc.Time(), m.ChassisCommand())
		case *msgs.SwerveMode:
			err = c.SetMode(m.Mode)
		case *msgs.SwerveStop:
			err = c.Stop()
		case *msgs.SwerveZero:
			err = c.Zero(int(m.Wheel), m.Ticks)
		case *msgs.SwerveStatusQuery:
			mctx.MessageTaken()
			cmdMsg.Command.Done(&msgs.SwerveStatusReply{Status: c.Status()})
			return
		default:
			return
		}
		mctx.MessageTaken()
		if err != nil {
			glog.Warningf("swerve: %T rejected: %v", cmdMsg.Command.Msg(), err)
			cmdMsg.Command.Done(msgs.NewCommandErr(err))
			return
		}
		cmdMsg.Command.Done(msgs.NewCommandOK())
	}))
	return nil
}

// SetCommand holds cmd to be executed from now on. In field mode a
// command without heading is refused when there's no HeadingSource, and
// the drive is stopped.
func (c *Controller) SetCommand(now time.Time, cmd kinematics.ChassisCommand) error {
	if c.calibrating {
		return ErrCalibrating
	}
	if c.Drive.Mode == kinematics.FieldRelative && cmd.Heading == nil && c.Heading == nil {
		c.Stop()
		return kinematics.ErrMissingHeadingReference
	}
	c.cmd, c.cmdTime = &cmd, now
	return nil
}

// SetMode switches the reference mode.
func (c *Controller) SetMode(mode string) error {
	m, err := kinematics.ParseReferenceMode(mode)
	if err != nil {
		return err
	}
	c.Drive.SetMode(m)
	return nil
}

// Stop clears the held command and stops all wheels.
func (c *Controller) Stop() error {
	c.cmd = nil
	return c.Drive.Stop()
}

// Zero re-zeroes one wheel, or all with msgs.SwerveZeroAllWheels.
func (c *Controller) Zero(wheel int, ticks int64) error {
	if wheel == msgs.SwerveZeroAllWheels {
		return c.Drive.ZeroAll(ticks)
	}
	if wheel < 0 || wheel >= kinematics.WheelCount {
		return fmt.Errorf("%w: %d", ErrInvalidWheel, wheel)
	}
	return c.Drive.Enclosures[wheel].Zero(ticks)
}

// Moving indicates a command is being executed.
func (c *Controller) Moving() bool {
	return c.cmd != nil
}

// CalibrateOnStart makes Execute calibrate all wheels from their absolute
// sensors before any command is accepted. Sensors may report after
// start, so calibration is retried until timeout. After that the
// current sensor positions are used as is.
func (c *Controller) CalibrateOnStart(timeout time.Duration) {
	c.calibrating, c.calibrateTimeout = true, timeout
	c.calibrateUntil = time.Time{}
}

// Calibrating indicates calibration is in progress.
func (c *Controller) Calibrating() bool {
	return c.calibrating
}

func (c *Controller) calibrate(now time.Time) {
	if c.calibrateUntil.IsZero() {
		c.calibrateUntil = now.Add(c.calibrateTimeout)
	}
	err := c.Drive.CalibrateAll()
	switch {
	case err == nil:
		glog.Info("swerve: calibrated")
	case now.Before(c.calibrateUntil):
		glog.V(2).Infof("swerve: calibration pending: %v", err)
		return
	default:
		glog.Errorf("swerve: calibration failed: %v", err)
	}
	c.calibrating = false
}

// Execute is a controller for actuation.
func (c *Controller) Execute(cc fx.ControlContext) error {
	if c.calibrating {
		c.calibrate(cc.Time())
		return nil
	}
	if c.cmd == nil {
		return nil
	}
	if c.CommandTimeout > 0 && cc.Time().Sub(c.cmdTime) > c.CommandTimeout {
		glog.Warningf("swerve: command expired after %v", c.CommandTimeout)
		return c.Stop()
	}
	cmd := *c.cmd
	if c.Drive.Mode == kinematics.FieldRelative && cmd.Heading == nil && c.Heading != nil {
		heading, err := c.Heading.Heading()
		if err != nil {
			var errs fx.AggregatedError
			return errs.Add(err, c.Stop()).Aggregate()
		}
		cmd = cmd.WithHeading(heading)
	}
	err := c.Drive.Move(cmd)
	if errors.Is(err, kinematics.ErrMissingHeadingReference) {
		// mode switched to field while holding a command without heading.
		c.Stop()
	}
	return err
}

// Status reports the current state.
func (c *Controller) Status() *msgs.SwerveStatus {
	st := &msgs.SwerveStatus{Mode: c.Drive.Mode.String(), Moving: c.Moving()}
	for n, state := range c.Drive.States() {
		st.Wheels = append(st.Wheels, &msgs.SwerveWheel{
			Name:      c.Drive.Enclosures[n].Name,
			Angle:     state.Angle,
			Speed:     state.Output,
			Target:    state.Target,
			DriveSign: state.DriveSign,
			Position:  state.Position,
		})
	}
	return st
}

// NotifyStatus sends a SwerveStatus event when the state changes.
func (c *Controller) NotifyStatus(cc fx.ControlContext) error {
	st := c.Status()
	if c.lastStatus != nil && proto.Equal(st, c.lastStatus) {
		return nil
	}
	c.lastStatus = st
	if c.Registrar == nil {
		return nil
	}
	return c.Registrar.SendEvent(cc.Context(), st)
}
