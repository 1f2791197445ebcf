package drive

import (
	pkgerrors "github.com/pkg/errors"

	fx "github.com/robotalks/swerve.go/pkg/framework"
	"github.com/robotalks/swerve.go/pkg/swerve/kinematics"
)

// Drive is the swerve drive: a solver and four enclosures indexed by
// kinematics.WheelIndex.
type Drive struct {
	Solver     *kinematics.Solver
	Enclosures [kinematics.WheelCount]*Enclosure
	// Mode is owned by the caller and read on every Move.
	Mode kinematics.ReferenceMode
}

// New creates a Drive.
func New(solver *kinematics.Solver, enclosures [kinematics.WheelCount]*Enclosure) *Drive {
	return &Drive{Solver: solver, Enclosures: enclosures}
}

// SetMode changes the reference mode for subsequent moves.
func (d *Drive) SetMode(mode kinematics.ReferenceMode) {
	d.Mode = mode
}

// Move solves cmd and moves every enclosure. Nothing is actuated when the
// command can't be solved.
func (d *Drive) Move(cmd kinematics.ChassisCommand) error {
	directives, err := d.Solver.Solve(cmd, d.Mode)
	if err != nil {
		return err
	}
	var errs fx.AggregatedError
	for n, enc := range d.Enclosures {
		_, err := enc.Move(directives[n])
		errs.Add(err)
	}
	return errs.Aggregate()
}

// Stop stops all enclosures.
func (d *Drive) Stop() error {
	var errs fx.AggregatedError
	for _, enc := range d.Enclosures {
		errs.Add(enc.Stop())
	}
	return errs.Aggregate()
}

// ZeroAll re-zeroes all steering sensors to ticks.
func (d *Drive) ZeroAll(ticks int64) error {
	var errs fx.AggregatedError
	for _, enc := range d.Enclosures {
		errs.Add(enc.Zero(ticks))
	}
	return errs.Aggregate()
}

// AbsoluteSensor is implemented by Hardware which also reports the raw
// absolute steering reading used by Calibrate.
type AbsoluteSensor interface {
	RawAbsolute() (int64, error)
}

// CalibrateAll re-zeroes every enclosure whose hardware is an
// AbsoluteSensor from its raw reading. It returns ErrNoHardware wrapped
// for enclosures without one.
func (d *Drive) CalibrateAll() error {
	var errs fx.AggregatedError
	for _, enc := range d.Enclosures {
		sensor, ok := enc.HW.(AbsoluteSensor)
		if !ok {
			errs.Add(pkgerrors.Wrapf(ErrNoHardware, "%s: no absolute sensor", enc.Name))
			continue
		}
		raw, err := sensor.RawAbsolute()
		if err != nil {
			errs.Add(pkgerrors.Wrapf(err, "%s: read absolute sensor", enc.Name))
			continue
		}
		errs.Add(enc.Calibrate(raw))
	}
	return errs.Aggregate()
}

// States returns the last state of each enclosure.
func (d *Drive) States() (states [kinematics.WheelCount]State) {
	for n, enc := range d.Enclosures {
		states[n] = enc.LastState()
	}
	return
}
