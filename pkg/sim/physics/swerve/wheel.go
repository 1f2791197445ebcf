// Package swerve simulates the wheels and chassis motion of a swerve drive.
package swerve

import (
	"math"
	"time"
)

// Wheel is a simulated enclosure. It implements drive.Hardware.
type Wheel struct {
	GearRatio float64
	// SteerRate limits steering speed in turns per second, 0 is unlimited.
	SteerRate float64

	speed    float64
	ticks    float64
	setpoint float64
	// sensor reading when the wheel physically faces forward.
	offset float64
}

// NewWheel creates a Wheel facing forward.
func NewWheel(gearRatio, steerRate float64) *Wheel {
	return &Wheel{GearRatio: gearRatio, SteerRate: steerRate}
}

// AbsolutePosition implements drive.Hardware.
func (w *Wheel) AbsolutePosition() (int64, error) {
	return int64(math.Round(w.ticks)), nil
}

// SetAbsolutePosition implements drive.Hardware. The wheel doesn't move.
func (w *Wheel) SetAbsolutePosition(ticks int64) error {
	delta := float64(ticks) - w.ticks
	w.ticks += delta
	w.setpoint += delta
	w.offset += delta
	return nil
}

// SetDrive implements drive.Hardware.
func (w *Wheel) SetDrive(speed float64) error {
	w.speed = math.Max(-1, math.Min(1, speed))
	return nil
}

// SetSteering implements drive.Hardware.
func (w *Wheel) SetSteering(position float64) error {
	w.setpoint = position
	return nil
}

// Stop implements drive.Hardware.
func (w *Wheel) Stop() error {
	w.speed = 0
	return nil
}

// Speed is the current drive output.
func (w *Wheel) Speed() float64 {
	return w.speed
}

// Angle is the physical steering angle in turns, not normalized.
func (w *Wheel) Angle() float64 {
	return (w.ticks - w.offset) / w.GearRatio
}

// Twist turns the wheel physically without the sensor noticing, as if
// it was moved while powered off.
func (w *Wheel) Twist(turns float64) {
	w.offset -= turns * w.GearRatio
}

// Step advances steering towards the setpoint.
func (w *Wheel) Step(dt time.Duration) {
	diff := w.setpoint - w.ticks
	if w.SteerRate <= 0 {
		w.ticks = w.setpoint
		return
	}
	maxStep := w.SteerRate * w.GearRatio * dt.Seconds()
	if math.Abs(diff) <= maxStep {
		w.ticks = w.setpoint
	} else {
		w.ticks += math.Copysign(maxStep, diff)
	}
}
