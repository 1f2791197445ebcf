// Package rotation maps solved wheel angles onto a steering mechanism that
// rotates continuously, so the steering motor never unwinds accumulated turns
// and never travels more than a quarter turn in one cycle.
package rotation

import "math"

// QuarterTurn is the maximum steering travel before the drive is reversed.
const QuarterTurn = 0.25

// Command is the optimized steering setpoint of one wheel.
type Command struct {
	// Target is the continuous steering target in turns, on the same number
	// line as the accumulated sensor position.
	Target float64
	// DriveSign is +1, or -1 when the wheel drives backwards.
	DriveSign float64
}

// Reversed indicates the drive direction is inverted.
func (c Command) Reversed() bool {
	return c.DriveSign < 0
}

// Apply applies the drive sign to speed. steer is false when the resulting
// speed is zero and the previous steering setpoint should be held.
func (c Command) Apply(speed float64) (signed float64, steer bool) {
	signed = speed * c.DriveSign
	return signed, signed != 0
}

// Native converts Target into motor-controller position units.
func (c Command) Native(gearRatio float64) float64 {
	return TurnsToNative(c.Target, gearRatio)
}

// Optimize computes the steering command for target (turns, (-0.5, 0.5])
// given the accumulated sensor position in ticks and ticks per turn.
func Optimize(target float64, ticks int64, gearRatio float64) Command {
	return OptimizeTurns(target, EncoderTurns(ticks, gearRatio))
}

// OptimizeTurns is Optimize with the current position already in turns.
func OptimizeTurns(target, current float64) Command {
	temp := Unwrap(target, current)

	wa, ea := Frac(temp), Frac(current)
	long := math.Abs(wa - ea)
	if diff := math.Min(long, 1-long); diff > QuarterTurn {
		// the back side of the wheel is closer.
		if temp > current {
			temp -= 0.5
		} else {
			temp += 0.5
		}
		return Command{Target: temp, DriveSign: -1}
	}
	return Command{Target: temp, DriveSign: 1}
}

// Unwrap returns the representative of target (mod 1) nearest to current.
func Unwrap(target, current float64) float64 {
	if target <= -0.5 || target > 0.5 {
		target -= math.Ceil(target - 0.5)
	}
	temp := target + math.Floor(current)
	frac := Frac(current)
	if d := target - frac; d > 0.5 {
		temp--
	} else if d < -0.5 {
		temp++
	}
	return temp
}
