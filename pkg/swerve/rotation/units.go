package rotation

import "math"

// EncoderTurns converts accumulated sensor ticks into turns.
func EncoderTurns(ticks int64, gearRatio float64) float64 {
	return float64(ticks) / gearRatio
}

// TurnsToNative converts turns into motor-controller position units.
func TurnsToNative(turns, gearRatio float64) float64 {
	return turns * gearRatio
}

// Frac is the floor-mod fraction of x, in [0, 1).
// Negative positions wrap upwards: Frac(-0.25) == 0.75.
func Frac(x float64) float64 {
	f := x - math.Floor(x)
	if f >= 1 {
		return 0
	}
	return f
}

// Normalize maps turns into [-0.5, 0.5).
func Normalize(turns float64) float64 {
	return Frac(turns+0.5) - 0.5
}
