package drive

// Calibration maps an absolute steering sensor (e.g. an analog encoder
// that wraps once per steering turn) onto the relative steering sensor.
type Calibration struct {
	// Zero is the absolute reading when the wheel faces forward.
	Zero int64
	// CountsPerTurn is the absolute sensor range for one steering turn.
	CountsPerTurn float64
}

// DefaultCountsPerTurn is the range of a 12-bit analog absolute encoder.
const DefaultCountsPerTurn = 4000

// Ticks converts a raw absolute reading into relative sensor ticks,
// truncating towards zero.
func (c Calibration) Ticks(raw int64, gearRatio float64) int64 {
	counts := c.CountsPerTurn
	if counts <= 0 {
		counts = DefaultCountsPerTurn
	}
	return int64(float64(raw-c.Zero) / counts * gearRatio)
}
