package kinematics

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidGeometry matches any *InvalidGeometryError via errors.Is.
	ErrInvalidGeometry = errors.New("invalid geometry")
	// ErrMissingHeadingReference indicates field-relative mode was requested
	// without a heading.
	ErrMissingHeadingReference = errors.New("field-relative mode requires a heading reference")
)

// InvalidGeometryError reports non-positive vehicle dimensions.
type InvalidGeometryError struct {
	Width  float64
	Length float64
}

// Error implements error.
func (e *InvalidGeometryError) Error() string {
	return fmt.Sprintf("invalid geometry: width=%v length=%v, both must be > 0", e.Width, e.Length)
}

// Is supports errors.Is(err, ErrInvalidGeometry).
func (e *InvalidGeometryError) Is(target error) bool {
	return target == ErrInvalidGeometry
}
