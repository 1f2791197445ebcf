package kinematics

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

const tolerance = 0.001

func TestNewGeometry(t *testing.T) {
	g, err := NewGeometry(3, 4)
	require.NoError(t, err)
	require.Equal(t, 5.0, g.Diagonal)

	testCases := []struct {
		name          string
		width, length float64
	}{
		{"zero width", 0, 1},
		{"zero length", 1, 0},
		{"negative width", -1, 1},
		{"negative length", 1, -2},
		{"NaN", math.NaN(), 1},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewGeometry(tc.width, tc.length)
			require.Error(t, err)
			require.True(t, errors.Is(err, ErrInvalidGeometry))
			var geomErr *InvalidGeometryError
			require.True(t, errors.As(err, &geomErr))
			require.Equal(t, tc.length, geomErr.Length)
			s, err := New(tc.width, tc.length)
			require.Error(t, err)
			require.Nil(t, s)
		})
	}
}

func requireDirectives(t *testing.T, expect [WheelCount][2]float64, actual [WheelCount]WheelDirective) {
	for n, e := range expect {
		require.InDeltaf(t, e[0], actual[n].Angle, tolerance, "%s angle", WheelIndex(n))
		require.InDeltaf(t, e[1], actual[n].Speed, tolerance, "%s speed", WheelIndex(n))
	}
}

func all(angle, speed float64) [WheelCount][2]float64 {
	return [WheelCount][2]float64{{angle, speed}, {angle, speed}, {angle, speed}, {angle, speed}}
}

func TestSolveRobotRelative(t *testing.T) {
	testCases := []struct {
		name          string
		fwd, str, rcw float64
		expect        [WheelCount][2]float64
	}{
		{"stay", 0, 0, 0, all(0, 0)},
		{"forward", 1, 0, 0, all(0, 1)},
		{"backward", -1, 0, 0, all(0.5, 1)},
		{"strafe right", 0, 1, 0, all(0.25, 1)},
		{"strafe left", 0, -1, 0, all(-0.25, 1)},
		{"diagonal NE", 1, 1, 0, all(0.125, 1)},
		{"diagonal NW", 1, -1, 0, all(-0.125, 1)},
		{"half forward", 0.5, 0, 0, all(0, 0.5)},
		{
			"turn clockwise", 0, 0, 1,
			[WheelCount][2]float64{{0.375, 1}, {0.125, 1}, {-0.125, 1}, {-0.375, 1}},
		},
		{
			"turn counter clockwise", 0, 0, -1,
			[WheelCount][2]float64{{-0.125, 1}, {-0.375, 1}, {0.375, 1}, {0.125, 1}},
		},
		{
			"arc forward right", 1, 0, 1,
			[WheelCount][2]float64{{0.1875, 0.414}, {0.0625, 1}, {-0.0625, 1}, {-0.1875, 0.414}},
		},
		{
			"arc backward left", -1, 0, 1,
			[WheelCount][2]float64{{0.4375, 1}, {0.3125, 0.414}, {-0.3125, 0.414}, {-0.4375, 1}},
		},
	}

	s, err := New(1, 1)
	require.NoError(t, err)
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := s.Solve(ChassisCommand{Forward: tc.fwd, Strafe: tc.str, Rotation: tc.rcw}, RobotRelative)
			require.NoError(t, err)
			requireDirectives(t, tc.expect, out)
			// heading is ignored in robot-relative mode.
			withHeading, err := s.Solve(ChassisCommand{Forward: tc.fwd, Strafe: tc.str, Rotation: tc.rcw}.WithHeading(90), RobotRelative)
			require.NoError(t, err)
			require.Equal(t, out, withHeading)
		})
	}
}

func TestSolveFieldRelative(t *testing.T) {
	s, err := New(1, 1)
	require.NoError(t, err)

	testCases := []struct {
		name    string
		cmd     ChassisCommand
		heading float64
		expect  [WheelCount][2]float64
	}{
		{"heading zero", ChassisCommand{Forward: 1}, 0, all(0, 1)},
		// facing right, field-forward is robot-left.
		{"facing right", ChassisCommand{Forward: 1}, 90, all(-0.25, 1)},
		{"facing left", ChassisCommand{Forward: 1}, -90, all(0.25, 1)},
		{"facing right strafe", ChassisCommand{Strafe: 1}, 90, all(0, 1)},
		{"facing 45", ChassisCommand{Forward: 1}, 45, all(-0.125, 1)},
		{
			"rotation unaffected", ChassisCommand{Rotation: 1}, 123,
			[WheelCount][2]float64{{0.375, 1}, {0.125, 1}, {-0.125, 1}, {-0.375, 1}},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := s.Solve(tc.cmd.WithHeading(tc.heading), FieldRelative)
			require.NoError(t, err)
			requireDirectives(t, tc.expect, out)
		})
	}
}

func TestSolveMissingHeading(t *testing.T) {
	s, err := New(27.5, 19)
	require.NoError(t, err)
	for _, v := range []float64{-1, -0.3, 0, 0.7, 1} {
		cmd := ChassisCommand{Forward: v, Strafe: -v, Rotation: v / 2}
		_, err := s.Solve(cmd, FieldRelative)
		require.Equal(t, ErrMissingHeadingReference, err)
	}
}

func TestSolveNormalization(t *testing.T) {
	s, err := New(27.5, 19)
	require.NoError(t, err)
	steps := []float64{-1, -0.6, -0.2, 0, 0.3, 0.8, 1}
	for _, fwd := range steps {
		for _, str := range steps {
			for _, rcw := range steps {
				out, err := s.Solve(ChassisCommand{Forward: fwd, Strafe: str, Rotation: rcw}, RobotRelative)
				require.NoError(t, err)
				for n, w := range out {
					require.Truef(t, math.Abs(w.Speed) <= 1+1e-9, "speed[%d]=%v fwd=%v str=%v rcw=%v", n, w.Speed, fwd, str, rcw)
					require.Truef(t, w.Angle > -0.5-1e-9 && w.Angle <= 0.5+1e-9, "angle[%d]=%v", n, w.Angle)
				}
			}
		}
	}
}

func TestSolveRectangle(t *testing.T) {
	s, err := New(2, 1)
	require.NoError(t, err)
	require.InDelta(t, math.Sqrt(5), s.Geometry().Diagonal, 1e-12)
	out, err := s.Solve(ChassisCommand{Rotation: 1}, RobotRelative)
	require.NoError(t, err)
	// pure rotation: wheel vectors are perpendicular to the corner radius.
	for n, w := range out {
		require.InDeltaf(t, 1.0, w.Speed, tolerance, "%s", WheelIndex(n))
	}
	require.InDelta(t, math.Atan2(1, -2)/(2*math.Pi), out[FrontRight].Angle, 1e-9)
}

func TestParseReferenceMode(t *testing.T) {
	mode, err := ParseReferenceMode("field")
	require.NoError(t, err)
	require.Equal(t, FieldRelative, mode)
	mode, err = ParseReferenceMode("robot")
	require.NoError(t, err)
	require.Equal(t, RobotRelative, mode)
	_, err = ParseReferenceMode("sky")
	require.Error(t, err)
	require.Equal(t, "field", FieldRelative.String())
	require.Equal(t, "rear-left", RearLeft.String())
}

func TestParseWheelIndex(t *testing.T) {
	for n := WheelIndex(0); n < WheelCount; n++ {
		i, err := ParseWheelIndex(n.String())
		require.NoError(t, err)
		require.Equal(t, n, i)
	}
	_, err := ParseWheelIndex("middle")
	require.Error(t, err)
	require.Equal(t, "wheel(7)", WheelIndex(7).String())
}
