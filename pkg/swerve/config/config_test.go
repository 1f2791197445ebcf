package config

import (
	"errors"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/swerve.go/pkg/swerve/drive"
	"github.com/robotalks/swerve.go/pkg/swerve/kinematics"
)

const sampleConfig = `
width: 20
length: 10
gear_ratio: 1000
mode: field
can:
  interface: vcan0
enclosures:
  - wheel: front-right
    drive_id: 11
    steer_id: 12
    zero: 748
    reverse_steer: true
  - wheel: front-left
    name: fl
    drive_id: 21
    steer_id: 22
    zero: 2830
  - wheel: rear-left
    drive_id: 31
    steer_id: 32
    zero: 1765
    reverse_sensor: true
  - wheel: rear-right
    drive_id: 41
    steer_id: 42
    zero: 613
    gear_ratio: 2000
`

type nopHardware struct{}

func (nopHardware) AbsolutePosition() (int64, error) { return 0, nil }
func (nopHardware) SetAbsolutePosition(int64) error  { return nil }
func (nopHardware) SetDrive(float64) error           { return nil }
func (nopHardware) SetSteering(float64) error        { return nil }
func (nopHardware) Stop() error                      { return nil }

func nopFactory(kinematics.WheelIndex, *Enclosure) (drive.Hardware, error) {
	return nopHardware{}, nil
}

func TestParse(t *testing.T) {
	v, err := Parse([]byte(sampleConfig))
	require.NoError(t, err)
	require.Equal(t, 20.0, v.Width)
	require.Equal(t, 10.0, v.Length)
	require.Equal(t, 1000.0, v.GearRatio)
	require.Equal(t, float64(drive.DefaultCountsPerTurn), v.CountsPerTurn)
	require.Equal(t, kinematics.FieldRelative, v.ReferenceMode())
	require.Equal(t, "vcan0", v.CAN.Interface)
	require.Equal(t, 100, v.CAN.StatusTimeoutMs)
	require.Len(t, v.Enclosures, 4)
	fl := v.Enclosure(kinematics.FrontLeft)
	require.NotNil(t, fl)
	require.Equal(t, "fl", fl.DisplayName())
	require.EqualValues(t, 21, fl.DriveID)
	require.Equal(t, "rear-left", v.Enclosure(kinematics.RearLeft).DisplayName())
}

func TestParseInvalid(t *testing.T) {
	enclosures := `
enclosures:
  - wheel: front-right
  - wheel: front-left
  - wheel: rear-left
  - wheel: rear-right
`
	cases := []struct {
		name   string
		data   string
		expect error
	}{
		{"zero width", "width: 0" + enclosures, kinematics.ErrInvalidGeometry},
		{"negative length", "length: -1" + enclosures, kinematics.ErrInvalidGeometry},
		{"zero gear ratio", "gear_ratio: 0" + enclosures, drive.ErrInvalidGearRatio},
		{"no enclosures", "width: 1", ErrEnclosureCount},
		{"three enclosures", `
enclosures:
  - wheel: front-right
  - wheel: front-left
  - wheel: rear-left
`, ErrEnclosureCount},
		{"duplicated wheel", `
enclosures:
  - wheel: front-right
  - wheel: front-left
  - wheel: rear-left
  - wheel: front-right
`, ErrDuplicateWheel},
		{"duplicated name", `
enclosures:
  - wheel: front-right
    name: a
  - wheel: front-left
    name: a
  - wheel: rear-left
  - wheel: rear-right
`, ErrDuplicateName},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := Parse([]byte(c.data))
			require.Error(t, err)
			require.True(t, errors.Is(err, c.expect), "%v", err)
		})
	}

	_, err := Parse([]byte("mode: sideways" + enclosures))
	require.Error(t, err)
	_, err = Parse([]byte("enclosures:\n  - wheel: middle\n  - wheel: front-left\n  - wheel: rear-left\n  - wheel: rear-right\n"))
	require.Error(t, err)
	_, err = Parse([]byte("width: [1"))
	require.Error(t, err)
}

func TestLoad(t *testing.T) {
	dir, err := ioutil.TempDir("", "swerve-config")
	require.NoError(t, err)
	defer os.RemoveAll(dir)
	fn := filepath.Join(dir, "vehicle.yaml")
	require.NoError(t, ioutil.WriteFile(fn, []byte(sampleConfig), 0644))
	v, err := Load(fn)
	require.NoError(t, err)
	require.Equal(t, 20.0, v.Width)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
}

func TestBuildDrive(t *testing.T) {
	v, err := Parse([]byte(sampleConfig))
	require.NoError(t, err)
	var wheels []kinematics.WheelIndex
	d, err := v.BuildDrive(func(wheel kinematics.WheelIndex, conf *Enclosure) (drive.Hardware, error) {
		require.Equal(t, wheel.String(), conf.Wheel)
		wheels = append(wheels, wheel)
		return nopHardware{}, nil
	})
	require.NoError(t, err)
	require.Equal(t, []kinematics.WheelIndex{
		kinematics.FrontRight, kinematics.FrontLeft, kinematics.RearLeft, kinematics.RearRight,
	}, wheels)
	require.Equal(t, kinematics.FieldRelative, d.Mode)
	require.Equal(t, kinematics.Geometry{Width: 20, Length: 10, Diagonal: d.Solver.Geometry().Diagonal}, d.Solver.Geometry())

	fr := d.Enclosures[kinematics.FrontRight]
	require.Equal(t, "front-right", fr.Name)
	require.True(t, fr.ReverseSteer)
	require.False(t, fr.ReverseSensor)
	require.Equal(t, drive.Calibration{Zero: 748, CountsPerTurn: drive.DefaultCountsPerTurn}, fr.Calibration)
	require.Equal(t, 1000.0, fr.GearRatio)
	require.Equal(t, "fl", d.Enclosures[kinematics.FrontLeft].Name)
	require.True(t, d.Enclosures[kinematics.RearLeft].ReverseSensor)
	require.Equal(t, 2000.0, d.Enclosures[kinematics.RearRight].GearRatio)

	_, err = v.BuildDrive(func(kinematics.WheelIndex, *Enclosure) (drive.Hardware, error) {
		return nil, errors.New("no bus")
	})
	require.Error(t, err)
}

func TestDefault(t *testing.T) {
	v := Default()
	require.NoError(t, v.Validate())
	_, err := v.BuildDrive(nopFactory)
	require.NoError(t, err)
	require.EqualValues(t, 7, v.Enclosure(kinematics.RearRight).DriveID)
}
