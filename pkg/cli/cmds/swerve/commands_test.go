package swerve

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/swerve.go/pkg/l1/msgs"
	"github.com/robotalks/swerve.go/pkg/swerve/kinematics"
)

func TestParseDrive(t *testing.T) {
	msg, err := ParseDrive([]string{"1", "0.5", "-0.25"})
	require.NoError(t, err)
	require.Equal(t, kinematics.ChassisCommand{Forward: 1, Strafe: 0.5, Rotation: -0.25}, msg.ChassisCommand())

	msg, err = ParseDrive([]string{"1", "0", "0", "90"})
	require.NoError(t, err)
	cmd := msg.ChassisCommand()
	require.NotNil(t, cmd.Heading)
	require.Equal(t, 90.0, *cmd.Heading)

	_, err = ParseDrive([]string{"1", "0"})
	require.Error(t, err)
}

func TestParseMode(t *testing.T) {
	msg, err := ParseMode([]string{"field"})
	require.NoError(t, err)
	require.Equal(t, "field", msg.Mode)

	_, err = ParseMode([]string{"sideways"})
	require.Error(t, err)
	_, err = ParseMode(nil)
	require.Error(t, err)
}

func TestParseZero(t *testing.T) {
	cases := []struct {
		name  string
		args  []string
		wheel int32
		ticks int64
		fail  bool
	}{
		{name: "all", args: []string{"all", "0"}, wheel: msgs.SwerveZeroAllWheels},
		{name: "by name", args: []string{"rear-left", "207"}, wheel: int32(kinematics.RearLeft), ticks: 207},
		{name: "by index", args: []string{"3", "-10"}, wheel: int32(kinematics.RearRight), ticks: -10},
		{name: "bad wheel", args: []string{"middle", "0"}, fail: true},
		{name: "bad index", args: []string{"4", "0"}, fail: true},
		{name: "bad ticks", args: []string{"all", "1.5"}, fail: true},
		{name: "missing", args: []string{"all"}, fail: true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			msg, err := ParseZero(c.args)
			if c.fail {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, c.wheel, msg.Wheel)
			require.Equal(t, c.ticks, msg.Ticks)
		})
	}
}
