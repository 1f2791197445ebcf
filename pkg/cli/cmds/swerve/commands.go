package swerve

import (
	"fmt"
	"strconv"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/swerve.go/pkg/cli/sh"
	"github.com/robotalks/swerve.go/pkg/l1/msgs"
	"github.com/robotalks/swerve.go/pkg/swerve/kinematics"
)

// ParseDrive parses FWD STR RCW [HEADING] into a SwerveDrive.
func ParseDrive(args []string) (*msgs.SwerveDrive, error) {
	vals, err := sh.ParseFloats(args, 3, "FWD", "STR", "RCW", "HEADING")
	if err != nil {
		return nil, err
	}
	cmd := kinematics.ChassisCommand{Forward: vals[0], Strafe: vals[1], Rotation: vals[2]}
	if len(vals) > 3 {
		cmd = cmd.WithHeading(vals[3])
	}
	return msgs.NewSwerveDrive(cmd), nil
}

// ParseMode parses robot|field into a SwerveMode.
func ParseMode(args []string) (*msgs.SwerveMode, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("MODE required")
	}
	mode, err := kinematics.ParseReferenceMode(args[0])
	if err != nil {
		return nil, err
	}
	return &msgs.SwerveMode{Mode: mode.String()}, nil
}

// ParseZero parses WHEEL TICKS into a SwerveZero.
// WHEEL is a wheel name, an index or "all".
func ParseZero(args []string) (*msgs.SwerveZero, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("WHEEL TICKS required")
	}
	msg := &msgs.SwerveZero{Wheel: msgs.SwerveZeroAllWheels}
	if args[0] != "all" {
		wheel, err := kinematics.ParseWheelIndex(args[0])
		if err != nil {
			index, convErr := strconv.Atoi(args[0])
			if convErr != nil || index < 0 || index >= kinematics.WheelCount {
				return nil, err
			}
			wheel = kinematics.WheelIndex(index)
		}
		msg.Wheel = int32(wheel)
	}
	ticks, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("Invalid TICKS: %v", err)
	}
	msg.Ticks = ticks
	return msg, nil
}

func argsCmd(parse func([]string) (msgs.SerializableMessage, error)) func(c *ishell.Context) {
	return sh.MustBeConnected(func(c *ishell.Context) {
		msg, err := parse(c.Args)
		if err != nil {
			c.Err(err)
			return
		}
		sh.DoCommand(c, msg)
	})
}

var (
	// SwerveDriveCmd exposes SwerveDrive command.
	SwerveDriveCmd = ishell.Cmd{
		Name:    "swerve.drive",
		Aliases: []string{"sd"},
		Help:    "FWD STR RCW [HEADING(degrees)]",
		Func: argsCmd(func(args []string) (msgs.SerializableMessage, error) {
			return ParseDrive(args)
		}),
	}

	// SwerveModeCmd exposes SwerveMode command.
	SwerveModeCmd = ishell.Cmd{
		Name:    "swerve.mode",
		Aliases: []string{"sm"},
		Help:    "robot|field",
		Func: argsCmd(func(args []string) (msgs.SerializableMessage, error) {
			return ParseMode(args)
		}),
	}

	// SwerveStopCmd exposes SwerveStop command.
	SwerveStopCmd = ishell.Cmd{
		Name:    "swerve.stop",
		Aliases: []string{"ss"},
		Help:    "",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			sh.DoCommand(c, &msgs.SwerveStop{})
		}),
	}

	// SwerveStatusCmd exposes SwerveStatusQuery command.
	SwerveStatusCmd = ishell.Cmd{
		Name:    "swerve.status",
		Aliases: []string{"sst"},
		Help:    "",
		Func: sh.MustBeConnected(func(c *ishell.Context) {
			sh.DoCommand(c, &msgs.SwerveStatusQuery{})
		}),
	}

	// SwerveZeroCmd exposes SwerveZero command.
	SwerveZeroCmd = ishell.Cmd{
		Name:    "swerve.zero",
		Aliases: []string{"sz"},
		Help:    "WHEEL|all TICKS",
		Func: argsCmd(func(args []string) (msgs.SerializableMessage, error) {
			return ParseZero(args)
		}),
	}
)

func init() {
	sh.AddCmds(
		&SwerveDriveCmd,
		&SwerveModeCmd,
		&SwerveStopCmd,
		&SwerveStatusCmd,
		&SwerveZeroCmd,
	)
}
