// Package all registers all shell commands.
package all

import (
	// command providers
	_ "github.com/robotalks/swerve.go/pkg/cli/cmds/joystick"
	_ "github.com/robotalks/swerve.go/pkg/cli/cmds/swerve"
)
