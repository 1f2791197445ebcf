package main

import (
	"github.com/robotalks/swerve.go/pkg/cli/sh"
	env "github.com/robotalks/swerve.go/pkg/l1/env/connector"

	_ "github.com/robotalks/swerve.go/pkg/cli/cmds/all"
)

//go-build: CGO_ENABLED=0

func init() {
	env.SetupFlags()
}

func main() {
	sh.Main()
}
