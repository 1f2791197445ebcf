package main

//go-build: CGO_ENABLED=0

import (
	"flag"

	"github.com/golang/glog"

	fx "github.com/robotalks/swerve.go/pkg/framework"
	"github.com/robotalks/swerve.go/pkg/l1"
	env "github.com/robotalks/swerve.go/pkg/l1/env/controller"
	swervebot "github.com/robotalks/swerve.go/pkg/sim/bots/swerve"
	"github.com/robotalks/swerve.go/pkg/sim/visualization/see"
	"github.com/robotalks/swerve.go/pkg/swerve/controller"
)

func init() {
	env.SetControllerType("sim-swerve", l1.ControllerMeta{Description: "Simulation: swerve drive"})
	env.SetupFlags()
	controller.SetupFlags()
	see.SetupFlags()
	swervebot.SetupFlags()
}

func main() {
	flag.Parse()

	env := env.NewConfig().MustNewEnv()
	bot, err := swervebot.NewConfig().NewController(env, controller.NewConfig())
	if err != nil {
		glog.Fatalln(err)
	}
	vis := see.NewConfig().NewAdapter()
	vis.Mapper = swervebot.MapObject(nil)
	vis.Subscribe(bot)

	fx.NewLoop().
		Add(env, bot, vis).
		RunOrFail()
}
