package main

import (
	"flag"
	"time"

	"github.com/golang/glog"

	fx "github.com/robotalks/swerve.go/pkg/framework"
	"github.com/robotalks/swerve.go/pkg/l1"
	env "github.com/robotalks/swerve.go/pkg/l1/env/controller"
	"github.com/robotalks/swerve.go/pkg/swerve/config"
	"github.com/robotalks/swerve.go/pkg/swerve/controller"
	"github.com/robotalks/swerve.go/pkg/swerve/drive"
	"github.com/robotalks/swerve.go/pkg/swerve/hw/can"
	"github.com/robotalks/swerve.go/pkg/swerve/kinematics"
)

var canInterface string

func init() {
	env.SetControllerType("swerve", l1.ControllerMeta{Description: "Swerve drive"})
	env.SetupFlags()
	controller.SetupFlags()
	flag.StringVar(&canInterface, "can", canInterface, "CAN interface, overrides the vehicle layout.")
}

func main() {
	flag.Parse()

	ctlConf := controller.NewConfig()
	vehicle, err := ctlConf.LoadVehicle()
	if err != nil {
		glog.Fatalf("load vehicle: %v", err)
	}
	if canInterface != "" {
		vehicle.CAN.Interface = canInterface
	}
	sock, err := can.Open(vehicle.CAN.Interface)
	if err != nil {
		glog.Fatalf("open %s: %v", vehicle.CAN.Interface, err)
	}
	bus := can.NewBus(sock)
	bus.StatusTimeout = time.Duration(vehicle.CAN.StatusTimeoutMs) * time.Millisecond

	d, err := vehicle.BuildDrive(func(_ kinematics.WheelIndex, enc *config.Enclosure) (drive.Hardware, error) {
		return bus.NewEnclosure(enc.DriveID, enc.SteerID), nil
	})
	if err != nil {
		glog.Fatalln(err)
	}

	env := env.NewConfig().MustNewEnv()
	ctl := ctlConf.NewController(d)
	ctl.Registrar = env.Registrar

	fx.NewLoop().
		Add(env, ctl).
		AddRunnable(fx.NamedRun("can", bus)).
		RunOrFail()
}
