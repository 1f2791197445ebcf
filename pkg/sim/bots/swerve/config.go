package swerve

import (
	"flag"

	env "github.com/robotalks/swerve.go/pkg/l1/env/controller"
	"github.com/robotalks/swerve.go/pkg/swerve/controller"
)

// Config defines the configuration for the bot.
type Config struct {
	// UnitMM is the length in mm of one vehicle layout unit.
	UnitMM float64
	// DriveSpeedMax is the ground speed (mm/s) at full output.
	DriveSpeedMax float64
	// SteerRate is the steering speed in turns per second, 0 means unlimited.
	SteerRate float64
	// Twist turns every wheel (in turns) before start to simulate
	// misaligned steering.
	Twist float64
}

// Defaults
const (
	DefaultUnitMM        float64 = 25.4
	DefaultDriveSpeedMax float64 = 1000
	DefaultSteerRate     float64 = 2
)

var defaultConfig = Config{
	UnitMM:        DefaultUnitMM,
	DriveSpeedMax: DefaultDriveSpeedMax,
	SteerRate:     DefaultSteerRate,
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.Float64Var(&defaultConfig.UnitMM, "unit-mm", defaultConfig.UnitMM, "Length (mm) of one vehicle layout unit.")
	flag.Float64Var(&defaultConfig.DriveSpeedMax, "drive-speed-max", defaultConfig.DriveSpeedMax, "Maximum drive speed (mm/s).")
	flag.Float64Var(&defaultConfig.SteerRate, "steer-rate", defaultConfig.SteerRate, "Steering speed (turns/s), 0 means unlimited.")
	flag.Float64Var(&defaultConfig.Twist, "twist", defaultConfig.Twist, "Initial steering misalignment (turns) of all wheels.")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates the default configuration.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// NewController creates the Controller with the vehicle layout and
// watchdog from ctlConf.
func (c *Config) NewController(e *env.Env, ctlConf *controller.Config) (*Controller, error) {
	vehicle, err := ctlConf.LoadVehicle()
	if err != nil {
		return nil, err
	}
	ctl, err := NewController(e, vehicle, c)
	if err != nil {
		return nil, err
	}
	ctl.Swerve.CommandTimeout = ctlConf.CommandTimeout
	return ctl, nil
}
