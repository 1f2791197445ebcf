package controller

import (
	"flag"
	"os"
	"time"

	"github.com/robotalks/swerve.go/pkg/swerve/config"
	"github.com/robotalks/swerve.go/pkg/swerve/drive"
)

// Config defines the configuration of the controller.
type Config struct {
	// VehicleFile is the YAML file of the vehicle layout.
	// Built-in defaults are used if empty.
	VehicleFile    string
	CommandTimeout time.Duration
	// CalibrateTimeout enables calibration from absolute sensors on start,
	// 0 disables it.
	CalibrateTimeout time.Duration
}

// DefaultCommandTimeout is the default watchdog timeout.
const DefaultCommandTimeout = 500 * time.Millisecond

var defaultConfig = Config{
	CommandTimeout: DefaultCommandTimeout,
}

func init() {
	if val := os.Getenv("ROBO_SWERVE_VEHICLE"); val != "" {
		defaultConfig.VehicleFile = val
	}
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.VehicleFile, "vehicle", defaultConfig.VehicleFile, "Vehicle layout YAML file")
	flag.DurationVar(&defaultConfig.CommandTimeout, "command-timeout", defaultConfig.CommandTimeout, "Stop if no drive command received in time, 0 to disable")
	flag.DurationVar(&defaultConfig.CalibrateTimeout, "calibrate", defaultConfig.CalibrateTimeout, "Time to wait for absolute sensors to calibrate steering on start, 0 to skip")
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

// LoadVehicle loads the vehicle layout.
func (c *Config) LoadVehicle() (*config.Vehicle, error) {
	if c.VehicleFile == "" {
		return config.Default(), nil
	}
	return config.Load(c.VehicleFile)
}

// NewController creates the controller over the drive.
func (c *Config) NewController(d *drive.Drive) *Controller {
	ctl := New(d)
	ctl.CommandTimeout = c.CommandTimeout
	if c.CalibrateTimeout > 0 {
		ctl.CalibrateOnStart(c.CalibrateTimeout)
	}
	return ctl
}
