package joystick

import (
	"flag"
	"time"

	env "github.com/robotalks/swerve.go/pkg/l1/env/controller"
)

// Config defines the configurations for the controller.
type Config struct {
	DeviceIndex    int
	Verbose        bool
	Deadband       float64
	ResendInterval time.Duration
}

// DefaultResendInterval keeps held commands within the default
// command timeout of the swerve controller.
const DefaultResendInterval = 200 * time.Millisecond

var defaultConfig = Config{
	DeviceIndex:    -1,
	Deadband:       DefaultDeadband,
	ResendInterval: DefaultResendInterval,
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.IntVar(&defaultConfig.DeviceIndex, "device", defaultConfig.DeviceIndex, "Device index, -1 for auto detection.")
	flag.BoolVar(&defaultConfig.Verbose, "verbose", defaultConfig.Verbose, "Print Joystick events.")
	flag.Float64Var(&defaultConfig.Deadband, "deadband", defaultConfig.Deadband, "Fraction of the axis range treated as zero.")
	flag.DurationVar(&defaultConfig.ResendInterval, "resend", defaultConfig.ResendInterval, "Interval to resend held drive commands, 0 to disable.")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a config with defaults.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// NewController creates a controller using the config.
func (c *Config) NewController(e *env.Env) *Controller {
	ctl := NewController(e)
	ctl.DeviceIndex = c.DeviceIndex
	ctl.Verbose = c.Verbose
	ctl.Mapping.Deadband = c.Deadband
	ctl.ResendInterval = c.ResendInterval
	return ctl
}
