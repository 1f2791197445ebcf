package see

import (
	"flag"
	"io"
	"os"
	"time"
)

// Config represents configuration for see.
type Config struct {
	// W and H are the size (mm) of the visible field.
	W float64
	H float64
	// ReportInterval limits how often changes are reported,
	// 0 reports in every loop iteration.
	ReportInterval time.Duration
}

var defaultConfig = Config{
	W: 6000,
	H: 6000,
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.Float64Var(&defaultConfig.W, "see-w", defaultConfig.W, "Width (mm) of visualization area")
	flag.Float64Var(&defaultConfig.H, "see-h", defaultConfig.H, "Height (mm) of visualization area")
	flag.DurationVar(&defaultConfig.ReportInterval, "see-interval", defaultConfig.ReportInterval, "Minimum interval between visualization updates")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a default config.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// NewAdapter creates adapter writing to stdout.
func (c *Config) NewAdapter() *Adapter {
	return c.NewAdapterTo(os.Stdout)
}

// NewAdapterTo creates adapter writing to w.
func (c *Config) NewAdapterTo(w io.Writer) *Adapter {
	a := NewAdapter(c)
	a.Out = w
	return a
}
