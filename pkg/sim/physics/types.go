package physics

import (
	"context"

	fx "github.com/robotalks/swerve.go/pkg/framework"
)

// Context provides the simulation context.
// fx.ControlContext satisfies it.
type Context interface {
	fx.TimeSource
	Context() context.Context
}

// Simulator advances a simulated model to the time of the context.
type Simulator interface {
	Simulate(Context)
}
