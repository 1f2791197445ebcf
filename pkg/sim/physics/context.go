package physics

import (
	"context"
	"time"
)

// NowContext wraps context.Context with a fixed time.
type NowContext struct {
	now time.Time
	ctx context.Context
}

// Now creates NowContext at current time.
func Now(ctx context.Context) Context {
	return At(ctx, time.Now())
}

// At creates NowContext at the specified time.
func At(ctx context.Context, t time.Time) Context {
	return &NowContext{now: t, ctx: ctx}
}

// Time implements TimeSource.
func (c NowContext) Time() time.Time {
	return c.now
}

// Context implements Context.
func (c NowContext) Context() context.Context {
	return c.ctx
}
