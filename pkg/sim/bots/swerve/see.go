package swerve

import (
	"strconv"

	"github.com/robotalks/swerve.go/pkg/sim/visualization/see"
)

// Wheel outline in mm.
const (
	wheelLength = 100
	wheelWidth  = 40
)

// MapObject maps the bot into the chassis and its wheels. Other objects
// are mapped with fallback.
func MapObject(fallback see.ObjectMapper) see.ObjectMapper {
	return see.MapObjectFunc(func(obj see.VisibleObject) []see.Object {
		c, ok := obj.(*Controller)
		if !ok {
			if fallback == nil {
				return nil
			}
			return fallback.MapObject(obj)
		}
		id := see.ObjectID(c.Name())
		rc := c.OutlineRect()
		objs := []see.Object{
			see.ObjectFrom("chassis", c).Rc(rc.X, rc.Y, rc.CX, rc.CY),
		}
		for _, p := range c.WheelPoses() {
			wheel := see.NewObject("wheel", id+".wheel."+strconv.Itoa(int(p.Wheel))).
				At(p.X, p.Y).
				Rc(-wheelLength/2, -wheelWidth/2, wheelLength, wheelWidth).
				Rotate(p.Orientation.Degrees()).
				With("name", p.Wheel.String()).
				With("speed", p.Speed)
			if p.Speed < 0 {
				wheel.Styled("reversed")
			}
			objs = append(objs, wheel)
		}
		return objs
	})
}
