package see

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	fx "github.com/robotalks/swerve.go/pkg/framework"
	"github.com/robotalks/swerve.go/pkg/sim"
)

type testObject struct {
	name string
	pose sim.Pose2D
}

func (o *testObject) Name() string           { return o.name }
func (o *testObject) OutlineRect() sim.Rect  { return sim.Rect{Size2D: sim.Size2D{CX: 10, CY: 20}} }
func (o *testObject) Position2D() sim.Pose2D { return o.pose }

type testControlContext struct {
	fx.ControlContext
	now time.Time
}

func (c *testControlContext) Time() time.Time          { return c.now }
func (c *testControlContext) Context() context.Context { return context.Background() }

func decodeLines(t *testing.T, buf *bytes.Buffer) [][]Message {
	var reports [][]Message
	for _, line := range bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n")) {
		if len(line) == 0 {
			continue
		}
		var msgs []Message
		require.NoError(t, json.Unmarshal(line, &msgs))
		reports = append(reports, msgs)
	}
	buf.Reset()
	return reports
}

func TestAdapterReport(t *testing.T) {
	var buf bytes.Buffer
	conf := &Config{W: 100, H: 200}
	a := conf.NewAdapterTo(&buf)
	cc := &testControlContext{now: time.Unix(100, 0)}

	b := &testObject{name: "bots/b", pose: sim.Pose2D{Pos2D: sim.Pos2D{X: 1, Y: 2}}}
	a.ObjectsChanged(cc, b, &testObject{name: "bots/a"})
	require.NoError(t, a.ReportChanges(cc))
	reports := decodeLines(t, &buf)
	require.Len(t, reports, 1)
	msgs := reports[0]
	require.Len(t, msgs, 7)
	require.Equal(t, ActionReset, msgs[0].Action)
	require.Equal(t, "corner-lt", msgs[1].Object[PropID])
	require.Equal(t, map[string]interface{}{"x": -50.0, "y": -100.0}, msgs[1].Object[PropOrigin])
	require.Equal(t, "bots.a", msgs[5].Object[PropID])
	require.Equal(t, "bots.b", msgs[6].Object[PropID])
	require.Equal(t, "object", msgs[6].Object[PropType])
	require.Equal(t, 20.0, msgs[6].Object[PropRadius])

	require.NoError(t, a.ReportChanges(cc))
	require.Zero(t, buf.Len())

	a.ObjectsChanged(cc, b)
	a.ObjectsRemoved(cc, b)
	require.NoError(t, a.ReportChanges(cc))
	reports = decodeLines(t, &buf)
	require.Len(t, reports, 1)
	require.Equal(t, []Message{{Action: ActionRemove, RemoveID: "bots.b"}}, reports[0])
}

func TestAdapterReportInterval(t *testing.T) {
	var buf bytes.Buffer
	a := (&Config{W: 10, H: 10, ReportInterval: time.Second}).NewAdapterTo(&buf)
	a.Mapper = MapObjectFunc(func(vo VisibleObject) []Object {
		return []Object{NewObject("dot", vo.Name()), nil}
	})
	cc := &testControlContext{now: time.Unix(100, 0)}
	obj := &testObject{name: "dot"}

	a.ObjectsChanged(cc, obj)
	require.NoError(t, a.ReportChanges(cc))
	require.Len(t, decodeLines(t, &buf), 1)

	cc.now = cc.now.Add(500 * time.Millisecond)
	a.ObjectsChanged(cc, obj)
	require.NoError(t, a.ReportChanges(cc))
	require.Zero(t, buf.Len())

	cc.now = cc.now.Add(500 * time.Millisecond)
	require.NoError(t, a.ReportChanges(cc))
	reports := decodeLines(t, &buf)
	require.Len(t, reports, 1)
	require.Len(t, reports[0], 1)
	require.Equal(t, "dot", reports[0][0].Object[PropType])
}

func TestObjectStyled(t *testing.T) {
	o := NewObject("wheel", "w").Styled("reversed")
	require.Equal(t, []string{"reversed"}, o[PropStyles])
	o.Styled()
	_, ok := o[PropStyles]
	require.False(t, ok)
}
