// Package see is the adapter to visualize a 2D world in
// github.com/robotalks/see.
package see

import (
	"encoding/json"
	"io"
	"os"
	"sort"
	"time"

	"github.com/golang/glog"

	fx "github.com/robotalks/swerve.go/pkg/framework"
	"github.com/robotalks/swerve.go/pkg/sim"
)

// Adapter is the visualization adapter to visualize using
// github.com/robotalks/see.
// Each report is written to Out as one line of JSON messages.
type Adapter struct {
	Config *Config
	// Mapper defaults to a single "object" per VisibleObject.
	Mapper ObjectMapper
	Out    io.Writer

	initial    bool
	lastReport time.Time
	updated    map[string]sim.Object
	removedIDs map[string]bool
}

// DefaultMapper maps a VisibleObject with ObjectFrom.
var DefaultMapper = MapObjectFunc(func(vo VisibleObject) []Object {
	return []Object{ObjectFrom("object", vo)}
})

// NewAdapter creates the adapter.
func NewAdapter(config *Config) *Adapter {
	return &Adapter{
		Config:  config,
		Out:     os.Stdout,
		initial: true,
	}
}

// Subscribe is a helper to subscribe object changes.
func (a *Adapter) Subscribe(sub sim.ObjectsChangeSubscriber) *Adapter {
	sub.SubscribeObjectsChange(a)
	return a
}

// ObjectsChanged implements ObjectsChangeListener.
func (a *Adapter) ObjectsChanged(cc fx.ControlContext, objs ...sim.Object) {
	if a.updated == nil {
		a.updated = make(map[string]sim.Object)
	}
	for _, obj := range objs {
		a.updated[obj.Name()] = obj
		if a.removedIDs != nil {
			delete(a.removedIDs, obj.Name())
		}
	}
}

// ObjectsRemoved implements ObjectsChangeListener.
func (a *Adapter) ObjectsRemoved(cc fx.ControlContext, objs ...sim.Object) {
	if a.removedIDs == nil {
		a.removedIDs = make(map[string]bool)
	}
	for _, obj := range objs {
		a.removedIDs[obj.Name()] = true
		if a.updated != nil {
			delete(a.updated, obj.Name())
		}
	}
}

// AddToLoop implements LoopAdder.
func (a *Adapter) AddToLoop(l *fx.Loop) {
	l.AddController(fx.PrLvPostProc, fx.ControlFunc(a.ReportChanges))
}

// Messages drains pending changes into see messages, sorted by object name.
func (a *Adapter) Messages() []Message {
	var msgs []Message
	if a.initial {
		w, h := a.Config.W/2, a.Config.H/2
		msgs = []Message{
			{Action: ActionReset},
			{Action: ActionObject, Object: NewObject("corner", "corner-lt").With("loc", "lt").At(-w, -h).Radius(1)},
			{Action: ActionObject, Object: NewObject("corner", "corner-lb").With("loc", "lb").At(-w, h).Radius(1)},
			{Action: ActionObject, Object: NewObject("corner", "corner-rt").With("loc", "rt").At(w, -h).Radius(1)},
			{Action: ActionObject, Object: NewObject("corner", "corner-rb").With("loc", "rb").At(w, h).Radius(1)},
		}
		a.initial = false
		a.removedIDs = nil
	}

	mapper := a.Mapper
	if mapper == nil {
		mapper = DefaultMapper
	}
	names := make([]string, 0, len(a.updated))
	for name := range a.updated {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		vo, ok := a.updated[name].(VisibleObject)
		if !ok {
			continue
		}
		for _, mapped := range mapper.MapObject(vo) {
			if mapped != nil {
				msgs = append(msgs, Message{Action: ActionObject, Object: mapped})
			}
		}
	}

	names = names[:0]
	for name := range a.removedIDs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		msgs = append(msgs, Message{Action: ActionRemove, RemoveID: ObjectID(name)})
	}

	a.updated, a.removedIDs = nil, nil
	return msgs
}

// ReportChanges is a controller to report changes.
func (a *Adapter) ReportChanges(cc fx.ControlContext) error {
	if interval := a.Config.ReportInterval; interval > 0 && !a.initial &&
		cc.Time().Sub(a.lastReport) < interval {
		return nil
	}
	msgs := a.Messages()
	if len(msgs) == 0 {
		return nil
	}
	a.lastReport = cc.Time()
	encoded, err := json.Marshal(msgs)
	if err != nil {
		glog.Errorf("see: encode: %v", err)
		return nil
	}
	_, err = a.Out.Write(append(encoded, '\n'))
	return err
}
