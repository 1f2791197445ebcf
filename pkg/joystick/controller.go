package joystick

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/golang/glog"

	fx "github.com/robotalks/swerve.go/pkg/framework"
	"github.com/robotalks/swerve.go/pkg/joystick/device"
	"github.com/robotalks/swerve.go/pkg/joystick/msgs"
	"github.com/robotalks/swerve.go/pkg/l1"
	connenv "github.com/robotalks/swerve.go/pkg/l1/env/connector"
	env "github.com/robotalks/swerve.go/pkg/l1/env/controller"
	l1msgs "github.com/robotalks/swerve.go/pkg/l1/msgs"
	"github.com/robotalks/swerve.go/pkg/swerve/kinematics"
)

// Controller is an L2 controller which sends commands to
// an L1 controller.
type Controller struct {
	Env            *env.Env
	DeviceIndex    int
	Verbose        bool
	Mapping        *Mapping
	ResendInterval time.Duration

	conn        *connection
	eventCh     chan device.Event
	device      device.Device
	deviceTimer <-chan time.Time

	status        msgs.JoystickStatus
	statusChanged bool
}

// NewController creates a Controller.
func NewController(e *env.Env) *Controller {
	return &Controller{
		Env:            e,
		DeviceIndex:    defaultConfig.DeviceIndex,
		Verbose:        defaultConfig.Verbose,
		Mapping:        DefaultMapping(),
		ResendInterval: defaultConfig.ResendInterval,
		statusChanged:  true,
	}
}

// AddToLoop implements LoopAdder.
func (c *Controller) AddToLoop(loop *fx.Loop) {
	loop.AddRunnable(c)
	loop.AddController(fx.PrLvControl, c)
	loop.AddController(fx.PrLvPostProc, fx.ControlFunc(c.notifyStatusChange))
}

// Run implements Runnable.
func (c *Controller) Run(ctx context.Context) error {
	defer func() {
		if c.device != nil {
			c.device.Close()
		}
	}()
	loopCtl := fx.LoopCtlFrom(ctx)
	c.deviceTimer = time.After(time.Second)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-c.deviceTimer:
			c.deviceTimer = nil
			var js device.Device
			var err error
			if c.DeviceIndex >= 0 {
				if js, err = device.Open(c.DeviceIndex); err != nil {
					glog.Errorf("Open joystick %d error: %v", c.DeviceIndex, err)
				}
			} else {
				glog.V(1).Info("Detecting joystick ...")
				if js, err = device.DetectAndOpen(0); errors.Is(err, device.ErrNoDevice) {
					glog.V(1).Info("No joystick detected.")
				} else if err != nil {
					glog.Errorf("Detect joystick error: %v", err)
				}
			}
			if err == nil {
				glog.Infof("Joystick %d %q opened!", js.Index(), js.Name())
				c.device, c.eventCh = js, make(chan device.Event, 1)
				go c.pollJoystick(ctx)
				loopCtl.PostMessage(&statusMsg{
					device: &msgs.JoystickDevice{
						Index:   uint32(js.Index()),
						Name:    js.Name(),
						Axes:    uint32(js.AxisCount()),
						Buttons: uint32(js.ButtonCount()),
					},
				})
			} else {
				c.deviceTimer = time.After(time.Second)
			}
		case ev, ok := <-c.eventCh:
			if ok {
				loopCtl.PostMessage(&eventMsg{event: ev})
			} else {
				loopCtl.PostMessage(&eventMsg{stopAll: true})
				if c.device != nil {
					c.device.Close()
				}
				c.device, c.eventCh = nil, nil
				c.deviceTimer = time.After(time.Second)
				loopCtl.PostMessage(&statusMsg{
					device: &msgs.JoystickDevice{Index: msgs.DeviceRemovedIndex},
				})
			}
			loopCtl.TriggerNext()
		}
	}
}

// Control implements Controller.
func (c *Controller) Control(cc fx.ControlContext) error {
	cc.Messages().ProcessMessages(fx.ProcessMessageFunc(func(mctx fx.MessageProcessingContext) {
		switch msg := mctx.CurrentMessage().(type) {
		case *l1.CommandMsg:
			switch m := msg.Command.Msg().(type) {
			case *msgs.JoystickStatusQuery:
				mctx.MessageTaken()
				msg.Command.Done(&msgs.JoystickStatusReply{Status: &c.status})
			case *msgs.JoystickConnect:
				mctx.MessageTaken()
				msg.Command.Done(c.connect(cc, m))
			}
		case *eventMsg:
			mctx.MessageTaken()
			if conn := c.conn; conn != nil {
				conn.loop.PostMessage(msg)
				conn.loop.TriggerNext()
			} else {
				glog.Warning("Controller not connected.")
			}
		case *statusMsg:
			if msg.device != nil {
				if msg.device.Index == msgs.DeviceRemovedIndex {
					c.status.Device = nil
				} else {
					c.status.Device = msg.device
				}
				c.statusChanged = true
			}
			if msg.conn != nil {
				if msg.conn.Type == "" {
					c.status.Connection = nil
				} else {
					c.status.Connection = msg.conn
				}
				c.statusChanged = true
			}
		}
	}))
	return nil
}

func (c *Controller) notifyStatusChange(cc fx.ControlContext) error {
	changed := c.statusChanged
	c.statusChanged = false
	if changed {
		return c.Env.Registrar.SendEvent(cc.Context(), &c.status)
	}
	return nil
}

func (c *Controller) connect(cc fx.ControlContext, msg *msgs.JoystickConnect) fx.Message {
	if c.conn != nil {
		c.conn.close()
		c.conn = nil
		cc.PostMessage(&statusMsg{conn: &msgs.JoystickConnect{}})
	}
	if msg.Type == "" && msg.ID == "" {
		// treat as disconnect.
		return l1msgs.NewCommandOK()
	}
	conf := connenv.NewConfig()
	if conf.RegistryURL = msg.RegistryURL; conf.RegistryURL == "" {
		conf.RegistryURL = c.Env.RegistryURLs[0]
	}
	if conf.Ref.Type, conf.Ref.ID = msg.Type, msg.ID; !conf.Ref.IsValid() {
		return l1msgs.NewCommandErrFromMsg("controller ref invalid")
	}
	connector, err := conf.NewConnector()
	if err != nil {
		return l1msgs.NewCommandErr(err)
	}
	c.Mapping.Reset()
	if c.conn, err = newConnection(cc, connector, conf.Ref, c.Mapping, c.ResendInterval); err != nil {
		return l1msgs.NewCommandErr(err)
	}
	go c.conn.run()
	cc.PostMessage(&statusMsg{conn: &msgs.JoystickConnect{
		RegistryURL: conf.RegistryURL,
		Type:        conf.Ref.Type,
		ID:          conf.Ref.ID,
	}})
	return l1msgs.NewCommandOK()
}

func (c *Controller) pollJoystick(ctx context.Context) {
	dev, ch := c.device, c.eventCh
	defer close(ch)
	for {
		ev, err := dev.ReadEvent()
		if err != nil {
			glog.Errorf("Joystick read error: %v", err)
			return
		}
		if ev != nil {
			if c.Verbose {
				var prefix string
				if ev.IsInit() {
					prefix = "[INIT] "
				}
				switch evt := ev.(type) {
				case device.AxisEvent:
					glog.Infof(prefix+"Axis %d: %d", evt.Index(), evt.Value())
				case device.ButtonEvent:
					glog.Infof(prefix+"Button %d: %v", evt.Index(), evt.Pressed())
				}
			}
			ch <- ev
		}
	}
}

type statusMsg struct {
	device *msgs.JoystickDevice
	conn   *msgs.JoystickConnect
}

func (m *statusMsg) NewMessage() fx.Message { return &statusMsg{} }

type eventMsg struct {
	event   device.Event
	stopAll bool
}

func (m *eventMsg) NewMessage() fx.Message { return &eventMsg{} }

type modeMsg struct {
	mode kinematics.ReferenceMode
}

func (m *modeMsg) NewMessage() fx.Message { return &modeMsg{} }

type connection struct {
	ctx     context.Context
	cancel  func()
	conn    l1.ControllerConn
	loop    *fx.Loop
	mapping *Mapping
	resend  time.Duration

	mode     *kinematics.ReferenceMode
	lastSent time.Time
}

func newConnection(cc fx.ControlContext, connector l1.Connector, ref l1.ControllerRef, mapping *Mapping, resend time.Duration) (c *connection, err error) {
	c = &connection{mapping: mapping, resend: resend}
	c.ctx, c.cancel = context.WithCancel(cc.Context())
	if c.conn, err = connector.Connect(c.ctx, ref); err != nil {
		return
	}
	c.loop = fx.NewLoop()
	if resend > 0 {
		c.loop.Interval = resend
	}
	if adder, ok := c.conn.(fx.LoopAdder); ok {
		c.loop.Add(adder)
	}
	c.loop.AddController(fx.PrLvControl, c)
	return
}

func (c *connection) run() {
	c.loop.Run(c.ctx)
}

func (c *connection) close() {
	c.cancel()
	if closer, ok := c.conn.(io.Closer); ok {
		closer.Close()
	}
}

func (c *connection) handleEvent(now time.Time, ev device.Event) {
	switch c.mapping.Handle(ev) {
	case ActionDrive:
		c.drive(now)
	case ActionStop:
		c.stopAll()
	case ActionToggleMode:
		c.toggleMode()
	}
}

func (c *connection) drive(now time.Time) {
	c.lastSent = now
	c.conn.DoCommand(l1msgs.NewSwerveDrive(c.mapping.Command()))
}

func (c *connection) toggleMode() {
	if c.mode == nil {
		glog.Warning("swerve mode not available yet")
		return
	}
	mode := kinematics.FieldRelative
	if *c.mode == kinematics.FieldRelative {
		mode = kinematics.RobotRelative
	}
	c.mode = &mode
	glog.Infof("swerve mode: %s", mode)
	c.conn.DoCommand(&l1msgs.SwerveMode{Mode: mode.String()})
}

func (c *connection) stopAll() {
	c.mapping.Reset()
	c.conn.DoCommand(&l1msgs.SwerveStop{})
}

// Run implements Runnable to query the reference mode from the controller.
func (c *connection) Run(ctx context.Context) error {
	for {
		msg, err := l1.Wait(ctx, c.conn.DoCommand(&l1msgs.SwerveStatusQuery{}))
		if err != nil {
			glog.Errorf("SwerveStatusQuery error: %v", err)
		} else if reply, ok := msg.(*l1msgs.SwerveStatusReply); ok && reply.Status != nil {
			mode, err := kinematics.ParseReferenceMode(reply.Status.Mode)
			if err != nil {
				glog.Errorf("SwerveStatusReply: %v", err)
			}
			loopCtl := fx.LoopCtlFrom(ctx)
			loopCtl.PostMessage(&modeMsg{mode: mode})
			loopCtl.TriggerNext()
			break
		} else {
			glog.Error("SwerveStatusQuery got unknown response")
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Second):
		}
	}
	return nil
}

// Control implements Controller.
func (c *connection) Control(cc fx.ControlContext) error {
	cc.Messages().ProcessMessages(fx.ProcessMessageFunc(func(mctx fx.MessageProcessingContext) {
		switch msg := mctx.CurrentMessage().(type) {
		case *eventMsg:
			mctx.MessageTaken()
			if msg.stopAll {
				c.stopAll()
			} else {
				c.handleEvent(cc.Time(), msg.event)
			}
		case *modeMsg:
			mctx.MessageTaken()
			glog.Infof("swerve mode: %s", msg.mode)
			c.mode = &msg.mode
		}
	}))
	// keep the controller watchdog fed while a stick is held.
	if c.resend > 0 && !c.mapping.Command().IsZero() && cc.Time().Sub(c.lastSent) >= c.resend {
		c.drive(cc.Time())
	}
	return nil
}
