// Package serial carries L1 messages over a serial tether using
// length-prefixed packets.
//
// The URL has the form
//
//	serial:///dev/ttyUSB0?baud=115200&type=swerve&id=bot1
//
// A tether connects exactly one controller, type and id are only used
// by Discover.
package serial

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strconv"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"github.com/tarm/serial"

	fx "github.com/robotalks/swerve.go/pkg/framework"
	"github.com/robotalks/swerve.go/pkg/l1"
	"github.com/robotalks/swerve.go/pkg/l1/comm"
	"github.com/robotalks/swerve.go/pkg/l1/comm/stream"
)

// Scheme is the URL scheme of serial transport.
const Scheme = "serial"

// DefaultBaud is the default baud rate.
const DefaultBaud = 115200

// Config describes a serial port.
type Config struct {
	Device string
	Baud   int
	Ref    l1.ControllerRef
}

// ParseURL parses a serial URL.
func ParseURL(portURL string) (*Config, error) {
	u, err := url.Parse(portURL)
	if err != nil {
		return nil, err
	}
	if u.Scheme != Scheme {
		return nil, fmt.Errorf("invalid scheme %q, expect %q", u.Scheme, Scheme)
	}
	conf := &Config{Device: u.Path, Baud: DefaultBaud}
	if conf.Device == "" {
		return nil, fmt.Errorf("serial device required: %s", portURL)
	}
	q := u.Query()
	if val := q.Get("baud"); val != "" {
		if conf.Baud, err = strconv.Atoi(val); err != nil || conf.Baud <= 0 {
			return nil, fmt.Errorf("invalid baud %q", val)
		}
	}
	conf.Ref.Type, conf.Ref.ID = q.Get("type"), q.Get("id")
	return conf, nil
}

// OpenFunc opens the serial device. It's replaceable for tests.
var OpenFunc = func(conf *Config) (io.ReadWriteCloser, error) {
	port, err := serial.OpenPort(&serial.Config{Name: conf.Device, Baud: conf.Baud})
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", conf.Device)
	}
	glog.Infof("serial %s opened at %d", conf.Device, conf.Baud)
	return port, nil
}

// Registrar implements l1.Registrar on the controller end of a tether.
type Registrar struct {
	Config *Config

	registrar comm.Registrar
}

// NewRegistrar opens the port and creates a Registrar.
func NewRegistrar(portURL string) (*Registrar, error) {
	conf, err := ParseURL(portURL)
	if err != nil {
		return nil, err
	}
	port, err := OpenFunc(conf)
	if err != nil {
		return nil, err
	}
	r := &Registrar{Config: conf}
	r.registrar.Init(stream.New(port))
	return r, nil
}

// SendEvent implements Registrar.
func (r *Registrar) SendEvent(ctx context.Context, msg fx.Message) error {
	return r.registrar.SendEvent(ctx, msg)
}

// AddToLoop implements LoopAdder.
func (r *Registrar) AddToLoop(loop *fx.Loop) {
	loop.Add(&r.registrar)
}

// Connector implements l1.Connector on the remote end of a tether.
type Connector struct {
	Config *Config
}

// NewConnector creates a Connector.
func NewConnector(portURL string) (*Connector, error) {
	conf, err := ParseURL(portURL)
	if err != nil {
		return nil, err
	}
	return &Connector{Config: conf}, nil
}

// Discover implements Connector.
func (c *Connector) Discover(context.Context) ([]l1.ControllerInfo, error) {
	if !c.Config.Ref.IsValid() {
		return nil, nil
	}
	return []l1.ControllerInfo{{Ref: c.Config.Ref}}, nil
}

// Connect implements Connector.
func (c *Connector) Connect(ctx context.Context, ref l1.ControllerRef) (l1.ControllerConn, error) {
	if c.Config.Ref.IsValid() && ref != c.Config.Ref {
		return nil, fmt.Errorf("%s is not on %s", ref.Name(), c.Config.Device)
	}
	port, err := OpenFunc(c.Config)
	if err != nil {
		return nil, err
	}
	conn := &ControllerConn{}
	conn.Init(stream.New(port))
	return conn, nil
}

// ControllerConn implements ControllerConn over a serial port.
// Close closes the port.
type ControllerConn struct {
	comm.ControllerConn
}
