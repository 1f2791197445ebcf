package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/golang/glog"
	"golang.org/x/net/websocket"

	fx "github.com/robotalks/swerve.go/pkg/framework"
	"github.com/robotalks/swerve.go/pkg/l1"
	"github.com/robotalks/swerve.go/pkg/l1/comm"
)

// MetaSuffix is appended to the URL path to serve ControllerInfo.
const MetaSuffix = "/meta"

// Registrar implements l1.Registrar by serving websocket connections.
// Every connection is a connector, events are broadcasted to all of them.
type Registrar struct {
	Info l1.ControllerInfo
	URL  *url.URL

	lock     sync.Mutex
	ctx      context.Context
	listener net.Listener
	server   *http.Server
	conns    map[*comm.Registrar]struct{}
}

// NewRegistrar creates a Registrar listening on serverURL,
// e.g. ws://:8080/swerve.
func NewRegistrar(serverURL string, info l1.ControllerInfo) (*Registrar, error) {
	u, err := parseURL(serverURL)
	if err != nil {
		return nil, err
	}
	return &Registrar{
		Info:  info,
		URL:   u,
		conns: make(map[*comm.Registrar]struct{}),
	}, nil
}

func parseURL(serverURL string) (*url.URL, error) {
	u, err := url.Parse(serverURL)
	if err != nil {
		return nil, err
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return nil, fmt.Errorf("invalid websocket URL scheme %q", u.Scheme)
	}
	u.Path = "/" + strings.Trim(u.Path, "/")
	return u, nil
}

// Listen starts listening if not yet.
func (r *Registrar) Listen() (net.Addr, error) {
	r.lock.Lock()
	defer r.lock.Unlock()
	if r.listener == nil {
		ln, err := net.Listen("tcp", r.URL.Host)
		if err != nil {
			return nil, err
		}
		r.listener = ln
		glog.Infof("websocket registrar listening on %s%s", ln.Addr(), r.URL.Path)
	}
	return r.listener.Addr(), nil
}

// Handler returns the http.Handler serving the controller.
func (r *Registrar) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle(r.URL.Path, websocket.Server{Handler: r.serveConn})
	mux.HandleFunc(strings.TrimSuffix(r.URL.Path, "/")+MetaSuffix, r.serveMeta)
	return mux
}

// SendEvent implements Registrar.
func (r *Registrar) SendEvent(ctx context.Context, msg fx.Message) error {
	r.lock.Lock()
	regs := make([]*comm.Registrar, 0, len(r.conns))
	for reg := range r.conns {
		regs = append(regs, reg)
	}
	r.lock.Unlock()
	var errs fx.AggregatedError
	for _, reg := range regs {
		errs.Add(reg.SendEvent(ctx, msg))
	}
	return errs.Aggregate()
}

// AddToLoop implements LoopAdder.
func (r *Registrar) AddToLoop(loop *fx.Loop) {
	loop.AddRunnable(r)
}

// Run implements Runnable.
func (r *Registrar) Run(ctx context.Context) error {
	if _, err := r.Listen(); err != nil {
		return err
	}
	r.lock.Lock()
	r.ctx = ctx
	r.server = &http.Server{Handler: r.Handler()}
	server, ln := r.server, r.listener
	r.lock.Unlock()
	return fx.RunWithContextCloser(ctx, r, func() error {
		return server.Serve(ln)
	})
}

// Close stops the server and closes all connections.
func (r *Registrar) Close() error {
	r.lock.Lock()
	defer r.lock.Unlock()
	var errs fx.AggregatedError
	if r.server != nil {
		errs.Add(r.server.Close())
		r.server = nil
	} else if r.listener != nil {
		errs.Add(r.listener.Close())
	}
	r.listener = nil
	for reg := range r.conns {
		errs.Add(reg.Close())
	}
	return errs.Aggregate()
}

func (r *Registrar) serveConn(conn *websocket.Conn) {
	r.lock.Lock()
	ctx := r.ctx
	r.lock.Unlock()
	if ctx == nil {
		conn.Close()
		return
	}
	reg := &comm.Registrar{}
	reg.Init(New(conn))
	r.lock.Lock()
	r.conns[reg] = struct{}{}
	r.lock.Unlock()
	glog.V(2).Infof("connector %s connected", conn.Request().RemoteAddr)

	err := reg.Serve(ctx)

	r.lock.Lock()
	delete(r.conns, reg)
	r.lock.Unlock()
	glog.V(2).Infof("connector %s disconnected: %v", conn.Request().RemoteAddr, err)
}

func (r *Registrar) serveMeta(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(&r.Info)
}
